package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/marmos91/graphd/internal/logger"
	"github.com/marmos91/graphd/pkg/config"
)

// InitLogger configures the process-wide logger from the loaded config.
func InitLogger(cfg *config.Config) error {
	err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// GetDefaultStateDir returns the directory for runtime state (pidfile and
// daemon log), following the XDG base directory layout.
func GetDefaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "graphd")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "graphd")
	}
	return filepath.Join(home, ".local", "state", "graphd")
}

// GetDefaultPidFile returns the default PID file path.
func GetDefaultPidFile() string {
	return filepath.Join(GetDefaultStateDir(), "graphd.pid")
}

// GetDefaultLogFile returns the log file the daemon redirects its output to.
func GetDefaultLogFile() string {
	return filepath.Join(GetDefaultStateDir(), "graphd.log")
}
