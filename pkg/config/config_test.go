package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_ConfigFile(t *testing.T) {
	// Neutralize ambient credentials from the developer machine. Viper
	// treats empty environment values as unset.
	t.Setenv("NEO4J_URI", "")
	t.Setenv("NEO4J_USER", "")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "DEBUG"

server:
  port: 9000

neo4j:
  uri: "bolt://graph.internal:7687"
  user: "neo4j"

startup:
  dependency_policy: "continue-degraded"
  wait:
    max_attempts: 5
    initial_delay: "1s"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Explicit values are preserved
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Neo4j.URI != "bolt://graph.internal:7687" {
		t.Errorf("Expected explicit neo4j uri, got %q", cfg.Neo4j.URI)
	}
	if cfg.Startup.DependencyPolicy != "continue-degraded" {
		t.Errorf("Expected continue-degraded, got %q", cfg.Startup.DependencyPolicy)
	}
	if cfg.Startup.Wait.MaxAttempts != 5 {
		t.Errorf("Expected 5 attempts, got %d", cfg.Startup.Wait.MaxAttempts)
	}
	if cfg.Startup.Wait.InitialDelay != time.Second {
		t.Errorf("Expected 1s initial delay, got %v", cfg.Startup.Wait.InitialDelay)
	}

	// Defaults fill the gaps
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected default host 0.0.0.0, got %q", cfg.Server.Host)
	}
	if cfg.Startup.InitPolicy != "fail-fast" {
		t.Errorf("Expected default init policy fail-fast, got %q", cfg.Startup.InitPolicy)
	}
	if cfg.Startup.Wait.Multiplier != 1.2 {
		t.Errorf("Expected default multiplier 1.2, got %v", cfg.Startup.Wait.Multiplier)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown_timeout 30s, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	// Loading with no config file returns a valid default config. Container
	// deployments run graphd this way, configured purely by environment.
	tmpDir := t.TempDir()
	nonExistentPath := filepath.Join(tmpDir, "nonexistent.yaml")

	cfg, err := Load(nonExistentPath)
	if err != nil {
		t.Fatalf("Expected no error when loading default config, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected default config to be returned")
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Startup.DependencyPolicy != "fail-fast" {
		t.Errorf("Expected default dependency policy fail-fast, got %q", cfg.Startup.DependencyPolicy)
	}
}

func TestLoad_EnvironmentOnly(t *testing.T) {
	// The canonical container variable names work without any config file.
	t.Setenv("OPENAI_API_KEY", "sk-test-1234")
	t.Setenv("NEO4J_URI", "bolt://db:9999")
	t.Setenv("NEO4J_USER", "neo4j")
	t.Setenv("NEO4J_PASSWORD", "s3cret")
	t.Setenv("SEMAPHORE_LIMIT", "35")
	t.Setenv("MODEL_NAME", "gpt-4.1")

	tmpDir := t.TempDir()
	cfg, err := Load(filepath.Join(tmpDir, "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Failed to load env-only config: %v", err)
	}

	if cfg.Graph.OpenAIAPIKey != "sk-test-1234" {
		t.Errorf("Expected OPENAI_API_KEY to apply, got %q", cfg.Graph.OpenAIAPIKey)
	}
	if cfg.Neo4j.URI != "bolt://db:9999" {
		t.Errorf("Expected NEO4J_URI to apply, got %q", cfg.Neo4j.URI)
	}
	if cfg.Neo4j.User != "neo4j" {
		t.Errorf("Expected NEO4J_USER to apply, got %q", cfg.Neo4j.User)
	}
	if cfg.Neo4j.Password != "s3cret" {
		t.Errorf("Expected NEO4J_PASSWORD to apply, got %q", cfg.Neo4j.Password)
	}
	if cfg.Graph.SemaphoreLimit != 35 {
		t.Errorf("Expected SEMAPHORE_LIMIT 35, got %d", cfg.Graph.SemaphoreLimit)
	}
	if cfg.Graph.ModelName != "gpt-4.1" {
		t.Errorf("Expected MODEL_NAME to apply, got %q", cfg.Graph.ModelName)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("GRAPHD_LOGGING_LEVEL", "ERROR")
	t.Setenv("GRAPHD_SERVER_PORT", "9001")
	t.Setenv("GRAPHD_STARTUP_WAIT_MAX_ATTEMPTS", "3")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "INFO"

server:
  port: 8000
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected level ERROR from env var, got %q", cfg.Logging.Level)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("Expected port 9001 from env var, got %d", cfg.Server.Port)
	}
	if cfg.Startup.Wait.MaxAttempts != 3 {
		t.Errorf("Expected 3 attempts from env var, got %d", cfg.Startup.Wait.MaxAttempts)
	}
}

func TestLoad_PrefixedEnvWinsOverCanonical(t *testing.T) {
	t.Setenv("GRAPHD_NEO4J_USER", "admin")
	t.Setenv("NEO4J_USER", "neo4j")

	tmpDir := t.TempDir()
	cfg, err := Load(filepath.Join(tmpDir, "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Neo4j.User != "admin" {
		t.Errorf("Expected prefixed env var to win, got %q", cfg.Neo4j.User)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	configContent := `
logging:
  level: INFO
  invalid yaml here [[[
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected error with invalid YAML, got nil")
	}
}

func TestLoad_InvalidPolicy(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
startup:
  dependency_policy: "sometimes"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected validation error for unknown policy, got nil")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestLoad_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[logging]
level = "WARN"
format = "json"

[server]
port = 9000

[startup.wait]
max_attempts = 10
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load TOML config: %v", err)
	}

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected level 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected format 'json', got %q", cfg.Logging.Format)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Startup.Wait.MaxAttempts != 10 {
		t.Errorf("Expected 10 attempts, got %d", cfg.Startup.Wait.MaxAttempts)
	}
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected default host 0.0.0.0, got %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Neo4j.URI != "bolt://neo4j:7687" {
		t.Errorf("Expected default neo4j uri, got %q", cfg.Neo4j.URI)
	}
	if cfg.Startup.DependencyPolicy != "fail-fast" {
		t.Errorf("Expected default dependency policy fail-fast, got %q", cfg.Startup.DependencyPolicy)
	}
	if cfg.Startup.InitPolicy != "fail-fast" {
		t.Errorf("Expected default init policy fail-fast, got %q", cfg.Startup.InitPolicy)
	}
	if cfg.Startup.Wait.MaxAttempts != 30 {
		t.Errorf("Expected default 30 attempts, got %d", cfg.Startup.Wait.MaxAttempts)
	}
	if cfg.Startup.Wait.InitialDelay != 2*time.Second {
		t.Errorf("Expected default 2s initial delay, got %v", cfg.Startup.Wait.InitialDelay)
	}
	if cfg.Startup.Wait.Multiplier != 1.2 {
		t.Errorf("Expected default multiplier 1.2, got %v", cfg.Startup.Wait.Multiplier)
	}
	if cfg.Startup.Wait.MaxDelay != 10*time.Second {
		t.Errorf("Expected default 10s max delay, got %v", cfg.Startup.Wait.MaxDelay)
	}
	if cfg.Startup.Wait.ProbeTimeout != 5*time.Second {
		t.Errorf("Expected default 5s probe timeout, got %v", cfg.Startup.Wait.ProbeTimeout)
	}
	if cfg.Graph.SemaphoreLimit != 20 {
		t.Errorf("Expected default semaphore limit 20, got %d", cfg.Graph.SemaphoreLimit)
	}
	if cfg.Graph.HistoryLimit != 1000 {
		t.Errorf("Expected default history limit 1000, got %d", cfg.Graph.HistoryLimit)
	}
	if cfg.Metrics.Enabled {
		t.Error("Expected metrics to default to disabled")
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()

	if !filepath.IsAbs(path) {
		t.Errorf("Expected absolute path, got %q", path)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("Expected filename 'config.yaml', got %q", filepath.Base(path))
	}
}

func TestGetConfigDir(t *testing.T) {
	dir := GetConfigDir()

	if filepath.Base(dir) != "graphd" {
		t.Errorf("Expected directory name 'graphd', got %q", filepath.Base(dir))
	}
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sub", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Neo4j.Password = "s3cret"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat saved config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected permissions 0600, got %o", perm)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}
	if !strings.Contains(string(content), "s3cret") {
		t.Error("Expected saved config to contain the configured password")
	}
}
