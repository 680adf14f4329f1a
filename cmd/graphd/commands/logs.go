package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/marmos91/graphd/pkg/config"
)

var (
	logsFollow bool
	logsLines  int
	logsSince  string
	logsFile   string
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show server logs",
	Long: `Show and optionally follow the graphd server logs.

The log file is taken from 'logging.output' in the configuration. When the
server logs to stdout/stderr, daemon mode redirects that output to the
state-dir log file, which this command falls back to.

Examples:
  # Show last 100 lines (default)
  graphd logs

  # Show last 50 lines and keep following
  graphd logs -n 50 -f

  # Show entries since a specific time
  graphd logs --since "2026-01-15T10:00:00Z"

  # Read an explicit file
  graphd logs --file /var/log/graphd.log`,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 100, "Number of lines to show")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries at or after this RFC3339 timestamp")
	logsCmd.Flags().StringVar(&logsFile, "file", "", "Log file to read (default: resolved from config)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	path, err := resolveLogPath()
	if err != nil {
		return err
	}

	var since time.Time
	if logsSince != "" {
		since, err = time.Parse(time.RFC3339, logsSince)
		if err != nil {
			return fmt.Errorf("invalid --since format (use RFC3339): %w", err)
		}
	}

	if err := printLastLines(os.Stdout, path, logsLines, since); err != nil {
		return err
	}
	if !logsFollow {
		return nil
	}
	return followLogFile(path)
}

// resolveLogPath picks the file to read: the --file flag, the configured
// file output, or the daemon redirect target when logging goes to a stream.
func resolveLogPath() (string, error) {
	if logsFile != "" {
		return logsFile, nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	out := cfg.Logging.Output
	if out != "stdout" && out != "stderr" {
		if _, err := os.Stat(out); err != nil {
			return "", fmt.Errorf("log file not found: %s\nThe server may not have started yet or is logging elsewhere", out)
		}
		return out, nil
	}

	// Stream output: the daemonized server writes it to the state dir.
	fallback := GetDefaultLogFile()
	if _, err := os.Stat(fallback); err != nil {
		return "", fmt.Errorf("server logs to %s and no daemon log exists at %s\nStart the server in daemon mode, or set 'logging.output' to a file path", out, fallback)
	}
	return fallback, nil
}

// printLastLines writes the last n lines of the file, skipping entries older
// than since. Memory stays bounded by n regardless of file size.
func printLastLines(w io.Writer, path string, n int, since time.Time) error {
	if n < 0 {
		n = 0
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	ring := make([]string, n)
	count := 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !since.IsZero() {
			if ts := parseLogTime(line); !ts.IsZero() && ts.Before(since) {
				continue
			}
		}
		if n > 0 {
			ring[count%n] = line
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	kept := count
	if kept > n {
		kept = n
	}
	for i := count - kept; i < count; i++ {
		fmt.Fprintln(w, ring[i%n])
	}
	return nil
}

// followLogFile streams appended lines until interrupted. Rotation (rename or
// remove of the watched file) reopens the new file at that path.
func followLogFile(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch log file: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek log file: %w", err)
	}
	reader := bufio.NewReader(file)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	fmt.Fprintf(os.Stderr, "Following %s (Ctrl+C to stop)...\n", path)

	drain := func() {
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				fmt.Print(line)
			}
			if err != nil {
				return
			}
		}
	}

	for {
		select {
		case <-sigCh:
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			switch {
			case event.Op&fsnotify.Write != 0:
				drain()
			case event.Op&(fsnotify.Rename|fsnotify.Remove) != 0:
				// Rotation: pick up the replacement file when it appears.
				drain()
				_ = file.Close()
				reopened, err := waitForFile(path, 5*time.Second)
				if err != nil {
					return fmt.Errorf("log file rotated and no replacement appeared: %w", err)
				}
				file = reopened
				reader = bufio.NewReader(file)
				_ = watcher.Add(path)
				drain()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// waitForFile polls for path to exist again after a rotation.
func waitForFile(path string, limit time.Duration) (*os.File, error) {
	deadline := time.Now().Add(limit)
	for {
		file, err := os.Open(path)
		if err == nil {
			return file, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// parseLogTime extracts the timestamp from a graphd log line. Text lines
// start with "[2006-01-02 15:04:05]"; JSON lines carry a "time" field in
// RFC3339 form.
func parseLogTime(line string) time.Time {
	const textLayout = "2006-01-02 15:04:05"
	if len(line) > len(textLayout)+1 && line[0] == '[' {
		if t, err := time.ParseInLocation(textLayout, line[1:len(textLayout)+1], time.Local); err == nil {
			return t
		}
	}

	const timeKey = `"time":"`
	if idx := strings.Index(line, timeKey); idx >= 0 {
		rest := line[idx+len(timeKey):]
		if end := strings.IndexByte(rest, '"'); end > 0 {
			if t, err := time.Parse(time.RFC3339Nano, rest[:end]); err == nil {
				return t
			}
		}
	}

	return time.Time{}
}
