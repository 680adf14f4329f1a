package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/graphd/internal/cli/health"
	"github.com/marmos91/graphd/internal/cli/output"
	"github.com/marmos91/graphd/internal/cli/timeutil"
)

var (
	statusOutput  string
	statusPidFile string
	statusPort    int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Long: `Display the current status of the graphd server.

This command checks both the liveness endpoint and the readiness endpoint,
so it can distinguish a server that is up from one that is still waiting
for its graph dependency or serving in degraded mode.

Examples:
  # Check status (uses default settings)
  graphd status

  # Check status with custom server port
  graphd status --port 9000

  # Output as JSON
  graphd status --output json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusPidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/graphd/graphd.pid)")
	statusCmd.Flags().IntVar(&statusPort, "port", 8000, "Server HTTP port")
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

// ServerStatus represents the server status information.
type ServerStatus struct {
	Running   bool   `json:"running" yaml:"running"`
	PID       int    `json:"pid,omitempty" yaml:"pid,omitempty"`
	Healthy   bool   `json:"healthy" yaml:"healthy"`
	Ready     bool   `json:"ready" yaml:"ready"`
	State     string `json:"state,omitempty" yaml:"state,omitempty"`
	StartedAt string `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	Uptime    string `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Message   string `json:"message" yaml:"message"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statusOutput)
	if err != nil {
		return err
	}

	status := ServerStatus{
		Running: false,
		Healthy: false,
		Message: "Server is not running",
	}

	// Use default PID file if not specified
	pidPath := statusPidFile
	if pidPath == "" {
		pidPath = GetDefaultPidFile()
	}

	// Check PID file first
	pidData, err := os.ReadFile(pidPath)
	if err == nil {
		pid, err := strconv.Atoi(strings.TrimSpace(string(pidData)))
		if err == nil {
			// Check if process is running
			process, err := os.FindProcess(pid)
			if err == nil {
				// On Unix, FindProcess always succeeds, we need to send signal 0 to check
				err = process.Signal(syscall.Signal(0))
				if err == nil {
					status.Running = true
					status.PID = pid
				}
			}
		}
	}

	client := &http.Client{Timeout: 2 * time.Second}

	// Liveness: is the HTTP server responding at all
	healthURL := fmt.Sprintf("http://localhost:%d/healthcheck", statusPort)
	resp, err := client.Get(healthURL)
	if err == nil {
		defer func() { _ = resp.Body.Close() }()

		var healthResp health.Response
		if err := json.NewDecoder(resp.Body).Decode(&healthResp); err == nil {
			status.Running = true
			status.Healthy = healthResp.Status == "healthy"
		} else {
			status.Running = true
			status.Message = "Server is running but health response invalid"
		}
	} else if status.Running {
		// PID file says running but health check failed
		status.Message = "Server process exists but health check failed"
	}

	// Readiness: has the startup sequence reached the serving state
	if status.Healthy {
		readyURL := fmt.Sprintf("http://localhost:%d/healthcheck/ready", statusPort)
		readyResp, err := client.Get(readyURL)
		if err == nil {
			defer func() { _ = readyResp.Body.Close() }()

			var ready health.ReadyResponse
			if err := json.NewDecoder(readyResp.Body).Decode(&ready); err == nil {
				status.Ready = ready.Status == "ready"
				status.State = ready.State
				status.StartedAt = ready.StartedAt
				status.Uptime = ready.Uptime
				status.Reason = ready.Reason

				switch ready.Status {
				case "ready":
					status.Message = "Server is running and ready"
				case "degraded":
					status.Message = fmt.Sprintf("Server is running in degraded mode: %s", ready.Reason)
				default:
					status.Message = fmt.Sprintf("Server is starting (state: %s)", ready.State)
				}
			} else {
				status.Message = "Server is running but readiness response invalid"
			}
		} else {
			status.Message = "Server is running but readiness check failed"
		}
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, status)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, status)
	default:
		printStatusTable(status)
	}

	return nil
}

func printStatusTable(status ServerStatus) {
	fmt.Println()
	fmt.Println("Graphd Server Status")
	fmt.Println("====================")
	fmt.Println()

	if status.Running {
		switch {
		case status.Ready:
			fmt.Printf("  Status:     \033[32m● Running (ready)\033[0m\n")
		case status.Healthy:
			fmt.Printf("  Status:     \033[33m● Running (not ready)\033[0m\n")
		default:
			fmt.Printf("  Status:     \033[33m● Running (unhealthy)\033[0m\n")
		}
		if status.PID != 0 {
			fmt.Printf("  PID:        %d\n", status.PID)
		}
		if status.State != "" {
			fmt.Printf("  State:      %s\n", status.State)
		}
		if status.StartedAt != "" {
			fmt.Printf("  Started:    %s\n", timeutil.FormatTime(status.StartedAt))
		}
		if status.Uptime != "" {
			fmt.Printf("  Uptime:     %s\n", timeutil.FormatUptime(status.Uptime))
		}
		if status.Reason != "" {
			fmt.Printf("  Reason:     %s\n", status.Reason)
		}
	} else {
		fmt.Printf("  Status:     \033[31m○ Stopped\033[0m\n")
	}

	fmt.Println()
	fmt.Printf("  %s\n", status.Message)
	fmt.Println()
}
