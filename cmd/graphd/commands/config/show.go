package config

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/graphd/internal/cli/output"
	"github.com/marmos91/graphd/pkg/config"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Display the current graphd configuration.

By default outputs YAML format. Use --output to change format.

Examples:
  # Show default config as YAML
  graphd config show

  # Show as JSON
  graphd config show --output json

  # Show specific config file
  graphd config show --config /etc/graphd/config.yaml`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	// Get config path from parent's persistent flag
	configPath, _ := cmd.Flags().GetString("config")

	// Load configuration
	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	// Credentials come from the environment; never echo them back.
	redacted := *cfg
	if redacted.Neo4j.Password != "" {
		redacted.Neo4j.Password = "[REDACTED]"
	}
	if redacted.Graph.OpenAIAPIKey != "" {
		redacted.Graph.OpenAIAPIKey = "[REDACTED]"
	}

	// Parse output format
	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	// Print configuration
	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, &redacted)
	default:
		return output.PrintYAML(os.Stdout, &redacted)
	}
}
