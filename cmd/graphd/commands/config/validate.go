package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/graphd/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the graphd configuration file.

Checks for syntax errors, missing required fields, and invalid values.
Credentials are read from the environment, so missing ones are
reported as warnings rather than errors.

Examples:
  # Validate default config
  graphd config validate

  # Validate specific config file
  graphd config validate --config /etc/graphd/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// Get config path from parent's persistent flag
	configPath, _ := cmd.Flags().GetString("config")

	// Load and validate configuration
	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	// Determine path for display
	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	// Additional validation checks
	var warnings []string

	if cfg.Neo4j.Password == "" {
		warnings = append(warnings, "Neo4j password not configured - set NEO4J_PASSWORD before starting")
	}

	if cfg.Graph.OpenAIAPIKey == "" {
		warnings = append(warnings, "OpenAI API key not configured - set OPENAI_API_KEY before starting")
	}

	// Print results
	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  Neo4j URI:         %s\n", cfg.Neo4j.URI)
	fmt.Printf("  Server port:       %d\n", cfg.Server.Port)
	fmt.Printf("  Log level:         %s\n", cfg.Logging.Level)
	fmt.Printf("  Dependency policy: %s\n", cfg.Startup.DependencyPolicy)

	return nil
}
