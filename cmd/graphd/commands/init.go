package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/graphd/internal/cli/prompt"
	"github.com/marmos91/graphd/pkg/config"
)

var (
	initForce       bool
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample graphd configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/graphd/config.yaml.
Use --config to specify a custom path, or --interactive to answer a few
questions instead of editing the file afterwards.

Examples:
  # Initialize with default location
  graphd init

  # Initialize with custom path
  graphd init --config /etc/graphd/config.yaml

  # Build the configuration interactively
  graphd init --interactive

  # Force overwrite existing config
  graphd init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Build the configuration interactively")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	if initInteractive {
		return runInitInteractive(configFile)
	}

	var configPath string
	var err error

	if configFile != "" {
		// Use custom path
		err = config.InitConfigToPath(configFile, initForce)
		configPath = configFile
	} else {
		// Use default path
		configPath, err = config.InitConfig(initForce)
	}

	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	printNextSteps(configPath)
	return nil
}

// runInitInteractive asks for the handful of settings that differ between
// deployments and writes the resulting configuration.
func runInitInteractive(configFile string) error {
	path := configFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	cfg := config.GetDefaultConfig()

	port, err := prompt.InputPort("HTTP server port", cfg.Server.Port)
	if err != nil {
		return err
	}
	cfg.Server.Port = port

	uri, err := prompt.Input("Neo4j Bolt URI", cfg.Neo4j.URI)
	if err != nil {
		return err
	}
	cfg.Neo4j.URI = uri

	policy, err := prompt.Select("Dependency policy", []prompt.SelectOption{
		{
			Label:       "fail-fast",
			Value:       "fail-fast",
			Description: "Exit non-zero when Neo4j stays unreachable, so rollouts fail visibly",
		},
		{
			Label:       "continue-degraded",
			Value:       "continue-degraded",
			Description: "Serve health endpoints anyway and report degraded readiness",
		},
	})
	if err != nil {
		return err
	}
	cfg.Startup.DependencyPolicy = policy

	level, err := prompt.Select("Log level", []prompt.SelectOption{
		{Label: "INFO", Value: "INFO"},
		{Label: "DEBUG", Value: "DEBUG"},
		{Label: "WARN", Value: "WARN"},
		{Label: "ERROR", Value: "ERROR"},
	})
	if err != nil {
		return err
	}
	cfg.Logging.Level = level

	if err := config.SaveConfig(cfg, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printNextSteps(path)
	return nil
}

func printNextSteps(configPath string) {
	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the server with: graphd start")
	fmt.Printf("  3. Or specify custom config: graphd start --config %s\n", configPath)
	fmt.Println("\nSecurity note:")
	fmt.Println("  Credentials are never written to the configuration file.")
	fmt.Println("  Provide them through environment variables:")
	fmt.Println("    export OPENAI_API_KEY=sk-...")
	fmt.Println("    export NEO4J_USER=neo4j")
	fmt.Println("    export NEO4J_PASSWORD=...")
}
