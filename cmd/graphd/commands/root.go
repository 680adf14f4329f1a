// Package commands implements the CLI commands for graphd server management.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/graphd/cmd/graphd/commands/config"
)

// Version information injected at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "graphd",
	Short: "Graphd - Knowledge graph server",
	Long: `Graphd is a knowledge graph server that ingests episodes of text into a
Neo4j-backed graph and retrieves them by query. It gates its startup on the
graph database: the server waits for Neo4j to accept connections before
initializing, so deployment rollouts never route traffic to a half-started
instance.

Use "graphd [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/graphd/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(completionCmd)

	// The hand-rolled completion command replaces cobra's default.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}
