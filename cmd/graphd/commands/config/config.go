// Package config implements the config subcommands.
package config

import (
	"github.com/spf13/cobra"
)

// Cmd is the config subcommand group.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Inspect and maintain graphd configuration.

A new configuration file is created with 'graphd init'. The subcommands
here operate on an existing one: validate it, print the effective values,
open it in an editor, or emit a JSON schema for IDE tooling.`,
}

func init() {
	Cmd.AddCommand(editCmd)
	Cmd.AddCommand(validateCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(schemaCmd)
}
