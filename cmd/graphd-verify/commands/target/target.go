// Package target implements saved deployment target subcommands for graphd-verify.
package target

import (
	"github.com/spf13/cobra"
)

// Cmd is the target subcommand.
var Cmd = &cobra.Command{
	Use:   "target",
	Short: "Manage saved deployment targets",
	Long: `Manage saved deployment targets for graphd-verify.

Targets save the base URL (and optionally the Neo4j URI) of deployments you
verify often, so repeated runs need no flags.

Subcommands:
  list     List all saved targets
  set      Create or update a target
  use      Switch the current target
  delete   Delete a target`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(useCmd)
	Cmd.AddCommand(deleteCmd)
}
