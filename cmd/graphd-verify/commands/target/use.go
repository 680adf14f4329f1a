package target

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/graphd/internal/cli/targets"
)

var useCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch the current target",
	Long: `Switch the current deployment target.

Subsequent graphd-verify runs without --base-url or --target check this
deployment.

Examples:
  # Switch to the target named "production"
  graphd-verify target use production`,
	Args: cobra.ExactArgs(1),
	RunE: runTargetUse,
}

func runTargetUse(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := targets.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open target store: %w", err)
	}

	if err := store.UseTarget(name); err != nil {
		if errors.Is(err, targets.ErrTargetNotFound) {
			return fmt.Errorf("target '%s' not found\n\n"+
				"List available targets:\n"+
				"  graphd-verify target list", name)
		}
		return fmt.Errorf("failed to switch target: %w", err)
	}

	fmt.Printf("Switched to target: %s\n", name)
	return nil
}
