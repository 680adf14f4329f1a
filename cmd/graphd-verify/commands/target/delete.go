package target

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/graphd/internal/cli/prompt"
	"github.com/marmos91/graphd/internal/cli/targets"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a target",
	Long: `Delete a saved deployment target.

Examples:
  # Delete the target named "staging"
  graphd-verify target delete staging

  # Delete without confirmation
  graphd-verify target delete staging --force`,
	Args: cobra.ExactArgs(1),
	RunE: runTargetDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")
}

func runTargetDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := targets.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open target store: %w", err)
	}

	if _, err := store.GetTarget(name); err != nil {
		if errors.Is(err, targets.ErrTargetNotFound) {
			return fmt.Errorf("target '%s' not found", name)
		}
		return fmt.Errorf("failed to get target: %w", err)
	}

	confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Delete target '%s'?", name), deleteForce)
	if err != nil {
		if prompt.IsAborted(err) {
			fmt.Println("Aborted")
			return nil
		}
		return err
	}
	if !confirmed {
		fmt.Println("Aborted")
		return nil
	}

	if err := store.DeleteTarget(name); err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}

	fmt.Printf("Target '%s' deleted\n", name)
	return nil
}
