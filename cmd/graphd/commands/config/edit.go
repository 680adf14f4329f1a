package config

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/marmos91/graphd/pkg/config"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration in $EDITOR",
	Long: `Open the configuration file in your editor and validate the result.

The editor is taken from EDITOR, then VISUAL, then falls back to vi.
After the editor exits, the file is loaded again so mistakes surface
immediately instead of at the next server start.

Examples:
  # Edit default config
  graphd config edit

  # Edit specific config file
  graphd config edit --config /etc/graphd/config.yaml`,
	RunE: runConfigEdit,
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("configuration file not found: %s\n\n"+
			"Create it first with:\n"+
			"  graphd init --config %s",
			configPath, configPath)
	}

	editor := resolveEditor()
	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %q: %w", editor, err)
	}

	if _, err := config.MustLoad(configPath); err != nil {
		return fmt.Errorf("configuration saved but no longer validates:\n%w", err)
	}

	fmt.Println("Configuration OK")
	return nil
}

func resolveEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return "vi"
}
