package target

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/graphd/internal/cli/targets"
)

var (
	setBaseURL  string
	setNeo4jURI string
)

var setCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update a target",
	Long: `Create or update a saved deployment target.

The first target you add becomes the current one.

Examples:
  # Save the production deployment
  graphd-verify target set production --base-url http://graphd.prod:8000

  # Include the Neo4j endpoint for --probe runs
  graphd-verify target set staging --base-url http://staging:8000 --neo4j-uri bolt://neo4j-staging:7687`,
	Args: cobra.ExactArgs(1),
	RunE: runTargetSet,
}

func init() {
	setCmd.Flags().StringVar(&setBaseURL, "base-url", "", "Base URL of the deployment (required)")
	setCmd.Flags().StringVar(&setNeo4jURI, "neo4j-uri", "", "Neo4j Bolt URI used by --probe")
	_ = setCmd.MarkFlagRequired("base-url")
}

func runTargetSet(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := targets.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open target store: %w", err)
	}

	if err := store.SetTarget(name, &targets.Target{
		BaseURL:  setBaseURL,
		Neo4jURI: setNeo4jURI,
	}); err != nil {
		return fmt.Errorf("failed to save target: %w", err)
	}

	fmt.Printf("Target '%s' saved\n", name)
	if store.GetCurrentTargetName() == name {
		fmt.Printf("Current target: %s\n", name)
	}
	return nil
}
