package target

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/marmos91/graphd/internal/cli/output"
	"github.com/marmos91/graphd/internal/cli/targets"
)

var listOutput string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved targets",
	Long: `List all saved deployment targets.

The current target is marked with an asterisk (*).

Examples:
  # List targets as table
  graphd-verify target list

  # List as JSON
  graphd-verify target list -o json`,
	RunE: runTargetList,
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

// TargetInfo represents target information for output.
type TargetInfo struct {
	Name     string `json:"name" yaml:"name"`
	Current  bool   `json:"current" yaml:"current"`
	BaseURL  string `json:"base_url" yaml:"base_url"`
	Neo4jURI string `json:"neo4j_uri,omitempty" yaml:"neo4j_uri,omitempty"`
}

// TargetList is a list of targets for table rendering.
type TargetList []TargetInfo

// Headers implements output.TableRenderer.
func (tl TargetList) Headers() []string {
	return []string{"", "NAME", "BASE URL", "NEO4J URI"}
}

// Rows implements output.TableRenderer.
func (tl TargetList) Rows() [][]string {
	rows := make([][]string, 0, len(tl))
	for _, t := range tl {
		current := ""
		if t.Current {
			current = "*"
		}
		rows = append(rows, []string{current, t.Name, t.BaseURL, t.Neo4jURI})
	}
	return rows
}

func runTargetList(cmd *cobra.Command, args []string) error {
	store, err := targets.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open target store: %w", err)
	}

	names := store.ListTargets()
	sort.Strings(names)
	current := store.GetCurrentTargetName()

	list := make(TargetList, 0, len(names))
	for _, name := range names {
		t, err := store.GetTarget(name)
		if err != nil {
			continue
		}
		list = append(list, TargetInfo{
			Name:     name,
			Current:  name == current,
			BaseURL:  t.BaseURL,
			Neo4jURI: t.Neo4jURI,
		})
	}

	if len(list) == 0 {
		fmt.Println("No targets saved. Use 'graphd-verify target set <name> --base-url <url>' to add one.")
		return nil
	}

	format, err := output.ParseFormat(listOutput)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, list)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, list)
	default:
		return output.PrintTable(os.Stdout, list)
	}
}
