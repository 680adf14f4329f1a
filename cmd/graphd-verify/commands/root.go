// Package commands implements the CLI commands for graphd-verify.
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/graphd/cmd/graphd-verify/commands/target"
	"github.com/marmos91/graphd/internal/cli/output"
	"github.com/marmos91/graphd/internal/cli/targets"
	"github.com/marmos91/graphd/pkg/verify"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	flagBaseURL string
	flagTimeout time.Duration
	flagOutput  string
	flagProbe   bool
	flagNoColor bool
	flagTarget  string
)

// rootCmd runs the verification suite when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "graphd-verify",
	Short: "Verify a graphd deployment",
	Long: `graphd-verify checks a running graphd deployment from the outside.

It verifies that the required environment variables are set, that the Neo4j
URI is well formed, and that the HTTP endpoints respond. The process exits 0
when every required check passes and 1 otherwise, so it slots directly into
deployment pipelines.

Examples:
  # Verify the local deployment
  graphd-verify

  # Verify a remote instance and probe Neo4j reachability
  graphd-verify --base-url http://graphd.prod:8000 --probe

  # Machine-readable report
  graphd-verify -o json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runVerify,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVar(&flagBaseURL, "base-url", "", "Base URL of the deployment (default: current target or "+verify.DefaultBaseURL+")")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", verify.DefaultTimeout, "Timeout per HTTP check")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (table|json|yaml)")
	rootCmd.Flags().BoolVar(&flagProbe, "probe", false, "Also probe the Neo4j endpoint for TCP reachability")
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().StringVar(&flagTarget, "target", "", "Use a saved target by name")

	rootCmd.AddCommand(target.Cmd)

	// Hide the default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func runVerify(cmd *cobra.Command, args []string) error {
	store, err := targets.NewStore()
	if err != nil {
		return fmt.Errorf("failed to open target store: %w", err)
	}

	baseURL, neo4jURI, err := resolveTarget(store)
	if err != nil {
		return err
	}

	format, color, err := resolvePresentation(store)
	if err != nil {
		return err
	}

	opts := []verify.Option{
		verify.WithBaseURL(baseURL),
		verify.WithTimeout(flagTimeout),
	}
	if neo4jURI != "" {
		opts = append(opts, verify.WithNeo4jURI(neo4jURI))
	}
	if flagProbe {
		opts = append(opts, verify.WithDependencyProbe(0))
	}

	rep := verify.New(opts...).Run(cmd.Context())

	printer := output.NewPrinter(os.Stdout, format, color)
	if format == output.FormatTable {
		renderReport(printer, rep)
	} else if err := printer.Print(rep); err != nil {
		return err
	}

	if !rep.Overall {
		os.Exit(1)
	}
	return nil
}

// resolveTarget decides where the checks point. An explicit --base-url wins,
// then --target, then the stored current target, then the local default.
func resolveTarget(store *targets.Store) (string, string, error) {
	var baseURL, neo4jURI string

	if flagTarget != "" {
		t, err := store.GetTarget(flagTarget)
		if err != nil {
			return "", "", fmt.Errorf("target '%s' not found\n\n"+
				"List available targets:\n"+
				"  graphd-verify target list", flagTarget)
		}
		baseURL, neo4jURI = t.BaseURL, t.Neo4jURI
	} else if t, err := store.GetCurrentTarget(); err == nil {
		baseURL, neo4jURI = t.BaseURL, t.Neo4jURI
	}

	if flagBaseURL != "" {
		baseURL = flagBaseURL
	}
	if baseURL == "" {
		baseURL = verify.DefaultBaseURL
	}
	return baseURL, neo4jURI, nil
}

// resolvePresentation picks output format and color, honoring stored
// preferences when the flags are left at their defaults.
func resolvePresentation(store *targets.Store) (output.Format, bool, error) {
	prefs := store.GetPreferences()

	formatStr := flagOutput
	if formatStr == "" {
		formatStr = prefs.DefaultOutput
	}
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return "", false, err
	}

	color := !flagNoColor && prefs.Color != "never"
	return format, color, nil
}
