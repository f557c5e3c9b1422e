package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"exitready/internal/scoring"
)

var scorersListQuiet bool

var scorersCmd = &cobra.Command{
	Use:   "scorers",
	Short: "Manage and list scoring categories",
	Long: `Inspect the scoring categories registered in this build.

Each category contributes a weighted share of the overall readiness score.
Categories are evaluated during assessments (see "exitready assess --help").

Examples:
  # List all scoring categories
  exitready scorers list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var scorersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scoring categories",
	Long: `List the scoring categories registered in this build, with their weights.

Categories are sorted in report order.

Examples:
  exitready scorers list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, s := range scoring.List() {
			if scorersListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), s.Category().Key())
			} else {
				printScorer(cmd.OutOrStdout(), s)
			}
		}
		return nil
	},
}

func printScorer(w io.Writer, s scoring.Scorer) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	_, _ = bold.Fprintf(w, "CATEGORY: %s\n", s.Category().Key())
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "%s (weight %.2f)\n", s.Title(), scoring.Weights[s.Category()])
	fmt.Fprintln(w, s.Description())
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(scorersCmd)
	scorersCmd.AddCommand(scorersListCmd)
	scorersListCmd.Flags().BoolVarP(&scorersListQuiet, "quiet", "q", false, "Only print category keys")
}
