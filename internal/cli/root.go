package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "exitready",
	Short: "Assess a business's exit readiness from a questionnaire submission",
	Long: `Exitready runs a submitted exit-readiness questionnaire through a six-stage
pipeline (intake, research, scoring, summary, qa, finalize) and produces a
scored, personalized Markdown report.

Examples:
  # Show available commands and global flags
  exitready --help

  # Assess one submission
  exitready assess --submission ./submission.json --report-dir ./reports

  # Assess a directory of submissions
  exitready assess --batch-dir ./submissions --report-dir ./reports

  # List the scoring categories
  exitready scorers list

  # Print build info
  exitready version

Output:
  By default, commands write human-readable output to stdout.
  The assess command supports structured output (see "exitready assess --help").`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints every backend API call and full error details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
