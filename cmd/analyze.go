package cmd

import (
	"github.com/huangsam/buildlens/core"
	"github.com/huangsam/buildlens/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd performs full analysis of a single build report.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [report-path]",
	Short: "Analyze a build report against recent history.",
	Long: `Compare a build report against the rolling baseline from recorded history.

Reads a JSON build report from a file or stdin and produces a full picture:
- Per-metric comparison against the baseline (regressed, improved, stable)
- Trend directions across recent builds
- Anomalies such as duration spikes, failure bursts and coverage drops
- Actionable recommendations derived from slow tests and failures

Unless --dry-run is set, the build and its insight summary are recorded to
history so future analyses can use them as baseline input.

Examples:
  # Analyze a report file
  buildlens analyze report.json

  # Pipe a report from the CI step
  ci-collect --format json | buildlens analyze

  # Inspect a report without touching history
  buildlens analyze report.json --dry-run

  # Fail the pipeline when anything regressed
  buildlens analyze report.json --fail-on-regression

  # Export findings to CSV for tracking
  buildlens analyze report.json --output csv --output-file analysis.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBuildlensAnalyze(rootCtx, cfg, historyStore); err != nil {
			contract.LogFatal("Cannot run build analysis", err)
		}
	},
}
