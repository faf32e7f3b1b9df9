package cmd

import (
	"github.com/huangsam/buildlens/core"
	"github.com/huangsam/buildlens/internal/contract"
	"github.com/spf13/cobra"
)

// baselineCmd shows the current baseline aggregates.
var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Show the baseline computed from recent recorded builds.",
	Long: `Compute and display the rolling baseline from recorded history.

The baseline folds the most recent builds (--window, default 5) into
averages and P95 values per metric. It is the reference that analyze and
check compare new builds against.

Use --repo to scope the baseline to a single repository; otherwise builds
from every recorded repository are considered.

Examples:
  # Baseline over the default window
  buildlens baseline --repo acme/shop

  # Widen the window for a steadier reference
  buildlens baseline --repo acme/shop --window 10

  # Emit the baseline as JSON for other tools
  buildlens baseline --repo acme/shop --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBuildlensBaseline(rootCtx, cfg, historyStore); err != nil {
			contract.LogFatal("Cannot compute baseline", err)
		}
	},
}
