package cmd

import (
	"github.com/huangsam/buildlens/core"
	"github.com/huangsam/buildlens/internal/contract"
	"github.com/spf13/cobra"
)

// trendsCmd analyzes metric direction over recorded history.
var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show whether build metrics are trending up, down or stable.",
	Long: `Analyze the direction of each metric across recorded history.

Splits recent builds into an older and a newer half and compares their
means. Changes within the epsilon band (--trend-epsilon, default 5%) count
as stable. This answers questions like:
- Is the build getting slower release over release?
- Is coverage quietly eroding?
- Did that caching change actually stick?

Examples:
  # Trends across the last 25 recorded builds
  buildlens trends --repo acme/shop

  # Look further back
  buildlens trends --repo acme/shop --limit 100

  # Tighten the stability band to 2%
  buildlens trends --repo acme/shop --trend-epsilon 0.02`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBuildlensTrends(rootCtx, cfg, historyStore); err != nil {
			contract.LogFatal("Cannot run trend analysis", err)
		}
	},
}
