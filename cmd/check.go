package cmd

import (
	"github.com/huangsam/buildlens/core"
	"github.com/huangsam/buildlens/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [report-path]",
	Short: "Enforce gate policy for CI/CD pipelines (fails build on violations)",
	Long: `Analyze a build report and enforce the quality gate policy.

Designed specifically for CI/CD integration - fails with non-zero exit code
when the build violates the gate. The check never records the build, so a
failed pipeline cannot poison the baseline.

Default policy: zero regressed metrics tolerated, critical anomalies fail.

Use cases:
- Pull request gates - block merges that slow the build down
- Release validation - ensure no regressions before deployment
- Coverage enforcement - fail when coverage anomalies reach the severity bar

Examples:
  # Gate a CI build with the default policy
  buildlens check report.json

  # Tolerate up to two regressed metrics
  buildlens check report.json --max-regressions 2

  # Fail on high-severity anomalies, not just critical ones
  buildlens check report.json --max-severity high

  # Override the whole policy in one flag
  buildlens check report.json --gate-override "regressions:1,severity:high"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Gate evaluation is done in ExecuteBuildlensCheck
		if err := core.ExecuteBuildlensCheck(rootCtx, cfg, historyStore); err != nil {
			contract.LogFatal("Gate check failed", err)
		}
	},
}
