package cmd

import (
	"github.com/huangsam/buildlens/core"
	"github.com/huangsam/buildlens/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// statsCmd summarizes raw duration samples.
var statsCmd = &cobra.Command{
	Use:   "stats [samples...]",
	Short: "Summarize raw duration samples with descriptive statistics.",
	Long: `Compute descriptive statistics for a set of raw samples.

Samples can be passed as arguments, read from a file with --input, or piped
through stdin. Values may be separated by whitespace or commas. The summary
includes:
- Mean, median, min, max and standard deviation
- P95 and P99 percentiles
- Outlier count and the outlier-adjusted mean

Useful for eyeballing a batch of timings before wiring them into CI, or for
comparing ad-hoc measurement runs.

Examples:
  # Summarize inline samples (milliseconds)
  buildlens stats 1200 1350 990 1480 1210

  # Read samples from a file, one per line
  buildlens stats --input timings.txt --name "deploy step"

  # Pipe samples from another tool
  extract-durations build.log | buildlens stats

  # Emit the summary as JSON
  buildlens stats 12.5 13.1 11.9 --output json`,
	Args: cobra.ArbitraryArgs,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// The positional arguments are samples, not a report path.
		return sharedSetup(rootCtx, cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		inputFile := viper.GetString("input")
		name := viper.GetString("name")
		if err := core.ExecuteBuildlensStats(rootCtx, cfg, args, inputFile, name); err != nil {
			contract.LogFatal("Cannot run stats analysis", err)
		}
	},
}
