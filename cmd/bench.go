package cmd

import (
	"github.com/huangsam/buildlens/core"
	"github.com/huangsam/buildlens/internal/contract"
	"github.com/spf13/cobra"
)

// benchCmd benchmarks an external command.
var benchCmd = &cobra.Command{
	Use:   "bench -- command [args...]",
	Short: "Benchmark a command and summarize its wall-clock timings.",
	Long: `Run a command repeatedly and summarize its wall-clock durations.

The harness runs warmup iterations first (discarded) and then the sampled
iterations, measuring each run in milliseconds. The command's own output is
suppressed so only the summary is printed. A failing iteration aborts the
benchmark.

Use -- to separate the command from buildlens flags.

Examples:
  # Benchmark the test suite with defaults (3 warmup, 10 samples)
  buildlens bench -- go test ./...

  # Quick benchmark with fewer iterations
  buildlens bench --warmup 1 --samples 5 -- make build

  # Capture results as CSV for tracking
  buildlens bench --samples 20 --output csv --output-file bench.csv -- ./script.sh`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// The positional arguments are the command to run, not a report path.
		return sharedSetup(rootCtx, cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteBuildlensBench(rootCtx, cfg, args); err != nil {
			contract.LogFatal("Cannot run benchmark", err)
		}
	},
}
