// Package cmd defines the command-line interface for buildlens.
package cmd

import (
	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyRecordCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("repo", "", "Repository the build belongs to (e.g., acme/shop)")
	rootCmd.PersistentFlags().String("branch", "", "Branch the build ran on")
	rootCmd.PersistentFlags().String("commit", "", "Commit hash the build ran against")
	rootCmd.PersistentFlags().Int("build-num", 0, "Build number assigned by CI (0 = take from report)")
	rootCmd.PersistentFlags().String("dataset", contract.DefaultDataset, "Dataset name used when packaging analyses for memory stores")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultHistoryLimit, "Number of history entries to load")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("window", schema.DefaultBaselineWindow, "Number of recent builds folded into the baseline")
	rootCmd.PersistentFlags().Float64("regression-threshold", schema.DefaultRegressionThreshold, "Current/baseline ratio above which a metric regressed")
	rootCmd.PersistentFlags().Float64("improvement-threshold", schema.DefaultImprovementThreshold, "Current/baseline ratio below which a metric improved")
	rootCmd.PersistentFlags().Float64("outlier-threshold", schema.DefaultOutlierThreshold, "Standard deviations beyond which a sample is an outlier")
	rootCmd.PersistentFlags().Float64("trend-epsilon", schema.DefaultTrendEpsilon, "Relative half-to-half change treated as stable")
	rootCmd.PersistentFlags().Float64("failure-rate", schema.DefaultFailureRateThreshold, "Failed/run ratio that triggers a recommendation")
	rootCmd.PersistentFlags().Float64("slow-test-threshold", schema.DefaultSlowTestThreshold, "Milliseconds before a test counts as slow")
	rootCmd.PersistentFlags().Float64("coverage-target", schema.DefaultLineCoverageTarget, "Coverage percentage the project aims for")
	rootCmd.PersistentFlags().Float64("coverage-floor", schema.DefaultFileCoverageFloor, "Per-file coverage below which a file is flagged")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of analyzeCmd to Viper
	analyzeCmd.Flags().Bool("dry-run", false, "Analyze without recording the build to history")
	analyzeCmd.Flags().Bool("fail-on-regression", false, "Exit non-zero when any metric regressed against the baseline")
	if err := viper.BindPFlags(analyzeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analyze flags", err)
	}

	// Bind all flags of statsCmd to Viper
	statsCmd.Flags().String("input", "", "Path to a file of raw samples (whitespace or comma separated)")
	statsCmd.Flags().String("name", "samples", "Label for the sample set in output")
	if err := viper.BindPFlags(statsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding stats flags", err)
	}

	// Bind all flags of benchCmd to Viper
	benchCmd.Flags().Int("warmup", schema.DefaultWarmupRuns, "Iterations run and discarded before sampling")
	benchCmd.Flags().Int("samples", schema.DefaultSampleRuns, "Iterations whose durations are recorded")
	if err := viper.BindPFlags(benchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding bench flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().Int("max-regressions", 0, "Regressed metrics tolerated before failing the gate")
	checkCmd.Flags().String("max-severity", string(schema.SeverityCritical), "Lowest anomaly severity that fails the gate: low, medium, high, critical")
	checkCmd.Flags().String("gate-override", "", "Gate policy for CI/CD gating (format: 'regressions:2,severity:high')")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of historyListCmd to Viper
	historyListCmd.Flags().Bool("insights", false, "List stored insights instead of build records")
	if err := viper.BindPFlags(historyListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history list flags", err)
	}

	// Bind all flags of historyClearCmd to Viper
	historyClearCmd.Flags().Bool("confirm", false, "Confirm deletion of all recorded builds and insights")
	if err := viper.BindPFlags(historyClearCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history clear flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
