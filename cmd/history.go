package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/buildlens/core"
	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/internal/history"
	"github.com/huangsam/buildlens/internal/outwriter"
	"github.com/huangsam/buildlens/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on build history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded build history and exports",
	Long: `Manage the build history that powers baselines, trends and gates.

Every analyzed build can be recorded, storing:
- Build identity (repository, branch, commit, build number)
- Duration metrics, test counts and coverage
- Insight summaries (regressions, anomalies, recommendations)

This enables longitudinal analysis, trend detection, and data export for BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - Show recorded builds or insights
  record  - Store a build report without analyzing it
  status  - Show history tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all recorded data
  migrate - Run database schema migrations

Examples:
  # Check what has been recorded
  buildlens history list --repo acme/shop

  # Export for analysis in pandas/DuckDB
  buildlens history export --output-file build-data.parquet`,
}

// historyListCmd lists recorded builds or insights.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recorded builds, newest first",
	Long: `List recorded builds from the history backend, newest first.

Shows build identity, durations, test counts and coverage per entry. Scope
with --repo to a single repository and --limit to control how many entries
come back. With --insights the stored analysis insights are listed instead.

Examples:
  # Most recent builds across all repositories
  buildlens history list

  # Builds for one repository
  buildlens history list --repo acme/shop --limit 50

  # Stored insight summaries
  buildlens history list --insights

  # Dump history as CSV
  buildlens history list --output csv --output-file builds.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		writer := outwriter.NewOutWriter()
		if viper.GetBool("insights") {
			insights, err := historyStore.AllInsights(cfg.HistoryLimit)
			if err != nil {
				contract.LogFatal("Failed to list insights", err)
			}
			if err := writer.WriteInsights(insights, cfg); err != nil {
				contract.LogFatal("Failed to write insights", err)
			}
			return
		}
		records, err := core.LoadRecords(historyStore, cfg.Build.Repo, cfg.HistoryLimit)
		if err != nil {
			contract.LogFatal("Failed to list builds", err)
		}
		if err := writer.WriteHistory(records, cfg); err != nil {
			contract.LogFatal("Failed to write history", err)
		}
	},
}

// historyRecordCmd stores a build report without analysis.
var historyRecordCmd = &cobra.Command{
	Use:   "record [report-path]",
	Short: "Store a build report in history without analyzing it",
	Long: `Record the metrics of a build report without running any analysis.

Useful for backfilling history from past builds or for recording builds on
branches where analysis output is not needed. The stored build still feeds
future baselines and trends.

Examples:
  # Record a report file
  buildlens history record report.json

  # Record from stdin with identity overrides
  ci-collect --format json | buildlens history record --repo acme/shop --build-num 128`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBuildlensRecord(rootCtx, cfg, historyStore); err != nil {
			contract.LogFatal("Cannot record build", err)
		}
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history tracking statistics and connection details",
	Long: `Show detailed information about recorded build history.

Displays:
- Backend type and connection status
- Total number of builds and insights stored
- Last and oldest build timestamps
- Database table sizes

Use this to:
- Verify history tracking is enabled and working
- Monitor data accumulation over time
- Check database connection health
- Estimate storage requirements

Examples:
  # Check history tracking status
  buildlens history status`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := historyStore.Status()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		if err := outwriter.NewOutWriter().WriteStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to write history status", err)
		}
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded history to Parquet for BI tools and analytics",
	Long: `Export stored build history to Parquet format for use with analytics tools.

Exports two datasets:
- Builds - identity and metrics for each recorded build
- Insights - regression/anomaly/recommendation counts per analysis

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export all data
  buildlens history export --output-file build-data.parquet

  # Use with DuckDB for analysis
  buildlens history export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet.builds.parquet') LIMIT 10"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExecuteHistoryExport(historyStore, cfg.OutputFile, contract.MaxHistoryLimit); err != nil {
			contract.LogFatal("Failed to export history data", err)
		}
	},
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded builds and insights",
	Long: `Delete all stored builds and insight history.

This removes:
- All recorded build metrics
- All stored insight summaries

WARNING: This action cannot be undone. Consider exporting data first.
The --confirm flag is required.

Examples:
  # Export before clearing
  buildlens history export --output-file backup.parquet
  buildlens history clear --confirm`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if !viper.GetBool("confirm") {
			contract.LogFatal("History clear requires confirmation",
				errors.New("pass --confirm to delete all recorded builds and insights"))
		}
		if err := historyStore.Clear(); err != nil {
			contract.LogFatal("Failed to clear history data", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the build history store.

Migrations allow:
- Upgrading to new schema versions when buildlens is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  buildlens history migrate

  # Migrate to specific version
  buildlens history migrate --target-version 2

  # Rollback to previous version
  buildlens history migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.Migrate(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
