package history

import (
	"errors"
	"fmt"

	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of build history to Parquet files.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string, limit int) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Check if there's any data to export
	status, err := store.Status()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalBuilds == 0 {
		return errors.New("no build history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total builds: %d\n", status.TotalBuilds)
	fmt.Printf("Total insights: %d\n", status.TotalInsights)

	// Retrieve all builds
	builds, err := store.AllBuilds(limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve builds: %w", err)
	}

	// Retrieve all insights
	insights, err := store.AllInsights(limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve insights: %w", err)
	}

	// Convert to Parquet format
	parquetBuilds := parquet.ConvertBuildRecords(builds)
	parquetInsights := parquet.ConvertInsightRecords(insights)

	// Write builds to Parquet
	buildsFile := outputFile + ".builds.parquet"
	if err := parquet.WriteBuildsParquet(parquetBuilds, buildsFile); err != nil {
		return fmt.Errorf("failed to write builds: %w", err)
	}
	fmt.Printf("Exported %d builds to: %s\n", len(parquetBuilds), buildsFile)

	// Write insights to Parquet
	insightsFile := outputFile + ".insights.parquet"
	if err := parquet.WriteInsightsParquet(parquetInsights, insightsFile); err != nil {
		return fmt.Errorf("failed to write insights: %w", err)
	}
	fmt.Printf("Exported %d insights to: %s\n", len(parquetInsights), insightsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
