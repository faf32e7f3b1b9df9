// Package parquet provides data structures and functions for exporting build
// history data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/buildlens/schema"
	"github.com/parquet-go/parquet-go"
)

// BuildRow represents a single recorded build for columnar export.
// This struct maps to the buildlens_builds database table.
type BuildRow struct {
	// ID is the UUID assigned to the build record on insert
	ID string `parquet:"id,snappy"`

	// Repo is the repository slug the build belongs to
	Repo string `parquet:"repo,snappy"`

	// Branch is the branch the build ran on
	Branch string `parquet:"branch,snappy"`

	// CommitHash is the commit that was built
	CommitHash string `parquet:"commit_hash,snappy"`

	// BuildNum is the CI build number
	BuildNum int32 `parquet:"build_num,snappy"`

	// TotalDurationMs is the wall-clock time of the whole build in milliseconds
	TotalDurationMs float64 `parquet:"total_duration_ms,snappy"`

	// TestDurationMs is the time spent in the test phase in milliseconds
	TestDurationMs float64 `parquet:"test_duration_ms,snappy"`

	// BuildDurationMs is the time spent compiling in milliseconds
	BuildDurationMs float64 `parquet:"build_duration_ms,snappy"`

	// TestsRun is the number of tests executed
	TestsRun int32 `parquet:"tests_run,snappy"`

	// TestsPassed is the number of tests that passed
	TestsPassed int32 `parquet:"tests_passed,snappy"`

	// TestsFailed is the number of tests that failed
	TestsFailed int32 `parquet:"tests_failed,snappy"`

	// Coverage is the line coverage percentage (nullable, nil when unreported)
	Coverage *float64 `parquet:"coverage,optional,snappy"`

	// CreatedAt is when the build was recorded (stored as TIMESTAMP with nanosecond precision)
	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// InsightRow represents a stored analysis verdict for columnar export.
// This struct maps to the buildlens_insights database table.
type InsightRow struct {
	// ID is the UUID assigned to the insight record on insert
	ID string `parquet:"id,snappy"`

	// BuildID references the analyzed build record
	BuildID string `parquet:"build_id,snappy"`

	// Summary contains the JSON-encoded analysis (nullable)
	Summary *string `parquet:"summary,optional,snappy"`

	// Regressions is the number of regressed metrics in the analysis
	Regressions int32 `parquet:"regressions,snappy"`

	// Anomalies is the number of anomalies flagged in the analysis
	Anomalies int32 `parquet:"anomalies,snappy"`

	// Recommendations is the number of recommendations produced
	Recommendations int32 `parquet:"recommendations,snappy"`

	// CreatedAt is when the insight was recorded (stored as TIMESTAMP with nanosecond precision)
	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// WriteBuildsParquet writes a slice of BuildRow structs to a Parquet file.
func WriteBuildsParquet(data []BuildRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the BuildRow struct tags
	writer := parquet.NewGenericWriter[BuildRow](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteInsightsParquet writes a slice of InsightRow structs to a Parquet file.
func WriteInsightsParquet(data []InsightRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the InsightRow struct tags
	writer := parquet.NewGenericWriter[InsightRow](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertBuildRecords converts schema.BuildRecord rows to BuildRow for Parquet export.
// A zero coverage figure means the build never reported one, so it becomes null.
func ConvertBuildRecords(records []schema.BuildRecord) []BuildRow {
	result := make([]BuildRow, len(records))
	for i, record := range records {
		var coverage *float64
		if record.Metrics.Coverage != 0 {
			c := record.Metrics.Coverage
			coverage = &c
		}
		result[i] = BuildRow{
			ID:              record.ID,
			Repo:            record.Repo,
			Branch:          record.Branch,
			CommitHash:      record.Commit,
			BuildNum:        int32(record.BuildNum),
			TotalDurationMs: record.Metrics.TotalDuration,
			TestDurationMs:  record.Metrics.TestDuration,
			BuildDurationMs: record.Metrics.BuildDuration,
			TestsRun:        int32(record.Metrics.TestsRun),
			TestsPassed:     int32(record.Metrics.TestsPassed),
			TestsFailed:     int32(record.Metrics.TestsFailed),
			Coverage:        coverage,
			CreatedAt:       record.CreatedAt,
		}
	}
	return result
}

// ConvertInsightRecords converts schema.InsightRecord rows to InsightRow for Parquet export.
func ConvertInsightRecords(records []schema.InsightRecord) []InsightRow {
	result := make([]InsightRow, len(records))
	for i, record := range records {
		var summary *string
		if record.Summary != "" {
			s := record.Summary
			summary = &s
		}
		result[i] = InsightRow{
			ID:              record.ID,
			BuildID:         record.BuildID,
			Summary:         summary,
			Regressions:     int32(record.Regressions),
			Anomalies:       int32(record.Anomalies),
			Recommendations: int32(record.Recommendations),
			CreatedAt:       record.CreatedAt,
		}
	}
	return result
}

// MockFetchBuilds generates sample BuildRow data for demonstration.
func MockFetchBuilds() []BuildRow {
	now := time.Now()
	coverage1 := 81.3
	coverage2 := 80.9

	return []BuildRow{
		{
			ID:              "4fa2f844-1bfc-4c70-a2e3-9f4f0a6f6a01",
			Repo:            "acme/shop",
			Branch:          "main",
			CommitHash:      "abc1234def5678",
			BuildNum:        42,
			TotalDurationMs: 2500.5,
			TestDurationMs:  1400.25,
			BuildDurationMs: 900.0,
			TestsRun:        120,
			TestsPassed:     118,
			TestsFailed:     2,
			Coverage:        &coverage1,
			CreatedAt:       now.Add(-2 * time.Hour),
		},
		{
			ID:              "9be917a3-62cf-49a6-9df6-57c6b3b1a702",
			Repo:            "acme/shop",
			Branch:          "main",
			CommitHash:      "def5678abc1234",
			BuildNum:        41,
			TotalDurationMs: 2350.0,
			TestDurationMs:  1380.0,
			BuildDurationMs: 870.0,
			TestsRun:        119,
			TestsPassed:     119,
			TestsFailed:     0,
			Coverage:        &coverage2,
			CreatedAt:       now.Add(-26 * time.Hour),
		},
		{
			ID:              "c5d7f1a8-8a34-4d51-b960-1f6f2c4b8e03",
			Repo:            "acme/billing",
			Branch:          "release",
			CommitHash:      "789abcdef01234",
			BuildNum:        7,
			TotalDurationMs: 4100.0,
			TestDurationMs:  2600.0,
			BuildDurationMs: 1300.0,
			TestsRun:        0,
			TestsPassed:     0,
			TestsFailed:     0,
			Coverage:        nil, // No coverage reported - nullable field
			CreatedAt:       now.Add(-10 * time.Minute),
		},
	}
}

// MockFetchInsights generates sample InsightRow data for demonstration.
func MockFetchInsights() []InsightRow {
	now := time.Now()
	summary1 := `{"comparison":{"has_baseline":true,"summary":{"regressions":1}}}`

	return []InsightRow{
		{
			ID:              "11e80f3a-0a94-4c8f-8d1b-f2f4f88cf301",
			BuildID:         "4fa2f844-1bfc-4c70-a2e3-9f4f0a6f6a01",
			Summary:         &summary1,
			Regressions:     1,
			Anomalies:       1,
			Recommendations: 2,
			CreatedAt:       now.Add(-2 * time.Hour),
		},
		{
			ID:              "2277aa91-4a0f-45c5-a1de-bb1f2c9d4402",
			BuildID:         "c5d7f1a8-8a34-4d51-b960-1f6f2c4b8e03",
			Summary:         nil, // Verdict pruned - nullable field
			Regressions:     0,
			Anomalies:       0,
			Recommendations: 0,
			CreatedAt:       now.Add(-10 * time.Minute),
		},
	}
}
