package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/buildlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBuildRecords() []schema.BuildRecord {
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	return []schema.BuildRecord{
		{
			ID:       "4fa2f844-1bfc-4c70-a2e3-9f4f0a6f6a01",
			Repo:     "acme/shop",
			Branch:   "main",
			Commit:   "abc1234def5678",
			BuildNum: 42,
			Metrics: schema.BuildMetrics{
				TotalDuration: 2500,
				TestDuration:  1400,
				BuildDuration: 900,
				TestsRun:      120,
				TestsPassed:   118,
				TestsFailed:   2,
				Coverage:      81.3,
			},
			CreatedAt: base.Add(time.Hour),
		},
		{
			ID:       "9be917a3-62cf-49a6-9df6-57c6b3b1a702",
			Repo:     "acme/shop",
			Branch:   "main",
			Commit:   "def5678abc1234",
			BuildNum: 41,
			Metrics: schema.BuildMetrics{
				TotalDuration: 2300,
				TestsRun:      119,
				Coverage:      81.0,
			},
			CreatedAt: base,
		},
	}
}

func TestWriteJSONResultsForHistory(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResultsForHistory(&buf, sampleBuildRecords())
	require.NoError(t, err)

	// Parse the JSON to verify structure
	var result []map[string]any
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, float64(1), result[0]["rank"])
	assert.Equal(t, "acme/shop", result[0]["repo"])
	assert.Equal(t, float64(2), result[1]["rank"])
	assert.Equal(t, float64(41), result[1]["build_num"])
}

func TestWriteCSVResultsForHistory(t *testing.T) {
	fmtFloat, intFmt := createFormatters(1)

	var buf bytes.Buffer
	err := writeCSVResultsForHistory(&buf, sampleBuildRecords(), fmtFloat, intFmt)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 rows

	// Check header
	assert.Contains(t, lines[0], "total_duration_ms")
	assert.Contains(t, lines[0], "created_at")

	// Check data row keeps raw units
	assert.Contains(t, lines[1], "2500.0")
	assert.Contains(t, lines[1], "2026-02-10T10:00:00Z")
}

func TestWriteHistoryTable(t *testing.T) {
	fmtFloat, intFmt := createFormatters(1)
	cfg := testConfig()

	var buf bytes.Buffer
	err := writeHistoryTable(sampleBuildRecords(), cfg, fmtFloat, intFmt, &buf)
	require.NoError(t, err)
	output := buf.String()

	assert.Contains(t, output, "acme/shop")
	assert.Contains(t, output, "abc1234")
	assert.NotContains(t, output, "abc1234def5678") // commit shortened
	assert.Contains(t, output, "2.5s")
	assert.Contains(t, output, "81.3%")
	assert.Contains(t, output, "Showing 2 builds")
}

func TestWriteHistoryTableEmpty(t *testing.T) {
	fmtFloat, intFmt := createFormatters(1)
	cfg := testConfig()

	var buf bytes.Buffer
	err := writeHistoryTable(nil, cfg, fmtFloat, intFmt, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Showing 0 builds")
}

func TestWriteInsightsTable(t *testing.T) {
	_, intFmt := createFormatters(1)
	insights := []schema.InsightRecord{
		{
			ID:              "11e80f3a-0a94-4c8f-8d1b-f2f4f88cf301",
			BuildID:         "4fa2f844-1bfc-4c70-a2e3-9f4f0a6f6a01",
			Summary:         `{"build":{}}`,
			Regressions:     2,
			Anomalies:       1,
			Recommendations: 3,
			CreatedAt:       time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	err := writeInsightsTable(insights, intFmt, &buf)
	require.NoError(t, err)
	output := buf.String()

	assert.Contains(t, output, "4fa2f844") // build id shortened
	assert.Contains(t, output, "Showing 1 insights")
}

func TestWriteStatusSummary(t *testing.T) {
	cfg := testConfig()
	status := schema.HistoryStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalBuilds:     12,
		TotalInsights:   4,
		OldestBuildTime: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
		LastBuildTime:   time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC),
		TableSizes: map[string]int64{
			"buildlens_builds":   12,
			"buildlens_insights": 4,
		},
	}

	var buf bytes.Buffer
	err := writeStatusSummary(status, cfg, &buf)
	require.NoError(t, err)
	output := buf.String()

	assert.Contains(t, output, "History backend: sqlite (connected)")
	assert.Contains(t, output, "Total builds: 12")
	assert.Contains(t, output, "Total insights: 4")
	assert.Contains(t, output, "Oldest build: 2026-01-01T08:00:00Z")
	assert.Contains(t, output, "Latest build: 2026-02-10T10:00:00Z")
	assert.Contains(t, output, "buildlens_builds: 12 rows")
}

func TestWriteStatusSummaryDisconnected(t *testing.T) {
	cfg := testConfig()
	status := schema.HistoryStatus{Backend: "none", Connected: false}

	var buf bytes.Buffer
	err := writeStatusSummary(status, cfg, &buf)
	require.NoError(t, err)
	output := buf.String()

	assert.Contains(t, output, "History backend: none (disconnected)")
	assert.NotContains(t, output, "Oldest build")
	assert.NotContains(t, output, "Table sizes")
}
