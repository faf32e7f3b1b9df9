package outwriter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/buildlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrends() schema.TrendResult {
	return schema.TrendResult{
		HasTrend: true,
		Points:   8,
		Metrics: map[schema.MetricName]schema.MetricTrend{
			schema.MetricTotalDuration: {
				Metric: schema.MetricTotalDuration,
				Change: 15.0,
				First:  2000,
				Second: 2300,
				Dir:    schema.TrendIncreasing,
			},
			schema.MetricCoverage: {
				Metric: schema.MetricCoverage,
				Change: -2.5,
				First:  80,
				Second: 78,
				Dir:    schema.TrendStable,
			},
		},
	}
}

func TestWriteTrendsTable(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	cfg := testConfig()

	var buf bytes.Buffer
	err := writeTrendsTable(sampleTrends(), cfg, fmtFloat, 30*time.Millisecond, &buf)
	require.NoError(t, err)
	output := buf.String()

	assert.Contains(t, output, "total duration")
	assert.Contains(t, output, "2.0s")
	assert.Contains(t, output, "2.3s")
	assert.Contains(t, output, "increasing")
	assert.Contains(t, output, "+15.0% ▲")
	assert.Contains(t, output, "Analyzed 8 builds in 30ms")
}

func TestWriteTrendsTableNoTrend(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	cfg := testConfig()

	var buf bytes.Buffer
	err := writeTrendsTable(schema.TrendResult{HasTrend: false, Points: 1}, cfg, fmtFloat, time.Millisecond, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Not enough history for trends (have 1 builds, need at least 2)")
}

func TestTrendRowsOrder(t *testing.T) {
	rows := trendRows(sampleTrends())
	require.Len(t, rows, 2)

	// Canonical metric order: total_duration before coverage
	assert.Equal(t, schema.MetricTotalDuration, rows[0].Metric)
	assert.Equal(t, schema.MetricCoverage, rows[1].Metric)
}

func TestTrendRowsNoTrend(t *testing.T) {
	assert.Nil(t, trendRows(schema.TrendResult{HasTrend: false}))
}

func TestWriteTrendsResultsCSVToFile(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "trends.csv")

	err := WriteTrendsResults(sampleTrends(), cfg, time.Millisecond)
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3) // header + 2 metrics
	assert.Contains(t, lines[0], "direction")
	assert.Contains(t, lines[1], "total_duration")
	assert.Contains(t, lines[1], "increasing")
	assert.Contains(t, lines[2], "coverage")
	assert.Contains(t, lines[2], "stable")
}
