package core

import (
	"testing"

	"github.com/huangsam/buildlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompareToBaseline tests status classification against thresholds.
func TestCompareToBaseline(t *testing.T) {
	opts := schema.DefaultAnalysisOptions()

	tests := []struct {
		name           string
		current        float64
		baseline       float64
		expectedStatus schema.ComparisonStatus
		expectedChange float64
	}{
		{
			name:           "doubling is a regression",
			current:        20,
			baseline:       10,
			expectedStatus: schema.StatusRegression,
			expectedChange: 100.0,
		},
		{
			name:           "halving is an improvement",
			current:        5,
			baseline:       10,
			expectedStatus: schema.StatusImprovement,
			expectedChange: -50.0,
		},
		{
			name:           "unchanged is stable",
			current:        10,
			baseline:       10,
			expectedStatus: schema.StatusStable,
			expectedChange: 0.0,
		},
		{
			name:           "exactly at the regression threshold is stable",
			current:        15,
			baseline:       10,
			expectedStatus: schema.StatusStable,
			expectedChange: 50.0,
		},
		{
			name:           "exactly at the improvement threshold is stable",
			current:        8,
			baseline:       10,
			expectedStatus: schema.StatusStable,
			expectedChange: -20.0,
		},
		{
			name:           "just past the regression threshold",
			current:        15.1,
			baseline:       10,
			expectedStatus: schema.StatusRegression,
			expectedChange: 51.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CompareToBaseline(
				map[schema.MetricName]float64{"mean": tt.current},
				map[schema.MetricName]float64{"mean": tt.baseline},
				opts,
			)

			require.True(t, result.HasBaseline)
			mc, ok := result.Metrics["mean"]
			require.True(t, ok)
			assert.Equal(t, tt.expectedStatus, mc.Status)
			assert.Equal(t, tt.expectedChange, mc.Change)
			assert.Equal(t, tt.current, mc.Current)
			assert.Equal(t, tt.baseline, mc.Baseline)
		})
	}
}

// TestCompareToBaselineNoBaseline tests degradation without history.
func TestCompareToBaselineNoBaseline(t *testing.T) {
	result := CompareToBaseline(map[schema.MetricName]float64{"mean": 20}, nil, schema.DefaultAnalysisOptions())

	assert.False(t, result.HasBaseline)
	assert.Empty(t, result.Metrics)
	assert.Zero(t, result.Summary)
	assert.Empty(t, result.Regressions)
	assert.Empty(t, result.Improvements)
}

// TestCompareToBaselineZeroSkipped tests the divide-by-zero guard.
func TestCompareToBaselineZeroSkipped(t *testing.T) {
	current := map[schema.MetricName]float64{
		schema.MetricTotalDuration: 200,
		schema.MetricCoverage:      80,
	}
	baseline := map[schema.MetricName]float64{
		schema.MetricTotalDuration: 100,
		schema.MetricCoverage:      0, // first build never reported coverage
	}

	result := CompareToBaseline(current, baseline, schema.DefaultAnalysisOptions())

	require.True(t, result.HasBaseline)
	assert.Contains(t, result.Metrics, schema.MetricTotalDuration)
	assert.NotContains(t, result.Metrics, schema.MetricCoverage)
}

// TestCompareToBaselineSummary tests counts and sorted name lists.
func TestCompareToBaselineSummary(t *testing.T) {
	current := map[schema.MetricName]float64{
		schema.MetricTotalDuration: 400, // regression
		schema.MetricTestDuration:  300, // regression
		schema.MetricBuildDuration: 40,  // improvement
		schema.MetricTestsRun:      100, // stable
		schema.MetricCoverage:      80,  // stable
	}
	baseline := map[schema.MetricName]float64{
		schema.MetricTotalDuration: 100,
		schema.MetricTestDuration:  100,
		schema.MetricBuildDuration: 100,
		schema.MetricTestsRun:      100,
		schema.MetricCoverage:      80,
	}

	result := CompareToBaseline(current, baseline, schema.DefaultAnalysisOptions())

	assert.Equal(t, 2, result.Summary.Regressions)
	assert.Equal(t, 1, result.Summary.Improvements)
	assert.Equal(t, 2, result.Summary.Stable)

	// Sorted by metric name.
	assert.Equal(t, []schema.MetricName{schema.MetricTestDuration, schema.MetricTotalDuration}, result.Regressions)
	assert.Equal(t, []schema.MetricName{schema.MetricBuildDuration}, result.Improvements)
}

// TestCompareToBaselineDeterministic tests repeated calls agree.
func TestCompareToBaselineDeterministic(t *testing.T) {
	current := map[schema.MetricName]float64{"a": 1, "b": 2, "c": 3, "d": 4}
	baseline := map[schema.MetricName]float64{"a": 2, "b": 2, "c": 1, "d": 8}

	first := CompareToBaseline(current, baseline, schema.DefaultAnalysisOptions())
	second := CompareToBaseline(current, baseline, schema.DefaultAnalysisOptions())
	assert.Equal(t, first, second)
}

// TestRound1 tests change rounding to one decimal.
func TestRound1(t *testing.T) {
	assert.Equal(t, 33.3, round1(33.3333))
	assert.Equal(t, -50.0, round1(-50))
	assert.Equal(t, 0.1, round1(0.05))
	assert.Equal(t, -0.1, round1(-0.05))
	assert.Equal(t, 0.0, round1(0.04))
}
