package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewBuildMetrics tests construction from raw key-value maps.
func TestNewBuildMetrics(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[MetricName]float64
		expected BuildMetrics
	}{
		{
			name: "all tracked keys",
			raw: map[MetricName]float64{
				MetricTotalDuration: 1200,
				MetricTestDuration:  800,
				MetricBuildDuration: 400,
				MetricTestsRun:      150,
				MetricTestsPassed:   148,
				MetricTestsFailed:   2,
				MetricCoverage:      81.5,
			},
			expected: BuildMetrics{
				TotalDuration: 1200,
				TestDuration:  800,
				BuildDuration: 400,
				TestsRun:      150,
				TestsPassed:   148,
				TestsFailed:   2,
				Coverage:      81.5,
			},
		},
		{
			name: "missing keys default to zero",
			raw: map[MetricName]float64{
				MetricTotalDuration: 900,
			},
			expected: BuildMetrics{TotalDuration: 900},
		},
		{
			name: "unrecognized keys are ignored",
			raw: map[MetricName]float64{
				MetricCoverage: 75,
				"memory_usage": 4096,
			},
			expected: BuildMetrics{Coverage: 75},
		},
		{
			name:     "empty map",
			raw:      map[MetricName]float64{},
			expected: BuildMetrics{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewBuildMetrics(tt.raw))
		})
	}
}

// TestBuildMetricsValues tests the tracked-metric projection.
func TestBuildMetricsValues(t *testing.T) {
	m := BuildMetrics{
		TotalDuration: 1500,
		TestDuration:  1000,
		BuildDuration: 500,
		TestsRun:      42,
		TestsPassed:   40,
		TestsFailed:   2,
		Coverage:      77.3,
	}

	values := m.Values()
	assert.Len(t, values, len(TrackedMetrics))
	assert.Equal(t, 1500.0, values[MetricTotalDuration])
	assert.Equal(t, 42.0, values[MetricTestsRun])
	assert.Equal(t, 77.3, values[MetricCoverage])

	// Pass/fail counts are derived detail, not tracked metrics.
	assert.NotContains(t, values, MetricTestsPassed)
	assert.NotContains(t, values, MetricTestsFailed)
}

// TestBaselineValues tests baseline projection including the nil case.
func TestBaselineValues(t *testing.T) {
	var nilBaseline *Baseline
	assert.Nil(t, nilBaseline.Values())

	b := &Baseline{
		SampleSize:       5,
		AvgTotalDuration: 1000,
		AvgCoverage:      80,
	}
	values := b.Values()
	assert.Equal(t, 1000.0, values[MetricTotalDuration])
	assert.Equal(t, 80.0, values[MetricCoverage])
	assert.Len(t, values, len(TrackedMetrics))
}

// TestSeverityAtLeast tests the severity ordering.
func TestSeverityAtLeast(t *testing.T) {
	assert.True(t, SeverityCritical.AtLeast(SeverityLow))
	assert.True(t, SeverityHigh.AtLeast(SeverityHigh))
	assert.False(t, SeverityMedium.AtLeast(SeverityHigh))
	assert.False(t, Severity("bogus").AtLeast(SeverityLow))
}

// TestTrackedMetricsOrder pins the canonical iteration order.
func TestTrackedMetricsOrder(t *testing.T) {
	expected := []MetricName{
		MetricTotalDuration,
		MetricTestDuration,
		MetricBuildDuration,
		MetricTestsRun,
		MetricCoverage,
	}
	assert.Equal(t, expected, TrackedMetrics)
}

// TestParseBuildReport tests decoding a full and a sparse document.
func TestParseBuildReport(t *testing.T) {
	full := `{
		"build": {"repo": "acme/shop", "branch": "main", "commit": "abc1234", "build_num": 42},
		"metrics": {"total_duration": 2500.5, "tests_run": 120, "coverage": 81.3},
		"slow_tests": [{"name": "TestCheckout", "duration": 1500}],
		"coverage": {"line": 81.3, "function": 75.0}
	}`

	report, err := ParseBuildReport([]byte(full))
	assert.NoError(t, err)
	assert.Equal(t, "acme/shop", report.Build.Repo)
	assert.Equal(t, 42, report.Build.BuildNum)
	assert.Equal(t, 2500.5, report.Metrics.TotalDuration)
	assert.Equal(t, 120, report.Metrics.TestsRun)
	assert.Len(t, report.SlowTests, 1)
	assert.Equal(t, 75.0, report.Coverage.Function)

	// Sparse documents leave everything else at zero
	report, err = ParseBuildReport([]byte(`{"metrics": {"total_duration": 900}}`))
	assert.NoError(t, err)
	assert.Equal(t, 900.0, report.Metrics.TotalDuration)
	assert.Zero(t, report.Metrics.TestsRun)
	assert.Empty(t, report.Build.Repo)
}

// TestParseBuildReportInvalid tests the error path.
func TestParseBuildReportInvalid(t *testing.T) {
	_, err := ParseBuildReport([]byte("not json"))
	assert.ErrorContains(t, err, "failed to parse build report")
}
