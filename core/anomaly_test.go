package core

import (
	"testing"

	"github.com/huangsam/buildlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// healthyBaseline is a baseline that no healthy build should trip.
func healthyBaseline() *schema.Baseline {
	return &schema.Baseline{
		SampleSize:       5,
		AvgTotalDuration: 1000,
		AvgTestsRun:      100,
		AvgCoverage:      80,
		P95TotalDuration: 1200,
	}
}

// TestDetectAnomaliesNoBaseline tests that no baseline means no anomalies.
func TestDetectAnomaliesNoBaseline(t *testing.T) {
	current := schema.BuildMetrics{TotalDuration: 99999, TestsRun: 1, Coverage: 1}
	assert.Empty(t, DetectAnomalies(current, nil))
}

// TestDetectAnomaliesHealthyBuild tests that an in-range build is quiet.
func TestDetectAnomaliesHealthyBuild(t *testing.T) {
	current := schema.BuildMetrics{TotalDuration: 1100, TestsRun: 105, Coverage: 79}
	assert.Empty(t, DetectAnomalies(current, healthyBaseline()))
}

// TestDetectDurationSpike tests the spike rule and its severity ladder.
func TestDetectDurationSpike(t *testing.T) {
	tests := []struct {
		name     string
		total    float64
		severity schema.Severity
	}{
		{name: "slightly over p95", total: 1300, severity: schema.SeverityMedium},
		{name: "well over p95", total: 1800, severity: schema.SeverityHigh},
		{name: "more than double p95", total: 3000, severity: schema.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := schema.BuildMetrics{TotalDuration: tt.total, TestsRun: 100, Coverage: 80}
			anomalies := DetectAnomalies(current, healthyBaseline())

			require.Len(t, anomalies, 1)
			a := anomalies[0]
			assert.Equal(t, schema.AnomalyDurationSpike, a.Type)
			assert.Equal(t, tt.severity, a.Severity)
			assert.Equal(t, tt.total, a.Value)
			assert.Equal(t, 1200.0, a.Expected)
		})
	}
}

// TestDetectTestCountShift tests both directions of the count rule.
func TestDetectTestCountShift(t *testing.T) {
	tests := []struct {
		name         string
		testsRun     int
		expectedType schema.AnomalyType
		severity     schema.Severity
	}{
		{name: "moderate growth", testsRun: 125, expectedType: schema.AnomalyTestCountIncrease, severity: schema.SeverityLow},
		{name: "major growth", testsRun: 160, expectedType: schema.AnomalyTestCountIncrease, severity: schema.SeverityMedium},
		{name: "moderate shrink", testsRun: 75, expectedType: schema.AnomalyTestCountDecrease, severity: schema.SeverityHigh},
		{name: "major shrink", testsRun: 40, expectedType: schema.AnomalyTestCountDecrease, severity: schema.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := schema.BuildMetrics{TotalDuration: 1000, TestsRun: tt.testsRun, Coverage: 80}
			anomalies := DetectAnomalies(current, healthyBaseline())

			require.Len(t, anomalies, 1)
			assert.Equal(t, tt.expectedType, anomalies[0].Type)
			assert.Equal(t, tt.severity, anomalies[0].Severity)
		})
	}

	t.Run("within the band stays quiet", func(t *testing.T) {
		current := schema.BuildMetrics{TotalDuration: 1000, TestsRun: 115, Coverage: 80}
		assert.Empty(t, DetectAnomalies(current, healthyBaseline()))
	})
}

// TestDetectCoverageDrop tests the drop rule and its severity ladder.
func TestDetectCoverageDrop(t *testing.T) {
	tests := []struct {
		name     string
		coverage float64
		severity schema.Severity
	}{
		{name: "noticeable drop", coverage: 73, severity: schema.SeverityHigh},
		{name: "severe drop", coverage: 68, severity: schema.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := schema.BuildMetrics{TotalDuration: 1000, TestsRun: 100, Coverage: tt.coverage}
			anomalies := DetectAnomalies(current, healthyBaseline())

			require.Len(t, anomalies, 1)
			assert.Equal(t, schema.AnomalyCoverageDrop, anomalies[0].Type)
			assert.Equal(t, tt.severity, anomalies[0].Severity)
		})
	}

	t.Run("small dip stays quiet", func(t *testing.T) {
		current := schema.BuildMetrics{TotalDuration: 1000, TestsRun: 100, Coverage: 76}
		assert.Empty(t, DetectAnomalies(current, healthyBaseline()))
	})

	t.Run("rising coverage stays quiet", func(t *testing.T) {
		current := schema.BuildMetrics{TotalDuration: 1000, TestsRun: 100, Coverage: 95}
		assert.Empty(t, DetectAnomalies(current, healthyBaseline()))
	})
}

// TestDetectAnomaliesZeroReferences tests that zero baseline figures
// disable their rules instead of dividing by zero.
func TestDetectAnomaliesZeroReferences(t *testing.T) {
	baseline := &schema.Baseline{SampleSize: 1}
	current := schema.BuildMetrics{TotalDuration: 9999, TestsRun: 500, Coverage: 1}

	assert.Empty(t, DetectAnomalies(current, baseline))
}

// TestDetectAnomaliesMultiple tests several rules firing together.
func TestDetectAnomaliesMultiple(t *testing.T) {
	current := schema.BuildMetrics{TotalDuration: 3000, TestsRun: 40, Coverage: 60}
	anomalies := DetectAnomalies(current, healthyBaseline())

	require.Len(t, anomalies, 3)
	types := []schema.AnomalyType{anomalies[0].Type, anomalies[1].Type, anomalies[2].Type}
	assert.Equal(t, []schema.AnomalyType{
		schema.AnomalyDurationSpike,
		schema.AnomalyTestCountDecrease,
		schema.AnomalyCoverageDrop,
	}, types)
}
