package core

import (
	"testing"

	"github.com/huangsam/buildlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEvaluateGate tests the pass/fail policy.
func TestEvaluateGate(t *testing.T) {
	t.Run("clean analysis passes", func(t *testing.T) {
		result := EvaluateGate(schema.BuildAnalysis{}, schema.DefaultGateConfig())
		assert.True(t, result.Passed)
		assert.Empty(t, result.Violations)
	})

	t.Run("regressions over budget fail", func(t *testing.T) {
		analysis := schema.BuildAnalysis{
			Comparison: schema.ComparisonResult{
				HasBaseline: true,
				Summary:     schema.ComparisonSummary{Regressions: 2},
			},
		}

		result := EvaluateGate(analysis, schema.DefaultGateConfig())
		require.False(t, result.Passed)
		require.Len(t, result.Violations, 1)
		assert.Equal(t, "regressions", result.Violations[0].Rule)
		assert.Contains(t, result.Violations[0].Message, "2 metrics regressed")
	})

	t.Run("regressions inside the budget pass", func(t *testing.T) {
		analysis := schema.BuildAnalysis{
			Comparison: schema.ComparisonResult{
				HasBaseline: true,
				Summary:     schema.ComparisonSummary{Regressions: 2},
			},
		}
		gate := schema.GateConfig{MaxRegressions: 3, MaxSeverity: schema.SeverityCritical}

		assert.True(t, EvaluateGate(analysis, gate).Passed)
	})

	t.Run("severe anomaly fails", func(t *testing.T) {
		analysis := schema.BuildAnalysis{
			Anomalies: []schema.Anomaly{
				{Type: schema.AnomalyDurationSpike, Severity: schema.SeverityCritical, Message: "way over"},
			},
		}

		result := EvaluateGate(analysis, schema.DefaultGateConfig())
		require.False(t, result.Passed)
		assert.Equal(t, "anomaly", result.Violations[0].Rule)
	})

	t.Run("mild anomaly passes a critical-only gate", func(t *testing.T) {
		analysis := schema.BuildAnalysis{
			Anomalies: []schema.Anomaly{
				{Type: schema.AnomalyCoverageDrop, Severity: schema.SeverityHigh, Message: "dipped"},
			},
		}

		assert.True(t, EvaluateGate(analysis, schema.DefaultGateConfig()).Passed)
	})

	t.Run("stricter gate catches mild anomalies", func(t *testing.T) {
		analysis := schema.BuildAnalysis{
			Anomalies: []schema.Anomaly{
				{Type: schema.AnomalyCoverageDrop, Severity: schema.SeverityMedium, Message: "dipped"},
			},
		}
		gate := schema.GateConfig{MaxRegressions: 0, MaxSeverity: schema.SeverityMedium}

		assert.False(t, EvaluateGate(analysis, gate).Passed)
	})

	t.Run("all violations are collected", func(t *testing.T) {
		analysis := schema.BuildAnalysis{
			Comparison: schema.ComparisonResult{
				HasBaseline: true,
				Summary:     schema.ComparisonSummary{Regressions: 1},
			},
			Anomalies: []schema.Anomaly{
				{Type: schema.AnomalyDurationSpike, Severity: schema.SeverityCritical, Message: "spike"},
				{Type: schema.AnomalyTestCountDecrease, Severity: schema.SeverityCritical, Message: "shrank"},
			},
		}

		result := EvaluateGate(analysis, schema.DefaultGateConfig())
		assert.False(t, result.Passed)
		assert.Len(t, result.Violations, 3)
	})
}
