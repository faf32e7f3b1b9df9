package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultAnalysisOptions tests that defaults validate and carry the
// documented values.
func TestDefaultAnalysisOptions(t *testing.T) {
	opts := DefaultAnalysisOptions()
	require.NoError(t, opts.Validate())

	assert.Equal(t, 5, opts.BaselineWindow)
	assert.Equal(t, 1.5, opts.RegressionThreshold)
	assert.Equal(t, 0.8, opts.ImprovementThreshold)
	assert.Equal(t, 2.0, opts.OutlierThreshold)
	assert.Equal(t, 0.05, opts.TrendEpsilon)
}

// TestAnalysisOptionsValidate tests rejection of unusable knobs.
func TestAnalysisOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AnalysisOptions)
		errMsg string
	}{
		{
			name:   "zero window",
			mutate: func(o *AnalysisOptions) { o.BaselineWindow = 0 },
			errMsg: "baseline window",
		},
		{
			name:   "negative improvement threshold",
			mutate: func(o *AnalysisOptions) { o.ImprovementThreshold = -1 },
			errMsg: "improvement threshold",
		},
		{
			name: "inverted thresholds",
			mutate: func(o *AnalysisOptions) {
				o.RegressionThreshold = 0.5
				o.ImprovementThreshold = 0.8
			},
			errMsg: "must exceed",
		},
		{
			name:   "zero outlier threshold",
			mutate: func(o *AnalysisOptions) { o.OutlierThreshold = 0 },
			errMsg: "outlier threshold",
		},
		{
			name:   "epsilon out of range",
			mutate: func(o *AnalysisOptions) { o.TrendEpsilon = 1.0 },
			errMsg: "trend epsilon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultAnalysisOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

// TestBenchOptionsValidate tests harness knob validation.
func TestBenchOptionsValidate(t *testing.T) {
	opts := DefaultBenchOptions()
	require.NoError(t, opts.Validate())
	assert.Equal(t, 3, opts.WarmupRuns)
	assert.Equal(t, 10, opts.SampleRuns)

	opts.WarmupRuns = -1
	assert.Error(t, opts.Validate())

	opts = BenchOptions{WarmupRuns: 0, SampleRuns: 0}
	assert.Error(t, opts.Validate())

	// Zero warmup is allowed, zero samples is not.
	opts = BenchOptions{WarmupRuns: 0, SampleRuns: 1}
	assert.NoError(t, opts.Validate())
}
