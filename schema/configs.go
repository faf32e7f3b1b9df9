package schema

import "fmt"

// Default analysis knobs. Thresholds are ratios against the baseline
// unless noted otherwise.
const (
	DefaultBaselineWindow       = 5    // builds folded into the rolling baseline
	DefaultRegressionThreshold  = 1.5  // ratio above which a metric regressed
	DefaultImprovementThreshold = 0.8  // ratio below which a metric improved
	DefaultOutlierThreshold     = 2.0  // standard deviations from the mean
	DefaultTrendEpsilon         = 0.05 // relative band treated as stable
	DefaultFailureRateThreshold = 0.10 // failed/run ratio worth flagging
	DefaultSlowTestThreshold    = 1000 // milliseconds before a test is slow
	DefaultLineCoverageTarget   = 80.0 // line coverage percentage target
	DefaultFuncCoverageTarget   = 80.0 // function coverage percentage target
	DefaultFileCoverageFloor    = 50.0 // per-file line coverage floor
	DefaultWarmupRuns           = 3    // discarded benchmark iterations
	DefaultSampleRuns           = 10   // recorded benchmark iterations
)

// AnalysisOptions tunes the statistical analysis. Zero values are not
// meaningful; start from DefaultAnalysisOptions and override fields.
type AnalysisOptions struct {
	BaselineWindow       int     // Most recent builds folded into the baseline
	RegressionThreshold  float64 // Current/baseline ratio above which a metric regressed
	ImprovementThreshold float64 // Current/baseline ratio below which a metric improved
	OutlierThreshold     float64 // Standard deviations beyond which a sample is an outlier
	TrendEpsilon         float64 // Relative half-to-half change treated as stable
	FailureRateThreshold float64 // Failed/run ratio that triggers a recommendation
	SlowTestThreshold    float64 // Milliseconds before a test counts as slow
	LineCoverageTarget   float64 // Line coverage percentage the project aims for
	FuncCoverageTarget   float64 // Function coverage percentage the project aims for
	FileCoverageFloor    float64 // Per-file line coverage below which a file is flagged
}

// DefaultAnalysisOptions returns the standard analysis knobs.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		BaselineWindow:       DefaultBaselineWindow,
		RegressionThreshold:  DefaultRegressionThreshold,
		ImprovementThreshold: DefaultImprovementThreshold,
		OutlierThreshold:     DefaultOutlierThreshold,
		TrendEpsilon:         DefaultTrendEpsilon,
		FailureRateThreshold: DefaultFailureRateThreshold,
		SlowTestThreshold:    DefaultSlowTestThreshold,
		LineCoverageTarget:   DefaultLineCoverageTarget,
		FuncCoverageTarget:   DefaultFuncCoverageTarget,
		FileCoverageFloor:    DefaultFileCoverageFloor,
	}
}

// Validate checks that the options describe a usable analysis.
func (o AnalysisOptions) Validate() error {
	if o.BaselineWindow < 1 {
		return fmt.Errorf("baseline window must be at least 1, got %d", o.BaselineWindow)
	}
	if o.ImprovementThreshold <= 0 {
		return fmt.Errorf("improvement threshold must be positive, got %g", o.ImprovementThreshold)
	}
	if o.RegressionThreshold <= o.ImprovementThreshold {
		return fmt.Errorf("regression threshold %g must exceed improvement threshold %g",
			o.RegressionThreshold, o.ImprovementThreshold)
	}
	if o.OutlierThreshold <= 0 {
		return fmt.Errorf("outlier threshold must be positive, got %g", o.OutlierThreshold)
	}
	if o.TrendEpsilon < 0 || o.TrendEpsilon >= 1 {
		return fmt.Errorf("trend epsilon must be in [0, 1), got %g", o.TrendEpsilon)
	}
	return nil
}

// BenchOptions tunes the benchmark harness.
type BenchOptions struct {
	WarmupRuns int // Iterations run and discarded before sampling
	SampleRuns int // Iterations whose durations are recorded
}

// DefaultBenchOptions returns the standard harness knobs.
func DefaultBenchOptions() BenchOptions {
	return BenchOptions{
		WarmupRuns: DefaultWarmupRuns,
		SampleRuns: DefaultSampleRuns,
	}
}

// Validate checks that the harness options can produce a summary.
func (o BenchOptions) Validate() error {
	if o.WarmupRuns < 0 {
		return fmt.Errorf("warmup runs cannot be negative, got %d", o.WarmupRuns)
	}
	if o.SampleRuns < 1 {
		return fmt.Errorf("sample runs must be at least 1, got %d", o.SampleRuns)
	}
	return nil
}

// GateConfig sets the pass/fail policy applied by the check command.
type GateConfig struct {
	MaxRegressions int      // Regressed metrics tolerated before failing
	MaxSeverity    Severity // Lowest anomaly severity that fails the gate
}

// DefaultGateConfig tolerates no regressions and fails on critical anomalies.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		MaxRegressions: 0,
		MaxSeverity:    SeverityCritical,
	}
}
