// Package schema has configs, models and shared constants for all parts of buildlens.
package schema

import "time"

// StatSummary holds descriptive statistics for a set of duration samples.
// All duration values are in milliseconds. Percentiles are taken from the
// sorted samples at index floor(n*p), clamped to the last element.
type StatSummary struct {
	Name         string  `json:"name"`          // Label for the measured series (e.g. benchmark name)
	SampleCount  int     `json:"sample_count"`  // Number of samples summarized (always >= 1)
	Min          float64 `json:"min"`           // Smallest sample
	Max          float64 `json:"max"`           // Largest sample
	Mean         float64 `json:"mean"`          // Arithmetic mean
	Median       float64 `json:"median"`        // Middle element, or mean of the two middles
	StdDev       float64 `json:"std_dev"`       // Population standard deviation
	P95          float64 `json:"p95"`           // 95th percentile
	P99          float64 `json:"p99"`           // 99th percentile
	AdjustedMean float64 `json:"adjusted_mean"` // Mean with outliers excluded
	OutlierCount int     `json:"outlier_count"` // Samples beyond the outlier threshold
}

// BuildMetrics represents the measured outcome of a single build.
// Durations are in milliseconds and coverage is a percentage.
type BuildMetrics struct {
	TotalDuration float64   `json:"total_duration"` // Wall-clock time for the whole build
	TestDuration  float64   `json:"test_duration"`  // Time spent in the test phase
	BuildDuration float64   `json:"build_duration"` // Time spent compiling
	TestsRun      int       `json:"tests_run"`      // Number of tests executed
	TestsPassed   int       `json:"tests_passed"`   // Number of tests that passed
	TestsFailed   int       `json:"tests_failed"`   // Number of tests that failed
	Coverage      float64   `json:"coverage"`       // Line coverage percentage
	Timestamp     time.Time `json:"timestamp"`      // When the build finished
}

// NewBuildMetrics builds a BuildMetrics from a raw key-value map.
// Unrecognized keys are ignored and missing keys stay at their zero value.
func NewBuildMetrics(raw map[MetricName]float64) BuildMetrics {
	var m BuildMetrics
	for name, value := range raw {
		switch name {
		case MetricTotalDuration:
			m.TotalDuration = value
		case MetricTestDuration:
			m.TestDuration = value
		case MetricBuildDuration:
			m.BuildDuration = value
		case MetricTestsRun:
			m.TestsRun = int(value)
		case MetricTestsPassed:
			m.TestsPassed = int(value)
		case MetricTestsFailed:
			m.TestsFailed = int(value)
		case MetricCoverage:
			m.Coverage = value
		}
	}
	return m
}

// Values projects the tracked metrics into a map keyed by metric name.
// Only metrics listed in TrackedMetrics appear in the result.
func (m BuildMetrics) Values() map[MetricName]float64 {
	return map[MetricName]float64{
		MetricTotalDuration: m.TotalDuration,
		MetricTestDuration:  m.TestDuration,
		MetricBuildDuration: m.BuildDuration,
		MetricTestsRun:      float64(m.TestsRun),
		MetricCoverage:      m.Coverage,
	}
}

// Baseline summarizes the most recent builds from history. SampleSize is
// the number of builds actually used, which is at most the configured window.
type Baseline struct {
	SampleSize int `json:"sample_size"`

	AvgTotalDuration float64 `json:"avg_total_duration"`
	AvgTestDuration  float64 `json:"avg_test_duration"`
	AvgBuildDuration float64 `json:"avg_build_duration"`
	AvgTestsRun      float64 `json:"avg_tests_run"`
	AvgCoverage      float64 `json:"avg_coverage"`

	P95TotalDuration float64 `json:"p95_total_duration"`
	P95TestDuration  float64 `json:"p95_test_duration"`
	P95BuildDuration float64 `json:"p95_build_duration"`
	P95TestsRun      float64 `json:"p95_tests_run"`
	P95Coverage      float64 `json:"p95_coverage"`
}

// Values projects the baseline averages into a map keyed by metric name.
// Returns nil for a nil baseline so comparisons degrade cleanly.
func (b *Baseline) Values() map[MetricName]float64 {
	if b == nil {
		return nil
	}
	return map[MetricName]float64{
		MetricTotalDuration: b.AvgTotalDuration,
		MetricTestDuration:  b.AvgTestDuration,
		MetricBuildDuration: b.AvgBuildDuration,
		MetricTestsRun:      b.AvgTestsRun,
		MetricCoverage:      b.AvgCoverage,
	}
}
