package core

import (
	"sort"

	"github.com/huangsam/buildlens/schema"
)

// CalculateBaseline folds the most recent builds into a rolling baseline.
// History is ordered oldest to newest, so the last window entries are the
// ones used; SampleSize records how many actually were. Returns nil when
// there is no history to work with.
func CalculateBaseline(history []schema.BuildMetrics, window int) *schema.Baseline {
	if len(history) == 0 || window < 1 {
		return nil
	}

	recent := history
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}

	avgs := make(map[schema.MetricName]float64, len(schema.TrackedMetrics))
	p95s := make(map[schema.MetricName]float64, len(schema.TrackedMetrics))
	for _, name := range schema.TrackedMetrics {
		values := make([]float64, len(recent))
		for i, m := range recent {
			values[i] = m.Values()[name]
		}
		sort.Float64s(values)
		avgs[name] = meanOf(values)
		p95s[name] = percentile(values, 0.95)
	}

	return &schema.Baseline{
		SampleSize: len(recent),

		AvgTotalDuration: avgs[schema.MetricTotalDuration],
		AvgTestDuration:  avgs[schema.MetricTestDuration],
		AvgBuildDuration: avgs[schema.MetricBuildDuration],
		AvgTestsRun:      avgs[schema.MetricTestsRun],
		AvgCoverage:      avgs[schema.MetricCoverage],

		P95TotalDuration: p95s[schema.MetricTotalDuration],
		P95TestDuration:  p95s[schema.MetricTestDuration],
		P95BuildDuration: p95s[schema.MetricBuildDuration],
		P95TestsRun:      p95s[schema.MetricTestsRun],
		P95Coverage:      p95s[schema.MetricCoverage],
	}
}
