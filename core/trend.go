package core

import (
	"github.com/huangsam/buildlens/schema"
)

// AnalyzeTrends determines where each tracked metric is heading over the
// given history, ordered oldest to newest. Fewer than 2 entries cannot
// support a direction, so the result carries HasTrend false.
func AnalyzeTrends(history []schema.BuildMetrics, opts schema.AnalysisOptions) schema.TrendResult {
	if len(history) < 2 {
		return schema.TrendResult{HasTrend: false, Points: len(history)}
	}

	result := schema.TrendResult{
		HasTrend: true,
		Points:   len(history),
		Metrics:  make(map[schema.MetricName]schema.MetricTrend, len(schema.TrackedMetrics)),
	}

	for _, name := range schema.TrackedMetrics {
		values := make([]float64, len(history))
		for i, m := range history {
			values[i] = m.Values()[name]
		}
		result.Metrics[name] = trendOf(name, values, opts.TrendEpsilon)
	}

	return result
}

// trendOf compares the mean of the older half against the newer half.
// The middle point of an odd-length series joins the newer half. Changes
// within the epsilon band count as stable, as does a zero older half
// since no relative change can be computed from it.
func trendOf(name schema.MetricName, values []float64, epsilon float64) schema.MetricTrend {
	half := len(values) / 2
	first := meanOf(values[:half])
	second := meanOf(values[half:])

	trend := schema.MetricTrend{
		Metric: name,
		First:  first,
		Second: second,
		Dir:    schema.TrendStable,
	}
	if first == 0 {
		return trend
	}

	change := (second - first) / first
	trend.Change = round1(change * 100)
	switch {
	case change > epsilon:
		trend.Dir = schema.TrendIncreasing
	case change < -epsilon:
		trend.Dir = schema.TrendDecreasing
	}

	return trend
}
