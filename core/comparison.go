package core

import (
	"math"
	"slices"

	"github.com/huangsam/buildlens/schema"
)

// CompareToBaseline compares current metric values against baseline ones.
// A nil baseline map yields a result with HasBaseline false and nothing
// else populated. Metrics absent from the baseline or with a zero
// baseline value are skipped so ratios stay meaningful. Iteration runs
// over sorted metric names, which keeps the result deterministic and the
// regression and improvement lists sorted.
func CompareToBaseline(current, baseline map[schema.MetricName]float64, opts schema.AnalysisOptions) schema.ComparisonResult {
	if baseline == nil {
		return schema.ComparisonResult{HasBaseline: false}
	}

	result := schema.ComparisonResult{
		HasBaseline: true,
		Metrics:     make(map[schema.MetricName]schema.MetricComparison, len(current)),
	}

	for _, name := range sortedMetricNames(current) {
		base, ok := baseline[name]
		if !ok || base == 0 {
			continue
		}

		cur := current[name]
		ratio := cur / base
		status := schema.StatusStable
		switch {
		case ratio > opts.RegressionThreshold:
			status = schema.StatusRegression
			result.Summary.Regressions++
			result.Regressions = append(result.Regressions, name)
		case ratio < opts.ImprovementThreshold:
			status = schema.StatusImprovement
			result.Summary.Improvements++
			result.Improvements = append(result.Improvements, name)
		default:
			result.Summary.Stable++
		}

		result.Metrics[name] = schema.MetricComparison{
			Metric:   name,
			Current:  cur,
			Baseline: base,
			Ratio:    ratio,
			Change:   round1((ratio - 1) * 100),
			Status:   status,
		}
	}

	return result
}

// sortedMetricNames returns the map keys in sorted order.
func sortedMetricNames(values map[schema.MetricName]float64) []schema.MetricName {
	names := make([]schema.MetricName, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// round1 rounds to one decimal place, halves away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
