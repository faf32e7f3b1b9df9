package core

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/huangsam/buildlens/schema"
)

// ErrNoSamples is returned when a summary is requested for an empty sample set.
var ErrNoSamples = errors.New("no samples provided")

// CalculateStats summarizes duration samples in milliseconds. The input
// slice is left untouched; all work happens on a sorted copy. Outliers
// sit more than opts.OutlierThreshold standard deviations from the mean
// and are excluded from the adjusted mean only.
// Returns ErrNoSamples for an empty or nil slice.
func CalculateStats(name string, samples []float64, opts schema.AnalysisOptions) (schema.StatSummary, error) {
	if len(samples) == 0 {
		return schema.StatSummary{}, fmt.Errorf("calculate stats for %q: %w", name, ErrNoSamples)
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	n := len(sorted)
	mean := meanOf(sorted)

	// Population standard deviation: samples are the whole run, not a draw.
	var variance float64
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	stdDev := math.Sqrt(variance / float64(n))

	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	adjustedMean, outlierCount := adjustForOutliers(sorted, mean, stdDev, opts.OutlierThreshold)

	return schema.StatSummary{
		Name:         name,
		SampleCount:  n,
		Min:          sorted[0],
		Max:          sorted[n-1],
		Mean:         mean,
		Median:       median,
		StdDev:       stdDev,
		P95:          percentile(sorted, 0.95),
		P99:          percentile(sorted, 0.99),
		AdjustedMean: adjustedMean,
		OutlierCount: outlierCount,
	}, nil
}

// meanOf returns the arithmetic mean, or 0 for an empty slice.
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// percentile picks the element at index floor(n*p) from sorted values,
// clamped to the last element.
func percentile(sorted []float64, p float64) float64 {
	idx := int(math.Floor(float64(len(sorted)) * p))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// adjustForOutliers computes the mean with outliers removed and the
// number of samples excluded. When every sample would be excluded the
// plain mean is kept so the summary stays usable.
func adjustForOutliers(samples []float64, mean, stdDev, threshold float64) (float64, int) {
	var kept float64
	var keptCount int
	for _, v := range samples {
		if math.Abs(v-mean) > threshold*stdDev {
			continue
		}
		kept += v
		keptCount++
	}
	if keptCount == 0 {
		return mean, len(samples)
	}
	return kept / float64(keptCount), len(samples) - keptCount
}
