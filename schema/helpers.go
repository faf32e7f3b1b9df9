package schema

import (
	"fmt"
	"strings"
)

// HumanMetric renders a metric name for prose, e.g. "total_duration"
// becomes "total duration".
func HumanMetric(name MetricName) string {
	return strings.ReplaceAll(string(name), "_", " ")
}

// FormatMillis renders a millisecond value compactly: sub-second values
// keep the ms unit, anything above a second switches to seconds.
func FormatMillis(ms float64) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.1fs", ms/1000)
	}
	return fmt.Sprintf("%.0fms", ms)
}

// MetricsFromRecords extracts the metrics from build records, preserving
// order. Used to turn store rows into analysis history.
func MetricsFromRecords(records []BuildRecord) []BuildMetrics {
	metrics := make([]BuildMetrics, len(records))
	for i, rec := range records {
		metrics[i] = rec.Metrics
	}
	return metrics
}

// ReverseMetrics returns a reversed copy. Stores hand back newest-first
// rows while the analysis wants oldest-first history.
func ReverseMetrics(metrics []BuildMetrics) []BuildMetrics {
	out := make([]BuildMetrics, len(metrics))
	for i, m := range metrics {
		out[len(metrics)-1-i] = m
	}
	return out
}
