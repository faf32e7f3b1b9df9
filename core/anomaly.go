package core

import (
	"fmt"
	"math"

	"github.com/huangsam/buildlens/schema"
)

// Anomaly rule constants.
const (
	durationSpikeHigh     = 1.2  // ratio over baseline p95 that rates high
	durationSpikeCritical = 2.0  // ratio over baseline p95 that rates critical
	testCountShift        = 0.20 // relative deviation in tests run worth flagging
	testCountShiftMajor   = 0.50 // relative deviation that escalates severity
	coverageDropPoints    = 5.0  // percentage points below baseline average
	coverageDropCritical  = 10.0 // percentage points that rate critical
)

// DetectAnomalies flags rule violations of the current build against the
// baseline. A nil baseline yields no anomalies, and any rule whose
// baseline reference is zero is skipped.
func DetectAnomalies(current schema.BuildMetrics, baseline *schema.Baseline) []schema.Anomaly {
	if baseline == nil {
		return nil
	}

	var anomalies []schema.Anomaly
	if a := detectDurationSpike(current, baseline); a != nil {
		anomalies = append(anomalies, *a)
	}
	if a := detectTestCountShift(current, baseline); a != nil {
		anomalies = append(anomalies, *a)
	}
	if a := detectCoverageDrop(current, baseline); a != nil {
		anomalies = append(anomalies, *a)
	}
	return anomalies
}

// detectDurationSpike fires when the current total duration exceeds the
// baseline p95. Ratios above 2x rate critical, above 1.2x high.
func detectDurationSpike(current schema.BuildMetrics, baseline *schema.Baseline) *schema.Anomaly {
	if baseline.P95TotalDuration == 0 || current.TotalDuration <= baseline.P95TotalDuration {
		return nil
	}

	ratio := current.TotalDuration / baseline.P95TotalDuration
	severity := schema.SeverityMedium
	switch {
	case ratio > durationSpikeCritical:
		severity = schema.SeverityCritical
	case ratio > durationSpikeHigh:
		severity = schema.SeverityHigh
	}

	return &schema.Anomaly{
		Type:     schema.AnomalyDurationSpike,
		Severity: severity,
		Message: fmt.Sprintf("total duration %s exceeds the baseline p95 %s (%.1fx)",
			schema.FormatMillis(current.TotalDuration), schema.FormatMillis(baseline.P95TotalDuration), ratio),
		Value:    current.TotalDuration,
		Expected: baseline.P95TotalDuration,
	}
}

// detectTestCountShift fires when tests run deviates more than 20% from
// the baseline average. Shrinking suites rate harsher than growing ones
// since disappearing tests usually mean lost coverage.
func detectTestCountShift(current schema.BuildMetrics, baseline *schema.Baseline) *schema.Anomaly {
	if baseline.AvgTestsRun == 0 {
		return nil
	}

	deviation := (float64(current.TestsRun) - baseline.AvgTestsRun) / baseline.AvgTestsRun
	if math.Abs(deviation) <= testCountShift {
		return nil
	}

	a := &schema.Anomaly{
		Value:    float64(current.TestsRun),
		Expected: baseline.AvgTestsRun,
	}
	if deviation > 0 {
		a.Type = schema.AnomalyTestCountIncrease
		a.Severity = schema.SeverityLow
		if deviation > testCountShiftMajor {
			a.Severity = schema.SeverityMedium
		}
		a.Message = fmt.Sprintf("tests run %d is %.0f%% above the baseline average %.0f",
			current.TestsRun, deviation*100, baseline.AvgTestsRun)
	} else {
		a.Type = schema.AnomalyTestCountDecrease
		a.Severity = schema.SeverityHigh
		if -deviation > testCountShiftMajor {
			a.Severity = schema.SeverityCritical
		}
		a.Message = fmt.Sprintf("tests run %d is %.0f%% below the baseline average %.0f",
			current.TestsRun, -deviation*100, baseline.AvgTestsRun)
	}
	return a
}

// detectCoverageDrop fires when coverage falls more than 5 points below
// the baseline average, critical beyond 10 points.
func detectCoverageDrop(current schema.BuildMetrics, baseline *schema.Baseline) *schema.Anomaly {
	if baseline.AvgCoverage == 0 {
		return nil
	}

	drop := baseline.AvgCoverage - current.Coverage
	if drop <= coverageDropPoints {
		return nil
	}

	severity := schema.SeverityHigh
	if drop > coverageDropCritical {
		severity = schema.SeverityCritical
	}

	return &schema.Anomaly{
		Type:     schema.AnomalyCoverageDrop,
		Severity: severity,
		Message: fmt.Sprintf("coverage %.1f%% is %.1f points below the baseline average %.1f%%",
			current.Coverage, drop, baseline.AvgCoverage),
		Value:    current.Coverage,
		Expected: baseline.AvgCoverage,
	}
}
