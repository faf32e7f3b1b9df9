package core

import (
	"fmt"

	"github.com/huangsam/buildlens/schema"
)

// EvaluateGate applies the gate policy to an analysis. Every violation is
// collected rather than stopping at the first, so CI logs show the whole
// picture in one run.
func EvaluateGate(analysis schema.BuildAnalysis, gate schema.GateConfig) schema.GateResult {
	var violations []schema.GateViolation

	if regressions := analysis.Comparison.Summary.Regressions; regressions > gate.MaxRegressions {
		violations = append(violations, schema.GateViolation{
			Rule:    "regressions",
			Message: fmt.Sprintf("%d metrics regressed, budget is %d", regressions, gate.MaxRegressions),
		})
	}

	for _, a := range analysis.Anomalies {
		if a.Severity.AtLeast(gate.MaxSeverity) {
			violations = append(violations, schema.GateViolation{
				Rule:    "anomaly",
				Message: fmt.Sprintf("[%s] %s: %s", a.Severity, a.Type, a.Message),
			})
		}
	}

	return schema.GateResult{
		Passed:     len(violations) == 0,
		Violations: violations,
	}
}
