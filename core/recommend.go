package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/huangsam/buildlens/schema"
)

// Recommendation rule constants.
const (
	criticalFailureRate = 0.25 // failure rate that escalates to critical
	slowTestCountHigh   = 5    // slow tests before escalating to high
	slowTestEscalation  = 5.0  // multiple of the slow threshold that escalates
	timeoutFailureMin   = 2    // timeout failures before advising
	lowLineCoverage     = 50.0 // line coverage that escalates to high
	maxListedFiles      = 5    // files named in the low-coverage message
)

// recommendationRule pairs a predicate with a factory. Rules run in
// declaration order and each fires at most once per report.
type recommendationRule struct {
	when  func(report schema.BuildReport, opts schema.AnalysisOptions) bool
	build func(report schema.BuildReport, opts schema.AnalysisOptions) schema.Recommendation
}

var recommendationRules = []recommendationRule{
	{when: failureRateHigh, build: buildFailureRate},
	{when: hasSlowTests, build: buildSlowTests},
	{when: hasRepeatedTimeouts, build: buildTimeoutFailures},
	{when: coverageBelowTarget, build: buildLineCoverage},
	{when: functionsUntested, build: buildUntestedFunctions},
	{when: hasLowCoverageFiles, build: buildLowCoverageFiles},
}

// GenerateRecommendations derives actionable advice from a build report.
// The rule order is fixed, so output order is stable across runs.
// Coverage rules treat a zero figure as unreported and stay quiet.
func GenerateRecommendations(report schema.BuildReport, opts schema.AnalysisOptions) []schema.Recommendation {
	var recs []schema.Recommendation
	for _, rule := range recommendationRules {
		if rule.when(report, opts) {
			recs = append(recs, rule.build(report, opts))
		}
	}
	return recs
}

func failureRate(m schema.BuildMetrics) float64 {
	if m.TestsRun == 0 {
		return 0
	}
	return float64(m.TestsFailed) / float64(m.TestsRun)
}

func failureRateHigh(report schema.BuildReport, opts schema.AnalysisOptions) bool {
	return failureRate(report.Metrics) > opts.FailureRateThreshold
}

func buildFailureRate(report schema.BuildReport, _ schema.AnalysisOptions) schema.Recommendation {
	rate := failureRate(report.Metrics)
	severity := schema.SeverityHigh
	if rate > criticalFailureRate {
		severity = schema.SeverityCritical
	}
	return schema.Recommendation{
		Type:     schema.RecommendFailureRate,
		Severity: severity,
		Message: fmt.Sprintf("%d of %d tests failed (%.0f%%); stabilize failing tests before shipping",
			report.Metrics.TestsFailed, report.Metrics.TestsRun, rate*100),
	}
}

func slowTestsIn(report schema.BuildReport, opts schema.AnalysisOptions) []schema.SlowTest {
	var slow []schema.SlowTest
	for _, st := range report.SlowTests {
		if st.Duration > opts.SlowTestThreshold {
			slow = append(slow, st)
		}
	}
	return slow
}

func hasSlowTests(report schema.BuildReport, opts schema.AnalysisOptions) bool {
	return len(slowTestsIn(report, opts)) > 0
}

func buildSlowTests(report schema.BuildReport, opts schema.AnalysisOptions) schema.Recommendation {
	slow := slowTestsIn(report, opts)

	worst := slow[0]
	escalate := false
	for _, st := range slow {
		if st.Duration > worst.Duration {
			worst = st
		}
		if st.Duration > opts.SlowTestThreshold*slowTestEscalation {
			escalate = true
		}
	}

	severity := schema.SeverityMedium
	if len(slow) >= slowTestCountHigh || escalate {
		severity = schema.SeverityHigh
	}
	return schema.Recommendation{
		Type:     schema.RecommendSlowTests,
		Severity: severity,
		Message: fmt.Sprintf("%d tests exceed %s; worst is %s at %s",
			len(slow), schema.FormatMillis(opts.SlowTestThreshold), worst.Name, schema.FormatMillis(worst.Duration)),
	}
}

func timeoutCount(report schema.BuildReport) int {
	count := 0
	for _, failure := range report.Failures {
		if failure.Category == schema.FailureTimeout {
			count++
		}
	}
	return count
}

func hasRepeatedTimeouts(report schema.BuildReport, _ schema.AnalysisOptions) bool {
	return timeoutCount(report) >= timeoutFailureMin
}

func buildTimeoutFailures(report schema.BuildReport, _ schema.AnalysisOptions) schema.Recommendation {
	return schema.Recommendation{
		Type:     schema.RecommendTimeoutFailures,
		Severity: schema.SeverityHigh,
		Message: fmt.Sprintf("%d tests failed by timeout; raise the limits or split the slow paths",
			timeoutCount(report)),
	}
}

func coverageBelowTarget(report schema.BuildReport, opts schema.AnalysisOptions) bool {
	c := report.Coverage
	lineLow := c.Line > 0 && c.Line < opts.LineCoverageTarget
	branchLow := c.Branch > 0 && c.Branch < opts.LineCoverageTarget
	return lineLow || branchLow
}

func buildLineCoverage(report schema.BuildReport, opts schema.AnalysisOptions) schema.Recommendation {
	c := report.Coverage
	severity := schema.SeverityMedium
	if c.Line > 0 && c.Line < lowLineCoverage {
		severity = schema.SeverityHigh
	}
	return schema.Recommendation{
		Type:     schema.RecommendLineCoverage,
		Severity: severity,
		Message: fmt.Sprintf("line coverage %.1f%% and branch coverage %.1f%% are below the %.0f%% target",
			c.Line, c.Branch, opts.LineCoverageTarget),
	}
}

func functionsUntested(report schema.BuildReport, opts schema.AnalysisOptions) bool {
	f := report.Coverage.Function
	return f > 0 && f < opts.FuncCoverageTarget
}

func buildUntestedFunctions(report schema.BuildReport, opts schema.AnalysisOptions) schema.Recommendation {
	return schema.Recommendation{
		Type:     schema.RecommendUntestedFunctions,
		Severity: schema.SeverityMedium,
		Message: fmt.Sprintf("function coverage %.1f%% is below the %.0f%% target; add tests for uncovered functions",
			report.Coverage.Function, opts.FuncCoverageTarget),
	}
}

func lowCoverageFilesIn(report schema.BuildReport, opts schema.AnalysisOptions) []schema.FileCoverage {
	var flagged []schema.FileCoverage
	for _, f := range report.Coverage.Files {
		if f.Line < opts.FileCoverageFloor {
			flagged = append(flagged, f)
		}
	}
	return flagged
}

func hasLowCoverageFiles(report schema.BuildReport, opts schema.AnalysisOptions) bool {
	return len(lowCoverageFilesIn(report, opts)) > 0
}

func buildLowCoverageFiles(report schema.BuildReport, opts schema.AnalysisOptions) schema.Recommendation {
	flagged := lowCoverageFilesIn(report, opts)

	// Worst files first; ties break on path for stable output.
	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].Line != flagged[j].Line {
			return flagged[i].Line < flagged[j].Line
		}
		return flagged[i].Path < flagged[j].Path
	})

	listed := flagged
	if len(listed) > maxListedFiles {
		listed = listed[:maxListedFiles]
	}
	parts := make([]string, len(listed))
	for i, f := range listed {
		parts[i] = fmt.Sprintf("%s (%.0f%%)", f.Path, f.Line)
	}

	return schema.Recommendation{
		Type:     schema.RecommendLowCoverageFiles,
		Severity: schema.SeverityMedium,
		Message: fmt.Sprintf("%d files sit below %.0f%% line coverage: %s",
			len(flagged), opts.FileCoverageFloor, strings.Join(parts, ", ")),
	}
}
