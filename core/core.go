// Package core has the statistical analysis engine: sample statistics,
// rolling baselines, baseline comparison, trends, anomaly detection and
// recommendations.
package core

import (
	"github.com/huangsam/buildlens/schema"
)

// AnalyzeBuild runs the full analysis of one build report against its
// history. History is ordered oldest to newest and is always passed in
// explicitly; the engine keeps no state between calls, so the same
// inputs always produce the same analysis.
func AnalyzeBuild(report schema.BuildReport, history []schema.BuildMetrics, opts schema.AnalysisOptions) schema.BuildAnalysis {
	baseline := CalculateBaseline(history, opts.BaselineWindow)

	return schema.BuildAnalysis{
		Build:           report.Build,
		Current:         report.Metrics,
		Baseline:        baseline,
		Comparison:      CompareToBaseline(report.Metrics.Values(), baseline.Values(), opts),
		Trends:          AnalyzeTrends(history, opts),
		Anomalies:       DetectAnomalies(report.Metrics, baseline),
		Recommendations: GenerateRecommendations(report, opts),
	}
}
