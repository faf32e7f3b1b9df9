// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints build analysis results using the configured output format.
func (ow *OutWriter) WriteAnalysis(analysis schema.BuildAnalysis, cfg *contract.Config, duration time.Duration) error {
	return WriteAnalysisResults(analysis, cfg, duration)
}

// WriteStats prints statistical summaries using the configured output format.
func (ow *OutWriter) WriteStats(summaries []schema.StatSummary, cfg *contract.Config, duration time.Duration) error {
	return WriteStatsResults(summaries, cfg, duration)
}

// WriteBaseline prints baseline aggregates using the configured output format.
func (ow *OutWriter) WriteBaseline(baseline *schema.Baseline, cfg *contract.Config) error {
	return WriteBaselineResults(baseline, cfg)
}

// WriteTrends prints trend analysis results using the configured output format.
func (ow *OutWriter) WriteTrends(trends schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	return WriteTrendsResults(trends, cfg, duration)
}

// WriteGate prints quality gate verdicts using the configured output format.
func (ow *OutWriter) WriteGate(result schema.GateResult, cfg *contract.Config) error {
	return WriteGateResults(result, cfg)
}

// WriteHistory prints stored build records using the configured output format.
func (ow *OutWriter) WriteHistory(builds []schema.BuildRecord, cfg *contract.Config) error {
	return WriteHistoryResults(builds, cfg)
}

// WriteInsights prints stored insight records using the configured output format.
func (ow *OutWriter) WriteInsights(insights []schema.InsightRecord, cfg *contract.Config) error {
	return WriteInsightsResults(insights, cfg)
}

// WriteStatus prints history backend health using the configured output format.
func (ow *OutWriter) WriteStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	return WriteStatusResults(status, cfg)
}
