package core

import (
	"fmt"
	"strings"

	"github.com/huangsam/buildlens/schema"
)

// FormatForMemory packages an analysis as a memory-store entry: the
// configured dataset name, a readable summary, and structured metadata.
// It is a pure function of its inputs, so repeated calls with the same
// analysis produce byte-identical entries.
func FormatForMemory(analysis schema.BuildAnalysis, info schema.BuildInfo, dataset string) schema.MemoryEntry {
	var b strings.Builder

	fmt.Fprintf(&b, "Build #%d on %s@%s (%s)\n", info.BuildNum, info.Repo, info.Branch, shortCommit(info.Commit))

	m := analysis.Current
	fmt.Fprintf(&b, "Total %s, tests %s, build %s; %d tests run, %d failed, coverage %.1f%%\n",
		schema.FormatMillis(m.TotalDuration), schema.FormatMillis(m.TestDuration),
		schema.FormatMillis(m.BuildDuration), m.TestsRun, m.TestsFailed, m.Coverage)

	if analysis.Comparison.HasBaseline {
		summary := analysis.Comparison.Summary
		fmt.Fprintf(&b, "Versus baseline: %d regressions, %d improvements, %d stable\n",
			summary.Regressions, summary.Improvements, summary.Stable)
		for _, name := range analysis.Comparison.Regressions {
			mc := analysis.Comparison.Metrics[name]
			fmt.Fprintf(&b, "- %s regressed %+.1f%% (%.1f vs %.1f)\n",
				schema.HumanMetric(name), mc.Change, mc.Current, mc.Baseline)
		}
	} else {
		b.WriteString("No baseline available yet\n")
	}

	for _, a := range analysis.Anomalies {
		fmt.Fprintf(&b, "Anomaly [%s] %s: %s\n", a.Severity, a.Type, a.Message)
	}
	for _, r := range analysis.Recommendations {
		fmt.Fprintf(&b, "Advice [%s] %s: %s\n", r.Severity, r.Type, r.Message)
	}

	metadata := map[string]any{
		"repo":            info.Repo,
		"branch":          info.Branch,
		"commit":          info.Commit,
		"build_num":       info.BuildNum,
		"total_duration":  m.TotalDuration,
		"coverage":        m.Coverage,
		"regressions":     analysis.Comparison.Summary.Regressions,
		"anomalies":       len(analysis.Anomalies),
		"recommendations": len(analysis.Recommendations),
	}

	return schema.MemoryEntry{
		Dataset:  dataset,
		Content:  b.String(),
		Metadata: metadata,
	}
}

// shortCommit trims a commit hash to the conventional 7 characters.
func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
