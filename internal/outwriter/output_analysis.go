package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAnalysisResults outputs the build analysis, dispatching based on the output format configured.
func WriteAnalysisResults(analysis schema.BuildAnalysis, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeAnalysisJSONResults(analysis, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeAnalysisCSVResults(analysis, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable report
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisTable(analysis, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeAnalysisJSONResults handles opening the file and calling the JSON writer.
func writeAnalysisJSONResults(analysis schema.BuildAnalysis, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, analysis)
	}, "Wrote JSON")
}

// writeAnalysisCSVResults handles opening the file and calling the CSV writer.
func writeAnalysisCSVResults(analysis schema.BuildAnalysis, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVResultsForAnalysis(w, analysis, fmtFloat)
	}, "Wrote CSV")
}

// writeCSVResultsForAnalysis writes the per-metric comparison rows in CSV format.
// Without a baseline only the header row comes out.
func writeCSVResultsForAnalysis(w io.Writer, analysis schema.BuildAnalysis, fmtFloat func(float64) string) error {
	header := []string{
		"metric",
		"current",
		"baseline",
		"ratio",
		"change_pct",
		"status",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range comparisonRows(analysis.Comparison) {
			rec := []string{
				string(row.Metric),
				fmtFloat(row.Current),
				fmtFloat(row.Baseline),
				fmt.Sprintf("%.3f", row.Ratio),
				fmtFloat(row.Change),
				string(row.Status),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeAnalysisTable generates and writes the human-readable analysis report.
func writeAnalysisTable(analysis schema.BuildAnalysis, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if err := printAnalysisHeader(writer, analysis, cfg); err != nil {
		return err
	}

	if analysis.Comparison.HasBaseline {
		if err := writeComparisonSection(writer, analysis, cfg, fmtFloat); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintln(writer, "No baseline available. Record more builds to enable comparison."); err != nil {
			return err
		}
		current := analysis.Current.Values()
		for _, name := range schema.TrackedMetrics {
			if _, err := fmt.Fprintf(writer, "  %s: %s\n", schema.HumanMetric(name), formatMetricValue(name, current[name], fmtFloat)); err != nil {
				return err
			}
		}
	}

	if err := writeFindingsSection(writer, analysis, cfg); err != nil {
		return err
	}

	if analysis.Trends.HasTrend {
		if _, err := fmt.Fprintf(writer, "Trends over the last %d builds:\n", analysis.Trends.Points); err != nil {
			return err
		}
		red, green, yellow := deltaSprinters(cfg.UseColors)
		for _, trend := range trendRows(analysis.Trends) {
			changeStr := formatChange(trend.Change, cfg.Precision, red, green, yellow)
			if _, err := fmt.Fprintf(writer, "  %s: %s (%s)\n", schema.HumanMetric(trend.Metric), trend.Dir, changeStr); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. History backend: %s\n", duration, cfg.HistoryBackend); err != nil {
		return err
	}
	return nil
}

// printAnalysisHeader prints the build identity lines above the report.
// Lines without data are skipped so piped reports stay clean.
func printAnalysisHeader(w io.Writer, analysis schema.BuildAnalysis, cfg *contract.Config) error {
	build := analysis.Build
	if build.Repo != "" {
		commit := shortID(build.Commit, 7)
		if cfg.UseEmojis {
			if _, err := fmt.Fprintf(w, "🔎 Build #%d for %s (%s@%s)\n", build.BuildNum, build.Repo, build.Branch, commit); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, "Build #%d for %s (%s@%s)\n", build.BuildNum, build.Repo, build.Branch, commit); err != nil {
				return err
			}
		}
	}
	if ts := analysis.Current.Timestamp; !ts.IsZero() {
		if cfg.UseEmojis {
			if _, err := fmt.Fprintf(w, "📅 Finished: %s\n", ts.Format(contract.DateTimeFormat)); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, "Finished: %s\n", ts.Format(contract.DateTimeFormat)); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeComparisonSection renders the metric-vs-baseline table plus its summary line.
func writeComparisonSection(writer io.Writer, analysis schema.BuildAnalysis, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(writer)
	defer func() { _ = table.Close() }()

	// --- 1. Define Headers ---
	headers := []string{
		"Metric",
		"Current",
		"Baseline",
		"Change",
		"Status",
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var data [][]string
	red, green, yellow := deltaSprinters(cfg.UseColors)
	for _, row := range comparisonRows(analysis.Comparison) {
		var statusStr string
		if cfg.UseColors {
			statusStr = contract.GetColorStatus(row.Status)
		} else {
			statusStr = contract.GetPlainStatus(row.Status)
		}
		data = append(data, []string{
			schema.HumanMetric(row.Metric),
			formatMetricValue(row.Metric, row.Current, fmtFloat),
			formatMetricValue(row.Metric, row.Baseline, fmtFloat),
			formatChange(row.Change, cfg.Precision, red, green, yellow),
			statusStr,
		})
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	summary := analysis.Comparison.Summary
	sampleSize := 0
	if analysis.Baseline != nil {
		sampleSize = analysis.Baseline.SampleSize
	}
	if _, err := fmt.Fprintf(writer, "Compared %d metrics against a %d-build baseline: %d regressions, %d improvements, %d stable\n",
		len(analysis.Comparison.Metrics), sampleSize, summary.Regressions, summary.Improvements, summary.Stable); err != nil {
		return err
	}
	return nil
}

// writeFindingsSection renders the anomaly and recommendation lists.
func writeFindingsSection(writer io.Writer, analysis schema.BuildAnalysis, cfg *contract.Config) error {
	labelFor := contract.GetPlainLabel
	if cfg.UseColors {
		labelFor = contract.GetColorLabel
	}

	if len(analysis.Anomalies) > 0 {
		if _, err := fmt.Fprintln(writer, "Anomalies:"); err != nil {
			return err
		}
		for _, anomaly := range analysis.Anomalies {
			if _, err := fmt.Fprintf(writer, "  [%s] %s: %s\n", labelFor(anomaly.Severity), anomaly.Type, anomaly.Message); err != nil {
				return err
			}
		}
	}

	if len(analysis.Recommendations) > 0 {
		if _, err := fmt.Fprintln(writer, "Recommendations:"); err != nil {
			return err
		}
		for _, rec := range analysis.Recommendations {
			if _, err := fmt.Fprintf(writer, "  [%s] %s\n", labelFor(rec.Severity), rec.Message); err != nil {
				return err
			}
		}
	}
	return nil
}

// comparisonRows flattens the comparison map into display order: tracked
// metrics first in canonical order, then any extra metrics sorted by name.
func comparisonRows(comparison schema.ComparisonResult) []schema.MetricComparison {
	if !comparison.HasBaseline {
		return nil
	}
	rows := make([]schema.MetricComparison, 0, len(comparison.Metrics))
	seen := make(map[schema.MetricName]struct{}, len(comparison.Metrics))
	for _, name := range schema.TrackedMetrics {
		if row, ok := comparison.Metrics[name]; ok {
			rows = append(rows, row)
			seen[name] = struct{}{}
		}
	}
	var extras []schema.MetricName
	for name := range comparison.Metrics {
		if _, ok := seen[name]; !ok {
			extras = append(extras, name)
		}
	}
	slices.Sort(extras)
	for _, name := range extras {
		rows = append(rows, comparison.Metrics[name])
	}
	return rows
}
