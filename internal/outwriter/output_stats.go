package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteStatsResults outputs statistical summaries, dispatching based on the output format configured.
func WriteStatsResults(summaries []schema.StatSummary, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeStatsJSONResults(summaries, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeStatsCSVResults(summaries, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatsTable(summaries, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeStatsJSONResults handles opening the file and calling the JSON writer.
func writeStatsJSONResults(summaries []schema.StatSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, summaries)
	}, "Wrote JSON")
}

// writeStatsCSVResults handles opening the file and calling the CSV writer.
func writeStatsCSVResults(summaries []schema.StatSummary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVResultsForStats(w, summaries, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeCSVResultsForStats writes one row per summary in CSV format.
func writeCSVResultsForStats(w io.Writer, summaries []schema.StatSummary, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"name",
		"samples",
		"min",
		"max",
		"mean",
		"median",
		"std_dev",
		"p95",
		"p99",
		"adjusted_mean",
		"outliers",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range summaries {
			rec := []string{
				s.Name,
				fmt.Sprintf(intFmt, s.SampleCount),
				fmtFloat(s.Min),
				fmtFloat(s.Max),
				fmtFloat(s.Mean),
				fmtFloat(s.Median),
				fmtFloat(s.StdDev),
				fmtFloat(s.P95),
				fmtFloat(s.P99),
				fmtFloat(s.AdjustedMean),
				fmt.Sprintf(intFmt, s.OutlierCount),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeStatsTable generates and writes the human-readable stats table.
func writeStatsTable(summaries []schema.StatSummary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	defer func() { _ = table.Close() }()

	// 1. Define Headers
	headers := []string{
		"Name",
		"Samples",
		"Min",
		"Max",
		"Mean",
		"Median",
		"StdDev",
		"P95",
		"P99",
		"Adj Mean",
		"Outliers",
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for _, s := range summaries {
		data = append(data, []string{
			s.Name,
			fmt.Sprintf(intFmt, s.SampleCount),
			fmtFloat(s.Min),
			fmtFloat(s.Max),
			fmtFloat(s.Mean),
			fmtFloat(s.Median),
			fmtFloat(s.StdDev),
			fmtFloat(s.P95),
			fmtFloat(s.P99),
			fmtFloat(s.AdjustedMean),
			fmt.Sprintf(intFmt, s.OutlierCount),
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	// Compute summary stats
	totalSamples := 0
	for _, s := range summaries {
		totalSamples += s.SampleCount
	}
	if _, err := fmt.Fprintf(writer, "Summarized %d series (%d samples) in %v\n", len(summaries), totalSamples, duration); err != nil {
		return err
	}
	return nil
}

// WriteBaselineResults outputs baseline aggregates, dispatching based on the output format configured.
func WriteBaselineResults(baseline *schema.Baseline, cfg *contract.Config) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeBaselineJSONResults(baseline, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeBaselineCSVResults(baseline, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBaselineTable(baseline, cfg, fmtFloat, w)
		}, "Wrote table")
	}
	return nil
}

// writeBaselineJSONResults handles opening the file and calling the JSON writer.
func writeBaselineJSONResults(baseline *schema.Baseline, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, baseline)
	}, "Wrote JSON")
}

// writeBaselineCSVResults handles opening the file and calling the CSV writer.
func writeBaselineCSVResults(baseline *schema.Baseline, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"metric", "average", "p95"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, row := range baselineRows(baseline) {
				rec := []string{
					string(row.Metric),
					fmtFloat(row.Avg),
					fmtFloat(row.P95),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeBaselineTable generates and writes the human-readable baseline table.
func writeBaselineTable(baseline *schema.Baseline, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	if baseline == nil {
		_, err := fmt.Fprintln(writer, "No baseline available. Record builds first.")
		return err
	}

	table := tablewriter.NewWriter(writer)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Metric", "Average", "P95"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, row := range baselineRows(baseline) {
		data = append(data, []string{
			schema.HumanMetric(row.Metric),
			formatMetricValue(row.Metric, row.Avg, fmtFloat),
			formatMetricValue(row.Metric, row.P95, fmtFloat),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Baseline over the last %d builds\n", baseline.SampleSize); err != nil {
		return err
	}
	return nil
}

// baselineRow pairs the average and p95 aggregate for one metric.
type baselineRow struct {
	Metric schema.MetricName
	Avg    float64
	P95    float64
}

// baselineRows projects a baseline into rows in canonical metric order.
// Returns nil for a nil baseline.
func baselineRows(b *schema.Baseline) []baselineRow {
	if b == nil {
		return nil
	}
	avgs := b.Values()
	p95s := map[schema.MetricName]float64{
		schema.MetricTotalDuration: b.P95TotalDuration,
		schema.MetricTestDuration:  b.P95TestDuration,
		schema.MetricBuildDuration: b.P95BuildDuration,
		schema.MetricTestsRun:      b.P95TestsRun,
		schema.MetricCoverage:      b.P95Coverage,
	}
	rows := make([]baselineRow, 0, len(schema.TrackedMetrics))
	for _, name := range schema.TrackedMetrics {
		rows = append(rows, baselineRow{Metric: name, Avg: avgs[name], P95: p95s[name]})
	}
	return rows
}
