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

// WriteTrendsResults outputs trend directions, dispatching based on the output format configured.
func WriteTrendsResults(trends schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeTrendsJSONResults(trends, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeTrendsCSVResults(trends, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendsTable(trends, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeTrendsJSONResults handles opening the file and calling the JSON writer.
func writeTrendsJSONResults(trends schema.TrendResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, trends)
	}, "Wrote JSON")
}

// writeTrendsCSVResults handles opening the file and calling the CSV writer.
func writeTrendsCSVResults(trends schema.TrendResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"metric",
			"first_half",
			"second_half",
			"change_pct",
			"direction",
		}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, trend := range trendRows(trends) {
				rec := []string{
					string(trend.Metric),
					fmtFloat(trend.First),
					fmtFloat(trend.Second),
					fmtFloat(trend.Change),
					string(trend.Dir),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeTrendsTable generates and writes the human-readable trends table.
func writeTrendsTable(trends schema.TrendResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if !trends.HasTrend {
		_, err := fmt.Fprintf(writer, "Not enough history for trends (have %d builds, need at least 2)\n", trends.Points)
		return err
	}

	table := tablewriter.NewWriter(writer)
	defer func() { _ = table.Close() }()

	// 1. Define Headers
	headers := []string{
		"Metric",
		"First Half",
		"Second Half",
		"Change",
		"Direction",
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	red, green, yellow := deltaSprinters(cfg.UseColors)
	for _, trend := range trendRows(trends) {
		data = append(data, []string{
			schema.HumanMetric(trend.Metric),
			formatMetricValue(trend.Metric, trend.First, fmtFloat),
			formatMetricValue(trend.Metric, trend.Second, fmtFloat),
			formatChange(trend.Change, cfg.Precision, red, green, yellow),
			string(trend.Dir),
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analyzed %d builds in %v\n", trends.Points, duration); err != nil {
		return err
	}
	return nil
}

// trendRows flattens the trend map into display order: tracked metrics
// first in canonical order, then any extra metrics sorted by name.
func trendRows(trends schema.TrendResult) []schema.MetricTrend {
	if !trends.HasTrend {
		return nil
	}
	rows := make([]schema.MetricTrend, 0, len(trends.Metrics))
	seen := make(map[schema.MetricName]struct{}, len(trends.Metrics))
	for _, name := range schema.TrackedMetrics {
		if trend, ok := trends.Metrics[name]; ok {
			rows = append(rows, trend)
			seen[name] = struct{}{}
		}
	}
	var extras []schema.MetricName
	for name := range trends.Metrics {
		if _, ok := seen[name]; !ok {
			extras = append(extras, name)
		}
	}
	slices.Sort(extras)
	for _, name := range extras {
		rows = append(rows, trends.Metrics[name])
	}
	return rows
}
