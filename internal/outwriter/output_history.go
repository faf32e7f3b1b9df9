package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteHistoryResults outputs stored build records, dispatching based on the output format configured.
func WriteHistoryResults(builds []schema.BuildRecord, cfg *contract.Config) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeHistoryJSONResults(builds, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeHistoryCSVResults(builds, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(builds, cfg, fmtFloat, intFmt, w)
		}, "Wrote table")
	}
	return nil
}

// writeHistoryJSONResults handles opening the file and calling the JSON writer.
func writeHistoryJSONResults(builds []schema.BuildRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForHistory(w, builds)
	}, "Wrote JSON")
}

// writeHistoryCSVResults handles opening the file and calling the CSV writer.
func writeHistoryCSVResults(builds []schema.BuildRecord, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVResultsForHistory(w, builds, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeJSONResultsForHistory writes the build records in JSON format.
func writeJSONResultsForHistory(w io.Writer, builds []schema.BuildRecord) error {
	// 1. Prepare the data structure for JSON with rank added
	type JSONBuildRecord struct {
		Rank int `json:"rank"`
		schema.BuildRecord
	}

	output := make([]JSONBuildRecord, len(builds))
	for i, b := range builds {
		output[i] = JSONBuildRecord{
			Rank:        i + 1,
			BuildRecord: b,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}

// writeCSVResultsForHistory writes the build records in CSV format.
func writeCSVResultsForHistory(w io.Writer, builds []schema.BuildRecord, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"id",
		"repo",
		"branch",
		"commit",
		"build_num",
		"total_duration_ms",
		"test_duration_ms",
		"build_duration_ms",
		"tests_run",
		"tests_passed",
		"tests_failed",
		"coverage",
		"created_at",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range builds {
			rec := []string{
				b.ID,
				b.Repo,
				b.Branch,
				b.Commit,
				fmt.Sprintf(intFmt, b.BuildNum),
				fmtFloat(b.Metrics.TotalDuration),
				fmtFloat(b.Metrics.TestDuration),
				fmtFloat(b.Metrics.BuildDuration),
				fmt.Sprintf(intFmt, b.Metrics.TestsRun),
				fmt.Sprintf(intFmt, b.Metrics.TestsPassed),
				fmt.Sprintf(intFmt, b.Metrics.TestsFailed),
				fmtFloat(b.Metrics.Coverage),
				b.CreatedAt.Format(contract.DateTimeFormat),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeHistoryTable generates and writes the human-readable history table.
func writeHistoryTable(builds []schema.BuildRecord, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	defer func() { _ = table.Close() }()

	// 1. Define Headers
	headers := []string{
		"Rank",
		"Repo",
		"Branch",
		"Commit",
		"Build",
		"Total",
		"Tests",
		"Failed",
		"Coverage",
		"Created",
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, b := range builds {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(b.Repo, getMaxTableRepoWidth(cfg)),
			b.Branch,
			shortID(b.Commit, 7),
			fmt.Sprintf(intFmt, b.BuildNum),
			schema.FormatMillis(b.Metrics.TotalDuration),
			fmt.Sprintf(intFmt, b.Metrics.TestsRun),
			fmt.Sprintf(intFmt, b.Metrics.TestsFailed),
			fmtFloat(b.Metrics.Coverage) + "%",
			b.CreatedAt.Format(contract.DateTimeFormat),
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d builds\n", len(builds)); err != nil {
		return err
	}
	return nil
}

// WriteInsightsResults outputs stored insight records, dispatching based on the output format configured.
func WriteInsightsResults(insights []schema.InsightRecord, cfg *contract.Config) error {
	// Create formatters using helper
	_, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeInsightsJSONResults(insights, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeInsightsCSVResults(insights, cfg, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInsightsTable(insights, intFmt, w)
		}, "Wrote table")
	}
	return nil
}

// writeInsightsJSONResults handles opening the file and calling the JSON writer.
func writeInsightsJSONResults(insights []schema.InsightRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		// 1. Prepare the data structure for JSON with rank added
		type JSONInsightRecord struct {
			Rank int `json:"rank"`
			schema.InsightRecord
		}

		output := make([]JSONInsightRecord, len(insights))
		for i, rec := range insights {
			output[i] = JSONInsightRecord{
				Rank:          i + 1,
				InsightRecord: rec,
			}
		}

		// 2. Use the generic JSON writer
		return writeJSON(w, output)
	}, "Wrote JSON")
}

// writeInsightsCSVResults handles opening the file and calling the CSV writer.
// The JSON-encoded summary stays out of the CSV so rows remain grep-friendly.
func writeInsightsCSVResults(insights []schema.InsightRecord, cfg *contract.Config, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"id",
			"build_id",
			"regressions",
			"anomalies",
			"recommendations",
			"created_at",
		}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, rec := range insights {
				row := []string{
					rec.ID,
					rec.BuildID,
					fmt.Sprintf(intFmt, rec.Regressions),
					fmt.Sprintf(intFmt, rec.Anomalies),
					fmt.Sprintf(intFmt, rec.Recommendations),
					rec.CreatedAt.Format(contract.DateTimeFormat),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeInsightsTable generates and writes the human-readable insights table.
func writeInsightsTable(insights []schema.InsightRecord, intFmt string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	defer func() { _ = table.Close() }()

	table.Header([]string{
		"Rank",
		"Build",
		"Regressions",
		"Anomalies",
		"Recommendations",
		"Created",
	})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, rec := range insights {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			shortID(rec.BuildID, 8),
			fmt.Sprintf(intFmt, rec.Regressions),
			fmt.Sprintf(intFmt, rec.Anomalies),
			fmt.Sprintf(intFmt, rec.Recommendations),
			rec.CreatedAt.Format(contract.DateTimeFormat),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d insights\n", len(insights)); err != nil {
		return err
	}
	return nil
}

// WriteStatusResults outputs history backend health, dispatching based on the output format configured.
func WriteStatusResults(status schema.HistoryStatus, cfg *contract.Config) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeStatusJSONResults(status, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeStatusCSVResults(status, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable summary
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusSummary(status, cfg, w)
		}, "Wrote status")
	}
	return nil
}

// writeStatusJSONResults handles opening the file and calling the JSON writer.
func writeStatusJSONResults(status schema.HistoryStatus, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, status)
	}, "Wrote JSON")
}

// writeStatusCSVResults handles opening the file and calling the CSV writer.
func writeStatusCSVResults(status schema.HistoryStatus, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"backend",
			"connected",
			"total_builds",
			"total_insights",
			"oldest_build",
			"latest_build",
		}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			oldest, latest := "", ""
			if !status.OldestBuildTime.IsZero() {
				oldest = status.OldestBuildTime.Format(contract.DateTimeFormat)
			}
			if !status.LastBuildTime.IsZero() {
				latest = status.LastBuildTime.Format(contract.DateTimeFormat)
			}
			return cw.Write([]string{
				status.Backend,
				strconv.FormatBool(status.Connected),
				strconv.Itoa(status.TotalBuilds),
				strconv.Itoa(status.TotalInsights),
				oldest,
				latest,
			})
		})
	}, "Wrote CSV")
}

// writeStatusSummary writes the backend health as readable lines.
func writeStatusSummary(status schema.HistoryStatus, cfg *contract.Config, writer io.Writer) error {
	state := "disconnected"
	if status.Connected {
		state = "connected"
	}
	if cfg.UseEmojis {
		if _, err := fmt.Fprintf(writer, "📦 History backend: %s (%s)\n", status.Backend, state); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(writer, "History backend: %s (%s)\n", status.Backend, state); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Total builds: %d\n", status.TotalBuilds); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Total insights: %d\n", status.TotalInsights); err != nil {
		return err
	}
	if !status.OldestBuildTime.IsZero() {
		if _, err := fmt.Fprintf(writer, "Oldest build: %s\n", status.OldestBuildTime.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	if !status.LastBuildTime.IsZero() {
		if _, err := fmt.Fprintf(writer, "Latest build: %s\n", status.LastBuildTime.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	if len(status.TableSizes) > 0 {
		if _, err := fmt.Fprintln(writer, "Table sizes:"); err != nil {
			return err
		}
		tables := make([]string, 0, len(status.TableSizes))
		for name := range status.TableSizes {
			tables = append(tables, name)
		}
		slices.Sort(tables)
		for _, name := range tables {
			if _, err := fmt.Fprintf(writer, "  %s: %d rows\n", name, status.TableSizes[name]); err != nil {
				return err
			}
		}
	}
	return nil
}
