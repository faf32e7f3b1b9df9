package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/schema"
	"golang.org/x/term"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// formatMetricValue renders a metric value with the units its name implies.
// Durations collapse to a compact ms/s form, counts drop the fraction and
// coverage carries a percent sign.
func formatMetricValue(name schema.MetricName, value float64, fmtFloat func(float64) string) string {
	switch name {
	case schema.MetricTotalDuration, schema.MetricTestDuration, schema.MetricBuildDuration:
		return schema.FormatMillis(value)
	case schema.MetricTestsRun, schema.MetricTestsPassed, schema.MetricTestsFailed:
		return fmt.Sprintf("%.0f", value)
	case schema.MetricCoverage:
		return fmtFloat(value) + "%"
	default:
		return fmtFloat(value)
	}
}

// deltaSprinters returns the color closures used for delta columns.
// Without colors they degrade to plain fmt.Sprint.
func deltaSprinters(useColors bool) (red, green, yellow func(...any) string) {
	if useColors {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
		yellow = color.New(color.FgYellow).SprintFunc()
	} else {
		red = fmt.Sprint
		green = fmt.Sprint
		yellow = fmt.Sprint
	}
	return red, green, yellow
}

// formatChange renders a percent change with an explicit sign and a
// direction marker. Positive changes show red, negative green.
func formatChange(change float64, precision int, red, green, yellow func(...any) string) string {
	switch {
	case change > 0:
		// Explicitly add + sign
		return red(fmt.Sprintf("+%.*f%% ▲", precision, change))
	case change < 0:
		// Keeps the - sign from the float
		return green(fmt.Sprintf("%.*f%% ▼", precision, change))
	default:
		// For 0.0 changes, format simply without an indicator
		return yellow(fmt.Sprintf("%.*f%%", precision, 0.0))
	}
}

// shortID trims long identifiers such as commit hashes and UUIDs for
// table display. Anything at or under width passes through unchanged.
func shortID(id string, width int) string {
	if len(id) > width {
		return id[:width]
	}
	return id
}

// getMaxTableRepoWidth calculates the maximum width for repo names in table output
// based on terminal width and table configuration.
func getMaxTableRepoWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns with table formatting:
	// rank, branch, commit, build number, duration, tests and coverage.
	baseWidth := 60

	// Calculate available space for the repo column
	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable repo width
		return 12
	}
	if available > 40 {
		// Maximum repo width to prevent overly long names
		return 40
	}
	return available
}
