package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/huangsam/buildlens/schema"
)

// Display label constants.
const (
	CriticalValue = "Critical" // Critical severity
	HighValue     = "High"     // High severity
	MediumValue   = "Medium"   // Medium severity
	LowValue      = "Low"      // Low severity

	RegressionValue  = "Regression"  // Metric regressed against baseline
	ImprovementValue = "Improvement" // Metric improved against baseline
	StableValue      = "Stable"      // Metric within thresholds
)

// Color variables for console output.
var (
	CriticalColor    = color.New(color.FgRed, color.Bold)     // criticalColor represents standard danger.
	HighColor        = color.New(color.FgMagenta, color.Bold) // highColor represents strong, distinct warning.
	MediumColor      = color.New(color.FgYellow)              // mediumColor represents standard caution, not bold.
	LowColor         = color.New(color.FgCyan)                // lowColor represents informational / low-priority signal.
	ImprovementColor = color.New(color.FgGreen)               // improvementColor represents a win worth noticing.
)

// GetPlainLabel returns a plain text label for a finding severity.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(severity schema.Severity) string {
	switch severity {
	case schema.SeverityCritical:
		return CriticalValue
	case schema.SeverityHigh:
		return HighValue
	case schema.SeverityMedium:
		return MediumValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(severity schema.Severity) string {
	text := GetPlainLabel(severity)

	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case MediumValue:
		return MediumColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// GetPlainStatus returns a plain text label for a comparison status.
func GetPlainStatus(status schema.ComparisonStatus) string {
	switch status {
	case schema.StatusRegression:
		return RegressionValue
	case schema.StatusImprovement:
		return ImprovementValue
	default:
		return StableValue
	}
}

// GetColorStatus returns a colored text label for a comparison status.
func GetColorStatus(status schema.ComparisonStatus) string {
	text := GetPlainStatus(status)

	switch text {
	case RegressionValue:
		return CriticalColor.Sprint(text)
	case ImprovementValue:
		return ImprovementColor.Sprint(text)
	default: // "Stable"
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path and format type. It falls back to os.Stdout on error.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".buildlens_history.db"
	}
	return filepath.Join(homeDir, ".buildlens_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
// Without this check, small maxWidth values could cause slice bounds errors in the truncation calculation.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
