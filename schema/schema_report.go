package schema

import (
	"encoding/json"
	"fmt"
)

// BuildInfo identifies the build a report came from.
type BuildInfo struct {
	Repo     string `json:"repo"`      // Repository name or slug
	Branch   string `json:"branch"`    // Branch the build ran on
	Commit   string `json:"commit"`    // Commit hash that was built
	BuildNum int    `json:"build_num"` // CI build number
}

// SlowTest is a test whose runtime stood out in the report.
type SlowTest struct {
	Name     string  `json:"name"`     // Fully qualified test name
	Duration float64 `json:"duration"` // Runtime in milliseconds
}

// TestFailure is a single failed test with its failure category.
type TestFailure struct {
	Name     string          `json:"name"`
	Category FailureCategory `json:"category"`
}

// FileCoverage is the line coverage of one source file.
type FileCoverage struct {
	Path string  `json:"path"`
	Line float64 `json:"line"` // Line coverage percentage
}

// CoverageReport aggregates coverage figures for a build.
// A zero value means the figure was not reported.
type CoverageReport struct {
	Line     float64        `json:"line"`     // Line coverage percentage
	Branch   float64        `json:"branch"`   // Branch coverage percentage
	Function float64        `json:"function"` // Function coverage percentage
	Files    []FileCoverage `json:"files,omitempty"`
}

// BuildReport is the full input surface of one analyzed build: identity,
// measured metrics, and the detail needed by the recommendation rules.
type BuildReport struct {
	Build     BuildInfo      `json:"build"`
	Metrics   BuildMetrics   `json:"metrics"`
	SlowTests []SlowTest     `json:"slow_tests,omitempty"`
	Failures  []TestFailure  `json:"failures,omitempty"`
	Coverage  CoverageReport `json:"coverage"`
}

// ParseBuildReport decodes a JSON build report. Fields absent from the
// document stay at their zero value, matching how unreported metrics
// are treated everywhere else.
func ParseBuildReport(data []byte) (BuildReport, error) {
	var report BuildReport
	if err := json.Unmarshal(data, &report); err != nil {
		return BuildReport{}, fmt.Errorf("failed to parse build report: %w", err)
	}
	return report, nil
}
