package outwriter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/buildlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGateVerdictPassed(t *testing.T) {
	cfg := testConfig()

	var buf bytes.Buffer
	err := writeGateVerdict(schema.GateResult{Passed: true}, cfg, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Gate passed")
	assert.NotContains(t, buf.String(), "✅")
}

func TestWriteGateVerdictPassedWithEmojis(t *testing.T) {
	cfg := testConfig()
	cfg.UseEmojis = true

	var buf bytes.Buffer
	err := writeGateVerdict(schema.GateResult{Passed: true}, cfg, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "✅ Gate passed")
}

func TestWriteGateVerdictFailed(t *testing.T) {
	cfg := testConfig()
	result := schema.GateResult{
		Passed: false,
		Violations: []schema.GateViolation{
			{Rule: "max-regressions", Message: "2 regressions exceed the allowed 0"},
			{Rule: "max-severity", Message: "critical anomaly detected"},
		},
	}

	var buf bytes.Buffer
	err := writeGateVerdict(result, cfg, &buf)
	require.NoError(t, err)
	output := buf.String()

	assert.Contains(t, output, "Gate failed with 2 violations")
	assert.Contains(t, output, "- [max-regressions] 2 regressions exceed the allowed 0")
	assert.Contains(t, output, "- [max-severity] critical anomaly detected")
}

func TestWriteGateResultsCSVToFile(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "gate.csv")
	result := schema.GateResult{
		Passed: false,
		Violations: []schema.GateViolation{
			{Rule: "max-regressions", Message: "too many regressions"},
		},
	}

	err := WriteGateResults(result, cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2) // header + 1 violation
	assert.Contains(t, lines[0], "rule")
	assert.Contains(t, lines[1], "max-regressions")
}

func TestWriteGateResultsJSONToFile(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "gate.json")

	err := WriteGateResults(schema.GateResult{Passed: true}, cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"passed": true`)
}
