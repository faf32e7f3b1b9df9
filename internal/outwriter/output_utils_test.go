package outwriter

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a config with text output and a fixed width so table
// rendering does not depend on the terminal running the tests.
func testConfig() *contract.Config {
	return &contract.Config{
		Output:         schema.TextOut,
		Precision:      1,
		Width:          100,
		HistoryBackend: schema.SQLiteBackend,
	}
}

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{
			name:      "precision 1",
			precision: 1,
			value:     3.14159,
			expected:  "3.1",
		},
		{
			name:      "precision 2",
			precision: 2,
			value:     3.14159,
			expected:  "3.14",
		},
		{
			name:      "precision 0",
			precision: 0,
			value:     3.14159,
			expected:  "3",
		},
		{
			name:      "negative value",
			precision: 2,
			value:     -42.567,
			expected:  "-42.57",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, map[string]int{"answer": 42})
	require.NoError(t, err)

	var result map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, 42, result["answer"])
	// Indented output spans multiple lines
	assert.Greater(t, strings.Count(buf.String(), "\n"), 1)
}

func TestWriteWithFileStdout(t *testing.T) {
	called := false
	err := writeWithFile("", func(w io.Writer) error {
		called = true
		assert.Equal(t, os.Stdout, w)
		return nil
	}, "Wrote test")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestWriteWithFileCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello\n")
		return err
	}, "Wrote test")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))
}

func TestFormatMetricValue(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	tests := []struct {
		name     string
		metric   schema.MetricName
		value    float64
		expected string
	}{
		{
			name:     "duration over a second",
			metric:   schema.MetricTotalDuration,
			value:    2500,
			expected: "2.5s",
		},
		{
			name:     "duration under a second",
			metric:   schema.MetricBuildDuration,
			value:    850,
			expected: "850ms",
		},
		{
			name:     "test count drops fraction",
			metric:   schema.MetricTestsRun,
			value:    120,
			expected: "120",
		},
		{
			name:     "coverage gets percent sign",
			metric:   schema.MetricCoverage,
			value:    81.25,
			expected: "81.2%",
		},
		{
			name:     "unknown metric uses float formatter",
			metric:   schema.MetricName("custom"),
			value:    3.75,
			expected: "3.8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMetricValue(tt.metric, tt.value, fmtFloat))
		})
	}
}

func TestFormatChange(t *testing.T) {
	red, green, yellow := deltaSprinters(false)

	assert.Equal(t, "+25.0% ▲", formatChange(25.0, 1, red, green, yellow))
	assert.Equal(t, "-10.5% ▼", formatChange(-10.5, 1, red, green, yellow))
	assert.Equal(t, "0.0%", formatChange(0, 1, red, green, yellow))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc1234", shortID("abc1234def5678", 7))
	assert.Equal(t, "abc", shortID("abc", 7))
	assert.Equal(t, "", shortID("", 7))
}

func TestGetMaxTableRepoWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected int
	}{
		{
			name:     "narrow override clamps to minimum",
			width:    40,
			expected: 12,
		},
		{
			name:     "normal override leaves room",
			width:    90,
			expected: 30,
		},
		{
			name:     "wide override clamps to maximum",
			width:    200,
			expected: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Width = tt.width
			assert.Equal(t, tt.expected, getMaxTableRepoWidth(cfg))
		})
	}
}
