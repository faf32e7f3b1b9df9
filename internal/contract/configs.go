package contract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/buildlens/schema"
)

// Default values for configuration.
const (
	DefaultHistoryLimit = 25
	MaxHistoryLimit     = 1000
	DefaultPrecision    = 1
	DefaultDataset      = "build-history"
)

// StdinPath is the report path that reads from standard input.
const StdinPath = "-"

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	ReportPath string
	Build      schema.BuildInfo
	Dataset    string

	Analysis schema.AnalysisOptions
	Bench    schema.BenchOptions
	Gate     schema.GateConfig

	HistoryLimit     int
	DryRun           bool
	FailOnRegression bool

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ReportPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Repo             string `mapstructure:"repo"`
	Branch           string `mapstructure:"branch"`
	Commit           string `mapstructure:"commit"`
	BuildNum         int    `mapstructure:"build-num"`
	Dataset          string `mapstructure:"dataset"`
	Limit            int    `mapstructure:"limit"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`

	// --- Analysis tuning, from flags or the config file ---
	Window               int     `mapstructure:"window"`
	RegressionThreshold  float64 `mapstructure:"regression-threshold"`
	ImprovementThreshold float64 `mapstructure:"improvement-threshold"`
	OutlierThreshold     float64 `mapstructure:"outlier-threshold"`
	TrendEpsilon         float64 `mapstructure:"trend-epsilon"`
	FailureRate          float64 `mapstructure:"failure-rate"`
	SlowTestMillis       float64 `mapstructure:"slow-test-threshold"`
	CoverageTarget       float64 `mapstructure:"coverage-target"`
	CoverageFloor        float64 `mapstructure:"coverage-floor"`

	// --- Fields from analyzeCmd.Flags() ---
	DryRun           bool `mapstructure:"dry-run"`
	FailOnRegression bool `mapstructure:"fail-on-regression"`

	// --- Fields from benchCmd.Flags() ---
	Warmup  int `mapstructure:"warmup"`
	Samples int `mapstructure:"samples"`

	// --- Fields from checkCmd.Flags() ---
	MaxRegressions int    `mapstructure:"max-regressions"`
	MaxSeverity    string `mapstructure:"max-severity"`
	GateStr        string `mapstructure:"gate-override"`
}

// Clone returns a deep copy of the Config struct.
// Every field is a value type, so copying the struct copies the lot.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processBuildInfo(cfg, input); err != nil {
		return err
	}
	if err := processAnalysisOptions(cfg, input); err != nil {
		return err
	}
	if err := processBenchOptions(cfg, input); err != nil {
		return err
	}
	if err := processGateConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the history backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs processes and validates all non-analysis fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.DryRun = input.DryRun
	cfg.FailOnRegression = input.FailOnRegression
	cfg.Width = input.Width

	cfg.ReportPath = strings.TrimSpace(input.ReportPathStr)
	if cfg.ReportPath == "" {
		cfg.ReportPath = StdinPath
	}

	cfg.Dataset = strings.TrimSpace(input.Dataset)
	if cfg.Dataset == "" {
		cfg.Dataset = DefaultDataset
	}

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. HistoryLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxHistoryLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxHistoryLimit, input.Limit)
	}
	cfg.HistoryLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	// --- 3. Backend Validation ---
	return validateBackendConfig(cfg, input)
}

// processBuildInfo transfers the build identity fields.
func processBuildInfo(cfg *Config, input *ConfigRawInput) error {
	cfg.Build = schema.BuildInfo{
		Repo:     strings.TrimSpace(input.Repo),
		Branch:   strings.TrimSpace(input.Branch),
		Commit:   strings.TrimSpace(input.Commit),
		BuildNum: input.BuildNum,
	}
	if cfg.Build.BuildNum < 0 {
		return fmt.Errorf("build-num cannot be negative (received %d)", cfg.Build.BuildNum)
	}
	return nil
}

// processAnalysisOptions converts the raw tuning knobs into validated AnalysisOptions.
func processAnalysisOptions(cfg *Config, input *ConfigRawInput) error {
	opts := schema.AnalysisOptions{
		BaselineWindow:       input.Window,
		RegressionThreshold:  input.RegressionThreshold,
		ImprovementThreshold: input.ImprovementThreshold,
		OutlierThreshold:     input.OutlierThreshold,
		TrendEpsilon:         input.TrendEpsilon,
		FailureRateThreshold: input.FailureRate,
		SlowTestThreshold:    input.SlowTestMillis,
		LineCoverageTarget:   input.CoverageTarget,
		FuncCoverageTarget:   input.CoverageTarget,
		FileCoverageFloor:    input.CoverageFloor,
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if opts.FailureRateThreshold < 0 || opts.FailureRateThreshold > 1 {
		return fmt.Errorf("failure-rate must be between 0.0 and 1.0 (received %g)", opts.FailureRateThreshold)
	}
	if opts.SlowTestThreshold <= 0 {
		return fmt.Errorf("slow-test-threshold must be greater than 0 (received %g)", opts.SlowTestThreshold)
	}
	if opts.LineCoverageTarget < 0 || opts.LineCoverageTarget > 100 {
		return fmt.Errorf("coverage-target must be between 0.0 and 100.0 (received %g)", opts.LineCoverageTarget)
	}
	if opts.FileCoverageFloor < 0 || opts.FileCoverageFloor > 100 {
		return fmt.Errorf("coverage-floor must be between 0.0 and 100.0 (received %g)", opts.FileCoverageFloor)
	}
	cfg.Analysis = opts
	return nil
}

// processBenchOptions converts the raw harness knobs into validated BenchOptions.
func processBenchOptions(cfg *Config, input *ConfigRawInput) error {
	opts := schema.BenchOptions{
		WarmupRuns: input.Warmup,
		SampleRuns: input.Samples,
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	cfg.Bench = opts
	return nil
}

// processGateConfig converts the raw gate input into the final cfg.Gate policy.
// Command-line --gate-override flag takes precedence over individual settings.
func processGateConfig(cfg *Config, input *ConfigRawInput) error {
	gate := schema.GateConfig{
		MaxRegressions: input.MaxRegressions,
		MaxSeverity:    schema.Severity(strings.ToLower(input.MaxSeverity)),
	}

	// Override with command-line flag if provided (takes precedence)
	if input.GateStr != "" {
		parsed, err := parseGateOverrideString(input.GateStr, gate)
		if err != nil {
			return fmt.Errorf("invalid --gate format: %w", err)
		}
		gate = parsed
	}

	if gate.MaxRegressions < 0 {
		return fmt.Errorf("max-regressions cannot be negative (received %d)", gate.MaxRegressions)
	}
	if _, ok := schema.ValidSeverities[gate.MaxSeverity]; !ok {
		return fmt.Errorf("invalid max-severity '%s'. must be low, medium, high, critical", input.MaxSeverity)
	}

	cfg.Gate = gate
	return nil
}

// parseGateOverrideString parses a string like "regressions:2,severity:high"
// into a GateConfig, starting from the given base policy.
func parseGateOverrideString(s string, base schema.GateConfig) (schema.GateConfig, error) {
	gate := base

	parts := strings.SplitSeq(s, ",")
	for part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		keyValue := strings.Split(part, ":")
		if len(keyValue) != 2 {
			return gate, fmt.Errorf("invalid gate rule '%s', expected 'rule:value'", part)
		}

		key := strings.TrimSpace(keyValue[0])
		value := strings.TrimSpace(keyValue[1])

		switch strings.ToLower(key) {
		case "regressions":
			n, err := strconv.Atoi(value)
			if err != nil {
				return gate, fmt.Errorf("invalid regressions value '%s': %w", value, err)
			}
			gate.MaxRegressions = n
		case "severity":
			gate.MaxSeverity = schema.Severity(strings.ToLower(value))
		default:
			return gate, fmt.Errorf("invalid gate rule '%s', must be regressions or severity", key)
		}
	}

	return gate, nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
