package schema

// Custom string types for type safety.
type (
	// MetricName identifies one tracked build metric.
	MetricName string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for build history.
	DatabaseBackend string

	// Severity ranks how urgent a finding is.
	Severity string

	// ComparisonStatus classifies a metric against its baseline.
	ComparisonStatus string

	// TrendDirection describes where a metric series is heading.
	TrendDirection string

	// AnomalyType identifies the rule that flagged an anomaly.
	AnomalyType string

	// RecommendationType identifies the rule that produced a recommendation.
	RecommendationType string

	// FailureCategory classifies a test failure.
	FailureCategory string
)

// Tracked build metrics. Durations are milliseconds, coverage is a percentage.
const (
	MetricTotalDuration MetricName = "total_duration"
	MetricTestDuration  MetricName = "test_duration"
	MetricBuildDuration MetricName = "build_duration"
	MetricTestsRun      MetricName = "tests_run"
	MetricTestsPassed   MetricName = "tests_passed"
	MetricTestsFailed   MetricName = "tests_failed"
	MetricCoverage      MetricName = "coverage"
)

// TrackedMetrics lists the metrics that take part in baseline comparison
// and trend analysis, in canonical iteration order.
var TrackedMetrics = []MetricName{
	MetricTotalDuration,
	MetricTestDuration,
	MetricBuildDuration,
	MetricTestsRun,
	MetricCoverage,
}

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// All severities supported, lowest to highest.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityOrder ranks severities for comparison. Unknown severities rank
// below low so malformed input never trips a gate.
var severityOrder = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// ValidSeverities lists all valid severities.
var ValidSeverities = map[Severity]struct{}{
	SeverityLow:      {},
	SeverityMedium:   {},
	SeverityHigh:     {},
	SeverityCritical: {},
}

// AtLeast reports whether s ranks at or above min.
func (s Severity) AtLeast(min Severity) bool {
	return severityOrder[s] >= severityOrder[min]
}

// All comparison statuses supported.
const (
	StatusImprovement ComparisonStatus = "improvement"
	StatusStable      ComparisonStatus = "stable"
	StatusRegression  ComparisonStatus = "regression"
)

// All trend directions supported.
const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// All anomaly types supported.
const (
	AnomalyDurationSpike     AnomalyType = "DURATION_SPIKE"
	AnomalyTestCountIncrease AnomalyType = "TEST_COUNT_INCREASE"
	AnomalyTestCountDecrease AnomalyType = "TEST_COUNT_DECREASE"
	AnomalyCoverageDrop      AnomalyType = "COVERAGE_DROP"
)

// All recommendation types supported.
const (
	RecommendFailureRate       RecommendationType = "FAILURE_RATE"
	RecommendSlowTests         RecommendationType = "SLOW_TESTS"
	RecommendTimeoutFailures   RecommendationType = "TIMEOUT_FAILURES"
	RecommendLineCoverage      RecommendationType = "LINE_COVERAGE"
	RecommendUntestedFunctions RecommendationType = "UNTESTED_FUNCTIONS"
	RecommendLowCoverageFiles  RecommendationType = "LOW_COVERAGE_FILES"
)

// All failure categories supported.
const (
	FailureTimeout   FailureCategory = "TIMEOUT"
	FailureAssertion FailureCategory = "ASSERTION"
	FailureSetup     FailureCategory = "SETUP"
	FailureUnknown   FailureCategory = "UNKNOWN"
)
