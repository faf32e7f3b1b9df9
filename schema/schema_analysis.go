package schema

// MetricComparison compares one metric against its baseline value.
type MetricComparison struct {
	Metric   MetricName       `json:"metric"`
	Current  float64          `json:"current"`
	Baseline float64          `json:"baseline"`
	Ratio    float64          `json:"ratio"`  // current / baseline
	Change   float64          `json:"change"` // (ratio - 1) * 100, rounded to 1 decimal
	Status   ComparisonStatus `json:"status"`
}

// ComparisonSummary counts comparison outcomes across all metrics.
type ComparisonSummary struct {
	Regressions  int `json:"regressions"`
	Improvements int `json:"improvements"`
	Stable       int `json:"stable"`
}

// ComparisonResult holds the per-metric comparison against the baseline.
// When HasBaseline is false no other field is populated.
type ComparisonResult struct {
	HasBaseline  bool                            `json:"has_baseline"`
	Metrics      map[MetricName]MetricComparison `json:"metrics,omitempty"`
	Summary      ComparisonSummary               `json:"summary"`
	Regressions  []MetricName                    `json:"regressions,omitempty"`  // sorted by name
	Improvements []MetricName                    `json:"improvements,omitempty"` // sorted by name
}

// MetricTrend is the direction of one metric over recent history.
type MetricTrend struct {
	Metric MetricName     `json:"metric"`
	Change float64        `json:"change"` // half-to-half change in percent
	First  float64        `json:"first"`  // mean of the older half
	Second float64        `json:"second"` // mean of the newer half
	Dir    TrendDirection `json:"direction"`
}

// TrendResult holds per-metric trend directions. When HasTrend is false
// the history was too short to say anything.
type TrendResult struct {
	HasTrend bool                       `json:"has_trend"`
	Points   int                        `json:"points"` // history entries considered
	Metrics  map[MetricName]MetricTrend `json:"metrics,omitempty"`
}

// Anomaly is a single rule violation against the baseline.
type Anomaly struct {
	Type     AnomalyType `json:"type"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
	Value    float64     `json:"value"`    // observed value
	Expected float64     `json:"expected"` // baseline reference value
}

// Recommendation is one piece of actionable advice derived from a report.
type Recommendation struct {
	Type     RecommendationType `json:"type"`
	Severity Severity           `json:"severity"`
	Message  string             `json:"message"`
}

// BuildAnalysis is the full output of analyzing one build against history.
type BuildAnalysis struct {
	Build           BuildInfo        `json:"build"`
	Current         BuildMetrics     `json:"current"`
	Baseline        *Baseline        `json:"baseline,omitempty"`
	Comparison      ComparisonResult `json:"comparison"`
	Trends          TrendResult      `json:"trends"`
	Anomalies       []Anomaly        `json:"anomalies,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// MemoryEntry is an analysis packaged for a memory or knowledge store:
// a dataset name, a readable summary, and structured metadata.
type MemoryEntry struct {
	Dataset  string         `json:"dataset"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// GateViolation is one reason a gate check failed.
type GateViolation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// GateResult is the verdict of the check command.
type GateResult struct {
	Passed     bool            `json:"passed"`
	Violations []GateViolation `json:"violations,omitempty"`
}
