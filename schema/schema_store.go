package schema

import "time"

// BuildRecord is a row from the buildlens_builds table.
type BuildRecord struct {
	ID        string       `json:"id"` // UUID assigned on insert
	Repo      string       `json:"repo"`
	Branch    string       `json:"branch"`
	Commit    string       `json:"commit"`
	BuildNum  int          `json:"build_num"`
	Metrics   BuildMetrics `json:"metrics"`
	CreatedAt time.Time    `json:"created_at"`
}

// InsightRecord is a row from the buildlens_insights table. Summary holds
// the JSON-encoded BuildAnalysis so past verdicts can be replayed.
type InsightRecord struct {
	ID              string    `json:"id"` // UUID assigned on insert
	BuildID         string    `json:"build_id"`
	Summary         string    `json:"summary"`
	Regressions     int       `json:"regressions"`
	Anomalies       int       `json:"anomalies"`
	Recommendations int       `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
}

// HistoryStatus reports the state of the history store.
type HistoryStatus struct {
	Backend         string           `json:"backend"`
	Connected       bool             `json:"connected"`
	TotalBuilds     int              `json:"total_builds"`
	TotalInsights   int              `json:"total_insights"`
	LastBuildTime   time.Time        `json:"last_build_time"`
	OldestBuildTime time.Time        `json:"oldest_build_time"`
	TableSizes      map[string]int64 `json:"table_sizes"`
}
