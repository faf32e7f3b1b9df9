// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import "github.com/huangsam/buildlens/schema"

// HistoryStore defines the interface for persisting builds and insights.
// This allows the storage layer to be mocked for testing.
type HistoryStore interface {
	// --- Builds ---

	// RecordBuild persists one build record and returns its ID.
	// A blank record ID is filled with a fresh UUID before insert.
	RecordBuild(record schema.BuildRecord) (string, error)

	// RecentBuilds returns up to limit builds for a repository,
	// newest first.
	RecentBuilds(repo string, limit int) ([]schema.BuildRecord, error)

	// AllBuilds returns every stored build, newest first.
	AllBuilds(limit int) ([]schema.BuildRecord, error)

	// --- Insights ---

	// RecordInsight persists the analysis summary for a build.
	RecordInsight(record schema.InsightRecord) (string, error)

	// AllInsights returns every stored insight, newest first.
	AllInsights(limit int) ([]schema.InsightRecord, error)

	// --- Lifecycle / Health ---

	// Clear removes all builds and insights.
	Clear() error

	// Status returns status information about the history store.
	Status() (schema.HistoryStatus, error)

	// Ping verifies the underlying connection is usable.
	Ping() error

	// Close closes the underlying connection.
	Close() error
}
