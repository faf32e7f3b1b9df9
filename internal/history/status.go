package history

import (
	"fmt"
	"time"

	"github.com/huangsam/buildlens/schema"
)

// Status returns status information about the history store.
func (s *Store) Status() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}

	if s.backend == schema.NoneBackend || s.db == nil {
		return status, nil
	}

	// Get total builds
	buildsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(buildsTable, s.backend))
	row := s.db.QueryRow(buildsQuery)
	if err := row.Scan(&status.TotalBuilds); err != nil {
		return status, fmt.Errorf("failed to get total builds: %w", err)
	}

	// Get total insights
	insightsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(insightsTable, s.backend))
	row = s.db.QueryRow(insightsQuery)
	if err := row.Scan(&status.TotalInsights); err != nil {
		return status, fmt.Errorf("failed to get total insights: %w", err)
	}

	if status.TotalBuilds > 0 {
		// Get last build time
		lastQuery := fmt.Sprintf("SELECT created_at FROM %s ORDER BY created_at DESC LIMIT 1", quoteTableName(buildsTable, s.backend))
		lastBuildTime, err := s.scanStoredTime(lastQuery)
		if err != nil {
			return status, fmt.Errorf("failed to get last build time: %w", err)
		}
		status.LastBuildTime = lastBuildTime

		// Get oldest build time
		oldestQuery := fmt.Sprintf("SELECT created_at FROM %s ORDER BY created_at ASC LIMIT 1", quoteTableName(buildsTable, s.backend))
		oldestBuildTime, err := s.scanStoredTime(oldestQuery)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest build time: %w", err)
		}
		status.OldestBuildTime = oldestBuildTime
	}

	// Get table sizes
	tables := []string{buildsTable, insightsTable}
	for _, table := range tables {
		quotedTable := quoteTableName(table, s.backend)
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTable)
		row = s.db.QueryRow(countQuery)
		var count int64
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// scanStoredTime runs a single-row query for a created_at column and
// decodes it per backend.
func (s *Store) scanStoredTime(query string) (time.Time, error) {
	row := s.db.QueryRow(query)

	switch s.backend {
	case schema.SQLiteBackend:
		var raw string
		if err := row.Scan(&raw); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, raw)
	default: // MySQL and PostgreSQL store as native datetime
		var t time.Time
		if err := row.Scan(&t); err != nil {
			return time.Time{}, err
		}
		return t, nil
	}
}
