package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/huangsam/buildlens/schema"
)

// buildColumns is the column list shared by build inserts and selects.
const buildColumns = "id, repo, branch, commit_hash, build_num, total_duration_ms, test_duration_ms, build_duration_ms, tests_run, tests_passed, tests_failed, coverage, created_at"

// insightColumns is the column list shared by insight inserts and selects.
const insightColumns = "id, build_id, summary, regressions, anomalies, recommendations, created_at"

// RecordBuild persists one build record and returns its ID.
func (s *Store) RecordBuild(record schema.BuildRecord) (string, error) {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return record.ID, nil
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	quotedTableName := quoteTableName(buildsTable, s.backend)

	var query string
	switch s.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			quotedTableName, buildColumns)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			quotedTableName, buildColumns)
	}

	m := record.Metrics
	args := []any{
		record.ID, record.Repo, record.Branch, record.Commit, record.BuildNum,
		m.TotalDuration, m.TestDuration, m.BuildDuration,
		m.TestsRun, m.TestsPassed, m.TestsFailed, m.Coverage,
		formatTime(record.CreatedAt, s.backend),
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return "", fmt.Errorf("failed to insert build record: %w", err)
	}

	return record.ID, nil
}

// RecentBuilds returns up to limit builds for a repository, newest first.
func (s *Store) RecentBuilds(repo string, limit int) ([]schema.BuildRecord, error) {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be at least 1, got %d", limit)
	}

	quotedTableName := quoteTableName(buildsTable, s.backend)

	var query string
	switch s.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE repo = $1 ORDER BY created_at DESC LIMIT %d`,
			buildColumns, quotedTableName, limit)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE repo = ? ORDER BY created_at DESC LIMIT %d`,
			buildColumns, quotedTableName, limit)
	}

	rows, err := s.db.Query(query, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to query builds for repo %q: %w", repo, err)
	}
	defer func() { _ = rows.Close() }()

	return s.scanBuildRows(rows)
}

// AllBuilds returns up to limit stored builds across repositories, newest first.
func (s *Store) AllBuilds(limit int) ([]schema.BuildRecord, error) {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be at least 1, got %d", limit)
	}

	quotedTableName := quoteTableName(buildsTable, s.backend)
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC LIMIT %d`,
		buildColumns, quotedTableName, limit)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query builds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return s.scanBuildRows(rows)
}

// scanBuildRows collects build records from a result set.
func (s *Store) scanBuildRows(rows *sql.Rows) ([]schema.BuildRecord, error) {
	var results []schema.BuildRecord

	for rows.Next() {
		var record schema.BuildRecord
		m := &record.Metrics

		switch s.backend {
		case schema.SQLiteBackend:
			var createdAtStr string
			if err := rows.Scan(&record.ID, &record.Repo, &record.Branch, &record.Commit, &record.BuildNum,
				&m.TotalDuration, &m.TestDuration, &m.BuildDuration,
				&m.TestsRun, &m.TestsPassed, &m.TestsFailed, &m.Coverage, &createdAtStr); err != nil {
				return nil, fmt.Errorf("failed to scan build record: %w", err)
			}
			createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse created_at: %w", err)
			}
			record.CreatedAt = createdAt
		default: // MySQL and PostgreSQL store as native datetime
			if err := rows.Scan(&record.ID, &record.Repo, &record.Branch, &record.Commit, &record.BuildNum,
				&m.TotalDuration, &m.TestDuration, &m.BuildDuration,
				&m.TestsRun, &m.TestsPassed, &m.TestsFailed, &m.Coverage, &record.CreatedAt); err != nil {
				return nil, fmt.Errorf("failed to scan build record: %w", err)
			}
		}

		record.Metrics.Timestamp = record.CreatedAt
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating build records: %w", err)
	}

	return results, nil
}

// RecordInsight persists the analysis summary for a build.
func (s *Store) RecordInsight(record schema.InsightRecord) (string, error) {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return record.ID, nil
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	quotedTableName := quoteTableName(insightsTable, s.backend)

	var query string
	switch s.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			quotedTableName, insightColumns)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			quotedTableName, insightColumns)
	}

	args := []any{
		record.ID, record.BuildID, record.Summary,
		record.Regressions, record.Anomalies, record.Recommendations,
		formatTime(record.CreatedAt, s.backend),
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return "", fmt.Errorf("failed to insert insight record: %w", err)
	}

	return record.ID, nil
}

// AllInsights returns up to limit stored insights, newest first.
func (s *Store) AllInsights(limit int) ([]schema.InsightRecord, error) {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be at least 1, got %d", limit)
	}

	quotedTableName := quoteTableName(insightsTable, s.backend)
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC LIMIT %d`,
		insightColumns, quotedTableName, limit)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query insights: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.InsightRecord

	for rows.Next() {
		var record schema.InsightRecord

		switch s.backend {
		case schema.SQLiteBackend:
			var createdAtStr string
			if err := rows.Scan(&record.ID, &record.BuildID, &record.Summary,
				&record.Regressions, &record.Anomalies, &record.Recommendations, &createdAtStr); err != nil {
				return nil, fmt.Errorf("failed to scan insight record: %w", err)
			}
			createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse created_at: %w", err)
			}
			record.CreatedAt = createdAt
		default: // MySQL and PostgreSQL store as native datetime
			if err := rows.Scan(&record.ID, &record.BuildID, &record.Summary,
				&record.Regressions, &record.Anomalies, &record.Recommendations, &record.CreatedAt); err != nil {
				return nil, fmt.Errorf("failed to scan insight record: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating insight records: %w", err)
	}

	return results, nil
}

// Clear removes all builds and insights.
func (s *Store) Clear() error {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}

	// Insights reference builds, so they go first.
	for _, table := range []string{insightsTable, buildsTable} {
		query := fmt.Sprintf("DELETE FROM %s", quoteTableName(table, s.backend))
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}

	return nil
}
