// Package history persists build records and analysis insights.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/schema"
)

// Table names for build history.
const (
	buildsTable   = "buildlens_builds"
	insightsTable = "buildlens_insights"
)

// sqliteTimeFormat pads fractional seconds to nine digits so that stored
// strings sort in chronological order.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements the HistoryStore interface.
type Store struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &Store{} // Compile-time check

// NewStore creates a new HistoryStore with the specified backend.
func NewStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname?parseTime=true", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=... user=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled history
		return &Store{
			db:         nil,
			backend:    backend,
			driverName: "",
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database server is running and accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	// Create the table schemas
	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &Store{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createHistoryTables creates the build history tables and indexes.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{buildsTable, getCreateBuildsQuery(backend)},
		{insightsTable, getCreateInsightsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	// MySQL declares its indexes inline; the other backends support IF NOT EXISTS.
	if backend != schema.MySQLBackend {
		indexes := []string{
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_builds_repo_created ON %s (repo, created_at)`, quoteTableName(buildsTable, backend)),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_insights_build ON %s (build_id)`, quoteTableName(insightsTable, backend)),
		}
		for _, index := range indexes {
			if _, err := db.Exec(index); err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}
	}

	return nil
}

// getCreateBuildsQuery returns the CREATE TABLE query for buildlens_builds.
func getCreateBuildsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(buildsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(36) PRIMARY KEY,
				repo VARCHAR(255) NOT NULL,
				branch VARCHAR(255),
				commit_hash VARCHAR(64),
				build_num INT,
				total_duration_ms DOUBLE NOT NULL,
				test_duration_ms DOUBLE NOT NULL,
				build_duration_ms DOUBLE NOT NULL,
				tests_run INT NOT NULL,
				tests_passed INT NOT NULL,
				tests_failed INT NOT NULL,
				coverage DOUBLE NOT NULL,
				created_at DATETIME(6) NOT NULL,
				INDEX idx_builds_repo_created (repo, created_at)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(36) PRIMARY KEY,
				repo TEXT NOT NULL,
				branch TEXT,
				commit_hash TEXT,
				build_num INT,
				total_duration_ms DOUBLE PRECISION NOT NULL,
				test_duration_ms DOUBLE PRECISION NOT NULL,
				build_duration_ms DOUBLE PRECISION NOT NULL,
				tests_run INT NOT NULL,
				tests_passed INT NOT NULL,
				tests_failed INT NOT NULL,
				coverage DOUBLE PRECISION NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				repo TEXT NOT NULL,
				branch TEXT,
				commit_hash TEXT,
				build_num INTEGER,
				total_duration_ms REAL NOT NULL,
				test_duration_ms REAL NOT NULL,
				build_duration_ms REAL NOT NULL,
				tests_run INTEGER NOT NULL,
				tests_passed INTEGER NOT NULL,
				tests_failed INTEGER NOT NULL,
				coverage REAL NOT NULL,
				created_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateInsightsQuery returns the CREATE TABLE query for buildlens_insights.
func getCreateInsightsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(insightsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(36) PRIMARY KEY,
				build_id VARCHAR(36) NOT NULL,
				summary TEXT NOT NULL,
				regressions INT NOT NULL,
				anomalies INT NOT NULL,
				recommendations INT NOT NULL,
				created_at DATETIME(6) NOT NULL,
				INDEX idx_insights_build (build_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(36) PRIMARY KEY,
				build_id VARCHAR(36) NOT NULL,
				summary TEXT NOT NULL,
				regressions INT NOT NULL,
				anomalies INT NOT NULL,
				recommendations INT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				build_id TEXT NOT NULL,
				summary TEXT NOT NULL,
				regressions INTEGER NOT NULL,
				anomalies INTEGER NOT NULL,
				recommendations INTEGER NOT NULL,
				created_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// Ping verifies the underlying connection is usable.
func (s *Store) Ping() error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}
	return s.db.Ping()
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("\"%s\"", name)
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite
		return fmt.Sprintf("\"%s\"", name)
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(sqliteTimeFormat)
	default:
		return t
	}
}
