package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/buildlens/schema"
)

func TestMigrate_NoneBackend(t *testing.T) {
	err := Migrate(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrate_SQLite(t *testing.T) {
	// Create a temporary database file for testing
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test_migration.db")

	// Run migration to latest version (should go to version 2)
	err := Migrate(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	// Verify migration was successful by checking the database file exists
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	// Run migration again (should be a no-op)
	err = Migrate(schema.SQLiteBackend, dbPath, -1)
	assert.NoError(t, err)

	// Run migration to a specific version (version 1)
	err = Migrate(schema.SQLiteBackend, dbPath, 1)
	assert.NoError(t, err)

	// Rollback to version 0
	err = Migrate(schema.SQLiteBackend, dbPath, 0)
	assert.NoError(t, err)

	// Migrate back up to version 2
	err = Migrate(schema.SQLiteBackend, dbPath, 2)
	assert.NoError(t, err)
}

func TestMigrate_SQLiteInMemory(t *testing.T) {
	// Test with in-memory database
	err := Migrate(schema.SQLiteBackend, ":memory:", -1)
	require.NoError(t, err)
}

// TestMigratedStoreAcceptsWrites runs migrations first, then opens the
// store on the same file and records a build.
func TestMigratedStoreAcceptsWrites(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrated.db")

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1))

	store, err := NewStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.RecordBuild(schema.BuildRecord{Repo: "acme/shop"})
	assert.NoError(t, err)
}
