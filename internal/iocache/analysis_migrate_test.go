package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateAnalysis_NoneBackend(t *testing.T) {
	err := MigrateAnalysis(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func tableExists(t *testing.T, dbPath, table string) bool {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestMigrateAnalysis_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")

	require.NoError(t, MigrateAnalysis(schema.SQLiteBackend, dbPath, -1))
	assert.True(t, tableExists(t, dbPath, analysisRunsTable))
	assert.True(t, tableExists(t, dbPath, recordOutcomesTable))
	assert.True(t, tableExists(t, dbPath, migrationsTable))

	// Running again is a no-op
	assert.NoError(t, MigrateAnalysis(schema.SQLiteBackend, dbPath, -1))

	// Step down to version 1 drops the outcomes table
	require.NoError(t, MigrateAnalysis(schema.SQLiteBackend, dbPath, 1))
	assert.True(t, tableExists(t, dbPath, analysisRunsTable))
	assert.False(t, tableExists(t, dbPath, recordOutcomesTable))

	// Roll back everything, then move up again
	require.NoError(t, MigrateAnalysis(schema.SQLiteBackend, dbPath, 0))
	assert.False(t, tableExists(t, dbPath, analysisRunsTable))
	require.NoError(t, MigrateAnalysis(schema.SQLiteBackend, dbPath, 2))
	assert.True(t, tableExists(t, dbPath, recordOutcomesTable))
}

func TestMigrateAnalysis_CompatibleWithStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "store_then_migrate.db")

	store, err := NewAnalysisStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.NoError(t, MigrateAnalysis(schema.SQLiteBackend, dbPath, -1))
}

func TestMigrateAnalysis_UnsupportedBackend(t *testing.T) {
	assert.Error(t, MigrateAnalysis(schema.DatabaseBackend("oracle"), "", -1))
}
