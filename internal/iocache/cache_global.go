package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// datasetTable is the name of the table for dataset snapshot caching.
const datasetTable = "devpulse_dataset_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for cache storage.
func GetDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	return contract.GetAnalysisDBFilePath()
}

// InitStores initializes the global manager with separate dataset and analysis stores.
// An empty backend leaves the corresponding store unset.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, analysisBackend schema.DatabaseBackend, analysisConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var datasetStore contract.CacheStore
		if cacheBackend != "" {
			store, err := NewCacheStore(datasetTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize dataset caching: %w", err)
				return
			}
			datasetStore = store
		}

		var analysisStore contract.AnalysisStore
		if analysisBackend != "" {
			store, err := NewAnalysisStore(analysisBackend, analysisConnStr)
			if err != nil {
				if datasetStore != nil {
					_ = datasetStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize analysis store: %w", err)
				return
			}
			analysisStore = store
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.dataset = datasetStore
		Manager.analysis = analysisStore
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.dataset != nil {
			_ = Manager.dataset.Close()
		}
		if Manager.analysis != nil {
			_ = Manager.analysis.Close()
		}
	})
}

// ClearCache clears the dataset cache for the specified backend.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the table.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, datasetTable)
}

// ClearAnalysis clears the tracked runs and outcomes for the specified backend.
func ClearAnalysis(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, analysisRunsTable, recordOutcomesTable, migrationsTable)
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range tables {
			if err := clearSQLTable(backend, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	driver, err := driverName(backend)
	if err != nil {
		return err
	}
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
