package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// Table names for analysis tracking.
const (
	analysisRunsTable   = "devpulse_analysis_runs"
	recordOutcomesTable = "devpulse_record_outcomes"
)

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (*AnalysisStoreImpl, error) {
	if backend == schema.NoneBackend {
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

// createAnalysisTables creates the analysis tracking tables.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{analysisRunsTable, getCreateAnalysisRunsQuery(backend)},
		{recordOutcomesTable, getCreateRecordOutcomesQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateAnalysisRunsQuery returns the CREATE TABLE query for devpulse_analysis_runs.
func getCreateAnalysisRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(analysisRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				command VARCHAR(32) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_records INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGSERIAL PRIMARY KEY,
				command TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_records INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER PRIMARY KEY AUTOINCREMENT,
				command TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_records INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateRecordOutcomesQuery returns the CREATE TABLE query for devpulse_record_outcomes.
func getCreateRecordOutcomesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(recordOutcomesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				user_id VARCHAR(255) NOT NULL,
				command VARCHAR(32) NOT NULL,
				cluster_id INT,
				at_risk BOOLEAN,
				INDEX idx_outcomes_analysis (analysis_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				user_id TEXT NOT NULL,
				command TEXT NOT NULL,
				cluster_id INT,
				at_risk BOOLEAN
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER NOT NULL,
				user_id TEXT NOT NULL,
				command TEXT NOT NULL,
				cluster_id INTEGER,
				at_risk INTEGER
			);
		`, quotedTableName)
	}
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(startTime time.Time, command string, configParams map[string]any) (int64, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)

	var analysisID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (command, start_time, config_params) VALUES ($1, $2, $3) RETURNING analysis_id`, quotedTableName)
		err = as.db.QueryRow(query, command, startTime, string(configJSON)).Scan(&analysisID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (command, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = as.db.Exec(query, command, formatTime(startTime, as.backend), string(configJSON))
		if err == nil {
			analysisID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return analysisID, nil
}

// EndAnalysis updates the analysis run with completion data.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalRecords int) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = %s`, quotedTableName, placeholder(as.backend, 1))
	startTime, err := scanTime(as.db.QueryRow(query, analysisID), as.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_records = %s WHERE analysis_id = %s`,
		quotedTableName,
		placeholder(as.backend, 1), placeholder(as.backend, 2), placeholder(as.backend, 3), placeholder(as.backend, 4))
	if _, err := as.db.Exec(updateQuery, formatTime(endTime, as.backend), durationMs, totalRecords, analysisID); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// RecordOutcomes stores the per-record results of a run in one transaction.
func (as *AnalysisStoreImpl) RecordOutcomes(analysisID int64, outcomes []schema.RecordOutcome) error {
	if as.backend == schema.NoneBackend || as.db == nil || len(outcomes) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (analysis_id, user_id, command, cluster_id, at_risk) VALUES (%s, %s, %s, %s, %s)`,
		quoteTableName(recordOutcomesTable, as.backend),
		placeholder(as.backend, 1), placeholder(as.backend, 2), placeholder(as.backend, 3),
		placeholder(as.backend, 4), placeholder(as.backend, 5))

	tx, err := as.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin outcome transaction: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare outcome insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, o := range outcomes {
		var cluster, atRisk any
		if o.Cluster != nil {
			cluster = *o.Cluster
		}
		if o.AtRisk != nil {
			atRisk = *o.AtRisk
		}
		if _, err := stmt.Exec(analysisID, o.UserID, o.Command, cluster, atRisk); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert outcome for %s: %w", o.UserID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit outcomes: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}
	if as.backend == schema.NoneBackend || as.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(analysisRunsTable, as.backend)
	row := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row = as.db.QueryRow(fmt.Sprintf("SELECT analysis_id FROM %s ORDER BY analysis_id DESC LIMIT 1", runsTable))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}

		var err error
		lastQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", runsTable)
		if status.LastRunTime, err = scanTime(as.db.QueryRow(lastQuery), as.backend); err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", runsTable)
		if status.OldestRunTime, err = scanTime(as.db.QueryRow(oldestQuery), as.backend); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}

		row = as.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_records), 0) FROM %s", runsTable))
		if err := row.Scan(&status.TotalRecordsTracked); err != nil {
			return status, fmt.Errorf("failed to get total records tracked: %w", err)
		}
	}

	for _, table := range []string{analysisRunsTable, recordOutcomesTable} {
		var count int64
		row = as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllAnalysisRuns retrieves all analysis runs from the store.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, command, start_time, end_time, run_duration_ms, total_records, config_params
		FROM %s ORDER BY analysis_id`, quoteTableName(analysisRunsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord
		switch as.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.AnalysisID, &record.Command, &startTimeStr, &endTimeStr,
				&record.RunDurationMs, &record.TotalRecords, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan analysis run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.AnalysisID, &record.Command, &record.StartTime, &record.EndTime,
				&record.RunDurationMs, &record.TotalRecords, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan analysis run: %w", err)
			}
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}
	return results, nil
}

// GetAllRecordOutcomes retrieves all record outcomes from the store.
func (as *AnalysisStoreImpl) GetAllRecordOutcomes() ([]schema.RecordOutcomeRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, user_id, command, cluster_id, at_risk FROM %s ORDER BY analysis_id, user_id`,
		quoteTableName(recordOutcomesTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query record outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RecordOutcomeRecord
	for rows.Next() {
		var record schema.RecordOutcomeRecord
		var cluster sql.NullInt32
		var atRisk sql.NullBool
		if err := rows.Scan(&record.AnalysisID, &record.UserID, &record.Command, &cluster, &atRisk); err != nil {
			return nil, fmt.Errorf("failed to scan record outcome: %w", err)
		}
		if cluster.Valid {
			record.Cluster = &cluster.Int32
		}
		if atRisk.Valid {
			record.AtRisk = &atRisk.Bool
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record outcomes: %w", err)
	}
	return results, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t
	}
}

// scanTime reads one timestamp column, which SQLite stores as RFC 3339 text.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	if backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}
