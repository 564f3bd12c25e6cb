package cmd

import (
	"fmt"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/iocache"
	"github.com/huangsam/devpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analysisBackendFromConfig reads the analysis backend settings. An empty backend means none.
func analysisBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.NoneBackend
	if backendStr := viper.GetString("analysis-backend"); backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	connStr := viper.GetString("analysis-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// analysisSetup loads minimal configuration needed for analysis operations.
// This is used by commands that need analysis access without full shared setup.
func analysisSetup() error {
	backend, connStr, err := analysisBackendFromConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no dataset cache for analysis commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// analysisSetupWrapper wraps analysisSetup to provide PreRunE for analysis commands.
func analysisSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisSetup()
}

// analysisMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func analysisMigrateSetup() error {
	backend, connStr, err := analysisBackendFromConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAnalysisDBFilePath()
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr

	return nil
}

// analysisMigrateSetupWrapper wraps analysisMigrateSetup to provide PreRunE for migrate command.
func analysisMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisMigrateSetup()
}

// analysisCmd focused on analysis data management.
//
// Note: Analysis subcommands use minimal initialization (analysisSetup) instead of
// the full sharedSetup used by pipeline commands. This avoids dataset validation
// and complex config processing for simple analysis operations.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage historical run tracking and exports",
	Long: `Manage the history of pipeline runs used for auditing and reporting.

When enabled with --analysis-backend, devpulse tracks runs, storing:
- Run metadata (command, timestamp, parameters, duration, record count)
- The cluster label of every user for segment runs
- The churn flag of every user for churn runs

This makes labels from different seeds and thresholds comparable over time.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  devpulse analysis status --analysis-backend sqlite

  # Export for analysis in pandas/DuckDB
  devpulse analysis export --analysis-backend sqlite --output-file runs`,
}

// analysisClearCmd clears the analysis data.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all tracked runs and outcomes",
	Long: `Delete all stored runs and their per-user outcomes.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  devpulse analysis export --output-file backup
  devpulse analysis clear`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the SQLite handle opened by setup before removing the file
		iocache.CloseCaching()
		dbFile := sqliteFilePath(cfg.AnalysisDBConnect, contract.GetAnalysisDBFilePath())
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, dbFile, cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// analysisStatusCmd shows analysis status.
var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about run tracking.

Displays:
- Backend type and connection status
- Total number of tracked runs
- Last and oldest run timestamps
- Total user outcomes recorded across all runs
- Database table sizes

Examples:
  devpulse analysis status`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetAnalysisStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get analysis status", err)
		}
		iocache.PrintAnalysisStatus(status)
	},
}

// analysisExportCmd exports analysis data to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tracked runs and outcomes to Parquet",
	Long: `Export all tracked data to Parquet for use with analytics tools.

Writes two files next to --output-file:
- <output-file>.analysis_runs.parquet - one row per tracked run
- <output-file>.record_outcomes.parquet - one row per user outcome

Requires: --output-file parameter

Examples:
  devpulse analysis export --output-file devpulse
  duckdb -c "SELECT command, count(*) FROM read_parquet('devpulse.analysis_runs.parquet') GROUP BY 1"`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAnalysisExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// analysisMigrateCmd runs database migrations for the analysis store.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  devpulse analysis migrate --analysis-backend sqlite

  # Migrate to specific version
  devpulse analysis migrate --target-version 2

  # Rollback to initial state
  devpulse analysis migrate --target-version 0`,
	PreRunE: analysisMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateAnalysis(cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
