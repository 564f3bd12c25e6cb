package cmd

import (
	"fmt"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/iocache"
	"github.com/huangsam/devpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no analysis tracking for cache commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// sqliteFilePath returns the SQLite file named by connStr, or fallback when empty.
func sqliteFilePath(connStr, fallback string) string {
	if connStr != "" {
		return connStr
	}
	return fallback
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by pipeline commands. This avoids dataset validation
// and complex config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the dataset snapshot cache (improves performance)",
	Long: `Manage the cache of enriched dataset snapshots.

Devpulse stores the cleaned, enriched and encoded records of each dataset,
keyed by a hash of the file contents. Repeated runs on an unchanged file skip
parsing and enrichment entirely; any edit to the file yields a new key.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  devpulse cache status

  # Clear cache
  devpulse cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached dataset snapshots",
	Long: `Delete all cached dataset snapshots from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  devpulse cache clear

  # Clear MySQL cache (set connection string via env variable)
  DEVPULSE_CACHE_BACKEND=mysql DEVPULSE_CACHE_DB_CONNECT="..." devpulse cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the SQLite handle opened by setup before removing the file
		iocache.CloseCaching()
		dbFile := sqliteFilePath(cfg.CacheDBConnect, contract.GetCacheDBFilePath())
		if err := iocache.ClearCache(cfg.CacheBackend, dbFile, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the dataset snapshot cache.

Displays:
- Backend type and connection status
- Total number of cached snapshots
- Last and oldest cache entry timestamps
- Cache table size

Examples:
  # Check cache status
  devpulse cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetDatasetStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
