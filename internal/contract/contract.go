// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/devpulse/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetDatasetStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking runs and the outcomes they produced.
type AnalysisStore interface {
	// BeginAnalysis creates a new run for command and returns its unique ID
	BeginAnalysis(startTime time.Time, command string, configParams map[string]any) (int64, error)

	// EndAnalysis updates the run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalRecords int) error

	// RecordOutcomes stores the per-record results of a run
	RecordOutcomes(analysisID int64, outcomes []schema.RecordOutcome) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// Close closes the underlying connection
	Close() error
}
