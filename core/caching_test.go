package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/iocache"
	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// uniqueRecords tags the dataset so the process-wide memo never serves another test.
func uniqueRecords(tag string) []schema.Record {
	records := segmentedRecords()
	records[0].UserID = tag
	return records
}

func TestLoadSnapshot_MissComputesAndStores(t *testing.T) {
	path := writeDatasetCSV(t, uniqueRecords("miss-store"))
	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return(nil, 0, int64(0), errors.New("not found"))
	store.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).Return(nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(store)

	cfg := &contract.Config{DataPath: path}
	snap, err := LoadSnapshot(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.Len(t, snap.Records, 12)
	assert.Equal(t, path, snap.Source)
	assert.Equal(t, 12, snap.Quality.Kept)

	// second call is served from the in-process memo
	again, err := LoadSnapshot(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.Same(t, snap, again)

	store.AssertNumberOfCalls(t, "Get", 1)
	store.AssertNumberOfCalls(t, "Set", 1)
}

func TestLoadSnapshot_CacheHit(t *testing.T) {
	path := writeDatasetCSV(t, uniqueRecords("cache-hit"))
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	cached := schema.Snapshot{Source: "from-cache", Records: []schema.EnrichedRecord{{Record: schema.Record{UserID: "cached"}}}}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	store := &iocache.MockCacheStore{}
	store.On("Get", generateCacheKey(content)).Return(data, currentCacheVersion, int64(1700000000), nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(store)

	snap, err := LoadSnapshot(context.Background(), &contract.Config{DataPath: path}, mgr)
	require.NoError(t, err)
	assert.Equal(t, "from-cache", snap.Source)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadSnapshot_VersionMismatchRecomputes(t *testing.T) {
	path := writeDatasetCSV(t, uniqueRecords("old-version"))
	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return([]byte(`{"source":"stale"}`), currentCacheVersion+1, int64(0), nil)
	store.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).Return(errors.New("disk full"))
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(store)

	snap, err := LoadSnapshot(context.Background(), &contract.Config{DataPath: path}, mgr)
	require.NoError(t, err, "a failed cache write only warns")
	assert.Equal(t, path, snap.Source)
	store.AssertExpectations(t)
}

func TestLoadSnapshot_NoManager(t *testing.T) {
	path := writeDatasetCSV(t, uniqueRecords("no-manager"))
	snap, err := LoadSnapshot(context.Background(), &contract.Config{DataPath: path}, nil)
	require.NoError(t, err)
	assert.Len(t, snap.Records, 12)
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := LoadSnapshot(context.Background(), &contract.Config{DataPath: "/does/not/exist.csv"}, nil)
	assert.ErrorIs(t, err, schema.ErrConfig)
}

func TestGenerateCacheKey(t *testing.T) {
	a := generateCacheKey([]byte("a,b\n1,2\n"))
	b := generateCacheKey([]byte("a,b\n1,3\n"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, generateCacheKey([]byte("a,b\n1,2\n")))
}
