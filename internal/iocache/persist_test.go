package iocache

import (
	"os"
	"sync"
	"testing"

	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals lets a test run InitStores and CloseCaching again.
func resetGlobals(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite dataset and analysis", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitStores(schema.SQLiteBackend, "", schema.SQLiteBackend, ""))

		assert.NotNil(t, Manager.GetDatasetStore())
		assert.NotNil(t, Manager.GetAnalysisStore())
		CloseCaching()

		_, err := os.Stat(GetDBFilePath())
		assert.NoError(t, err, "dataset cache file should be created")
		_, err = os.Stat(GetAnalysisDBFilePath())
		assert.NoError(t, err, "analysis file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals(t)
		assert.NoError(t, InitStores(schema.SQLiteBackend, "", "", ""))
		assert.NoError(t, InitStores(schema.SQLiteBackend, "", "", ""))
		assert.Nil(t, Manager.GetAnalysisStore())

		CloseCaching()
		CloseCaching()
	})

	t.Run("none backend", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))

		status, err := Manager.GetDatasetStore().GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Connected)
		CloseCaching()
	})

	t.Run("invalid backend", func(t *testing.T) {
		resetGlobals(t)
		err := InitStores(schema.DatabaseBackend("oracle"), "", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dataset caching")
		assert.Nil(t, Manager.GetDatasetStore())
	})

	t.Run("invalid analysis backend", func(t *testing.T) {
		resetGlobals(t)
		err := InitStores(schema.NoneBackend, "", schema.DatabaseBackend("oracle"), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "analysis store")
	})
}
