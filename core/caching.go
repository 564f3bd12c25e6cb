package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/dataset"
	"github.com/huangsam/devpulse/schema"
)

// currentCacheVersion defines the version of the cached snapshot schema
const currentCacheVersion = 1

// snapshotMemo keeps parsed snapshots for the process lifetime, keyed by content hash.
// The dataset is static, so entries are never invalidated.
var snapshotMemo sync.Map

// LoadSnapshot returns the enriched snapshot of cfg.DataPath. It consults the
// in-process memo, then the dataset store, and only parses the file on a miss.
func LoadSnapshot(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.Snapshot, error) {
	content, err := os.ReadFile(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read dataset %s: %w", schema.ErrConfig, cfg.DataPath, err)
	}
	key := generateCacheKey(content)

	if snap, ok := snapshotMemo.Load(key); ok {
		return snap.(*schema.Snapshot), nil
	}

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetDatasetStore()
	}
	if store != nil {
		if snap := checkCacheHit(store, key); snap != nil {
			snapshotMemo.Store(key, snap)
			return snap, nil
		}
	}

	snap, err := computeAndStore(cfg.DataPath, content, store, key)
	if err != nil {
		return nil, err
	}
	snapshotMemo.Store(key, snap)
	return snap, nil
}

// checkCacheHit attempts to retrieve and validate a cached snapshot
func checkCacheHit(store contract.CacheStore, key string) *schema.Snapshot {
	data, version, _, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}
	if version != currentCacheVersion {
		return nil // Cache miss (version mismatch)
	}
	var snap schema.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	return &snap
}

// computeAndStore parses and enriches the dataset and stores the snapshot in cache
func computeAndStore(source string, content []byte, store contract.CacheStore, key string) (*schema.Snapshot, error) {
	records, report, err := dataset.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	snap, err := BuildSnapshot(source, records, report)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if data, err := json.Marshal(snap); err == nil {
			if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
				contract.LogWarn("Failed to cache dataset snapshot", err)
			}
		}
	}
	return snap, nil
}

// generateCacheKey derives the cache key from the dataset bytes, so an edited
// file never reuses a stale snapshot
func generateCacheKey(content []byte) string {
	return fmt.Sprintf("snapshot:v%d:%x", currentCacheVersion, sha256.Sum256(content))
}
