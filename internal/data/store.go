package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/WCLondon/Optimiser-sub001/internal/config"
)

// Store serves the current reference-data snapshot to handlers, re-reading
// the files once the cache TTL lapses so edited snapshots are picked up
// without a restart.
type Store struct {
	cfg   config.SnapshotConfig
	ttl   time.Duration
	mu    sync.RWMutex
	entry *cacheEntry
}

type cacheEntry struct {
	snapshot  *Snapshot
	key       string
	expiresAt time.Time
}

const defaultSnapshotTTL = 5 * time.Minute

// NewStore builds a snapshot store. ttl <= 0 selects the default.
func NewStore(cfg config.SnapshotConfig, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &Store{cfg: cfg, ttl: ttl}
}

// Current returns the cached snapshot, reloading from disk when expired.
func (s *Store) Current() (*Snapshot, error) {
	key := cacheKey(s.cfg)

	s.mu.RLock()
	entry := s.entry
	s.mu.RUnlock()
	if entry != nil && entry.key == key && time.Now().Before(entry.expiresAt) {
		return entry.snapshot, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another caller may have reloaded while we waited on the lock.
	if s.entry != nil && s.entry.key == key && time.Now().Before(s.entry.expiresAt) {
		return s.entry.snapshot, nil
	}
	snap, err := LoadSnapshot(s.cfg)
	if err != nil {
		return nil, err
	}
	s.entry = &cacheEntry{snapshot: snap, key: key, expiresAt: time.Now().Add(s.ttl)}
	return snap, nil
}

// Invalidate drops the cached snapshot so the next Current() reloads.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.entry = nil
	s.mu.Unlock()
}

func cacheKey(cfg config.SnapshotConfig) string {
	keyStr := fmt.Sprintf("%s:%s:%s", cfg.InventoryFile, cfg.PricingFile, cfg.CatalogFile)
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
