package report

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheStore is an in-memory LRU cache that delegates to a backing
// Store on miss.
type CacheStore struct {
	cache *lru.Cache[string, *Snapshot]
	back  Store

	mu     sync.Mutex
	latest *Snapshot
}

// NewCacheStore creates an LRU cache with the given capacity that
// delegates to back on cache misses. Sizes below 1 are clamped to 1.
func NewCacheStore(size int, back Store) *CacheStore {
	if size < 1 {
		size = 1
	}
	// lru.New only fails for non-positive sizes, ruled out above.
	cache, _ := lru.New[string, *Snapshot](size)
	return &CacheStore{cache: cache, back: back}
}

// Save writes the snapshot to the cache and delegates to the backing store.
func (s *CacheStore) Save(snap *Snapshot) error {
	s.cache.Add(snap.ID, snap)
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()
	return s.back.Save(snap)
}

// Load checks the cache first. On miss, loads from the backing store
// and promotes the snapshot into the cache.
func (s *CacheStore) Load(id string) (*Snapshot, error) {
	if snap, ok := s.cache.Get(id); ok {
		return snap, nil
	}
	snap, err := s.back.Load(id)
	if err != nil {
		return nil, err
	}
	s.cache.Add(id, snap)
	return snap, nil
}

// Latest returns the most recently saved snapshot, falling back to the
// backing store when nothing was saved through this cache.
func (s *CacheStore) Latest() (*Snapshot, error) {
	s.mu.Lock()
	snap := s.latest
	s.mu.Unlock()
	if snap != nil {
		return snap, nil
	}
	return s.back.Latest()
}
