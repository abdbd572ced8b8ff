package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DiskStore writes snapshots as JSON files to a lazily-created temp
// directory. It is the default store when no durable history path is
// configured.
type DiskStore struct {
	mu     sync.Mutex
	dir    string
	latest string
}

// NewDiskStore creates a new DiskStore. The underlying temp directory
// is created lazily on the first Save.
func NewDiskStore() *DiskStore {
	return &DiskStore{}
}

// Save writes a snapshot as a JSON file to disk.
func (s *DiskStore) Save(snap *Snapshot) error {
	dir, err := s.ensureDir()
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling snapshot %s: %w", snap.ID, err)
	}
	path := filepath.Join(dir, snap.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", snap.ID, err)
	}
	s.mu.Lock()
	s.latest = snap.ID
	s.mu.Unlock()
	return nil
}

// Load reads a snapshot from disk.
func (s *DiskStore) Load(id string) (*Snapshot, error) {
	dir, err := s.ensureDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", id, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshalling snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// Latest loads the most recently saved snapshot.
func (s *DiskStore) Latest() (*Snapshot, error) {
	s.mu.Lock()
	id := s.latest
	s.mu.Unlock()
	if id == "" {
		return nil, fmt.Errorf("no snapshots saved")
	}
	return s.Load(id)
}

func (s *DiskStore) ensureDir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir != "" {
		return s.dir, nil
	}
	dir, err := os.MkdirTemp("", "zonememstat-snaps-*")
	if err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}
	s.dir = dir
	return dir, nil
}
