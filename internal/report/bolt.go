package report

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var (
	snapshotBucket = []byte("snapshots")
	metaBucket     = []byte("meta")
	latestKey      = []byte("latest")
)

// BoltStore keeps snapshot history in a bolt database, surviving agent
// restarts. Used when the config sets a history path.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (creating if needed) the snapshot database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(snapshotBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising snapshot db %s: %w", path, err)
	}
	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Save writes a snapshot and marks it as the latest.
func (s *BoltStore) Save(snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling snapshot %s: %w", snap.ID, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(snapshotBucket).Put([]byte(snap.ID), data); err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Put(latestKey, []byte(snap.ID))
	})
	if err != nil {
		return fmt.Errorf("writing snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// Load reads a snapshot by ID.
func (s *BoltStore) Load(id string) (*Snapshot, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(snapshotBucket).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("snapshot %s not found", id)
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshalling snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// Latest loads the most recently saved snapshot.
func (s *BoltStore) Latest() (*Snapshot, error) {
	var id string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(metaBucket).Get(latestKey)
		if v == nil {
			return fmt.Errorf("no snapshots saved")
		}
		id = string(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Load(id)
}
