// Package report provides structured persistence and retrieval of
// collected zone memory snapshots. Snapshots are stored as typed
// structs and can be queried by ID or by zone.
package report

import (
	"fmt"
	"time"

	"github.com/bahamat/zonememstat/internal/zone"
)

// Store persists and retrieves snapshots.
type Store interface {
	Save(snap *Snapshot) error
	Load(id string) (*Snapshot, error)
	// Latest returns the most recently saved snapshot, or an error
	// when nothing has been saved yet.
	Latest() (*Snapshot, error)
}

// Snapshot holds one complete collection of zone memory statistics.
// Zones appear in the order the external tool emitted them; the global
// zone is first by the tool's convention.
type Snapshot struct {
	ID       string         `json:"id"`
	TakenAt  time.Time      `json:"taken_at"`
	ExitCode int            `json:"exit_code"`
	Zones    []zone.MemStat `json:"zones"`
	// Skipped lists lines that failed to parse under the skip policy.
	Skipped []SkippedLine `json:"skipped,omitempty"`
}

// SkippedLine records one unparseable line and why it was dropped.
type SkippedLine struct {
	Line   string `json:"line"`
	Reason string `json:"reason"`
}

// Zone finds a record by zonename or alias. Zonename matches take
// precedence; the first alias match wins otherwise.
func (s *Snapshot) Zone(nameOrAlias string) (*zone.MemStat, error) {
	for i := range s.Zones {
		if s.Zones[i].Zonename == nameOrAlias {
			return &s.Zones[i], nil
		}
	}
	for i := range s.Zones {
		if s.Zones[i].Alias.Valid && s.Zones[i].Alias.Name == nameOrAlias {
			return &s.Zones[i], nil
		}
	}
	return nil, fmt.Errorf("snapshot %s has no zone %q", s.ID, nameOrAlias)
}

// Global returns the global zone record, which the external tool always
// reports first. It is an error for a non-empty snapshot to lack one.
func (s *Snapshot) Global() (*zone.MemStat, error) {
	for i := range s.Zones {
		if s.Zones[i].IsGlobal() {
			return &s.Zones[i], nil
		}
	}
	return nil, fmt.Errorf("snapshot %s has no global zone", s.ID)
}
