// Package zone defines the typed memory accounting record reported by
// zonememstat(8) for a single zone, and the parser that produces it
// from one line of the tool's output.
package zone

import (
	"encoding/json"

	"github.com/google/uuid"
)

// GlobalZonename is the fixed name zonememstat reports for the global zone.
// All other zones are named by UUID.
const GlobalZonename = "global"

// Alias is an optional zone alias. Not every zone is assigned an alias;
// zonememstat prints `-` for those, which parses to the zero Alias.
type Alias struct {
	Name  string
	Valid bool
}

// SomeAlias returns a present Alias with the given name.
func SomeAlias(name string) Alias {
	return Alias{Name: name, Valid: true}
}

// MarshalJSON emits the alias name, or null when the zone has no alias.
func (a Alias) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Name)
}

// UnmarshalJSON accepts a string or null.
func (a *Alias) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Alias{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = SomeAlias(s)
	return nil
}

// Swap is an optional swap usage percentage. The global zone has no swap
// accounting and zonememstat prints a placeholder there, which parses to
// the zero Swap.
type Swap struct {
	Percent float64
	Valid   bool
}

// SomeSwap returns a present Swap with the given percentage.
func SomeSwap(pct float64) Swap {
	return Swap{Percent: pct, Valid: true}
}

// MarshalJSON emits the percentage, or null when swap is not accounted.
func (s Swap) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Percent)
}

// UnmarshalJSON accepts a number or null.
func (s *Swap) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Swap{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*s = SomeSwap(f)
	return nil
}

// MemStat holds the memory statistics of a single zone as reported by one
// line of `zonememstat -H -a` output. Field names follow the tool's column
// headers. Values are immutable once parsed; this package never recomputes
// or validates the numbers beyond typing them.
type MemStat struct {
	// Zonename is "global" for the global zone, a UUID otherwise.
	Zonename string `json:"zonename"`
	// Alias is the optional human-readable zone name.
	Alias Alias `json:"alias"`
	// RSS is the resident set size charged to the zone.
	RSS uint64 `json:"rss"`
	// Cap is the configured memory cap in MB. 0 means unlimited.
	Cap uint64 `json:"cap"`
	// NOver counts how many times the zone has exceeded its cap.
	NOver uint32 `json:"nover"`
	// POut is the total memory in MB paged out by cap enforcement.
	POut uint64 `json:"pout"`
	// Swap is the percent of swap used against the swap cap.
	Swap Swap `json:"swap"`
}

// IsGlobal reports whether the record describes the global zone.
func (m *MemStat) IsGlobal() bool {
	return m.Zonename == GlobalZonename
}

// UUID returns the zone's UUID. The global zone (and any record whose
// zonename is not a valid UUID) returns an error; the record itself is
// still valid, since zonenames are carried verbatim from the source.
func (m *MemStat) UUID() (uuid.UUID, error) {
	return uuid.Parse(m.Zonename)
}

// Unlimited reports whether the zone has no memory cap configured.
func (m *MemStat) Unlimited() bool {
	return m.Cap == 0
}
