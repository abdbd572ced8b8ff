// Package zonememstat collects per-zone memory accounting records by
// running the zonememstat(8) command and parsing its output into typed
// records. The global zone is always the first record, matching the
// tool's own ordering. See https://smartos.org/man/8/zonememstat.
package zonememstat

import (
	"context"

	"github.com/bahamat/zonememstat/internal/collector"
	"github.com/bahamat/zonememstat/internal/config"
	"github.com/bahamat/zonememstat/internal/zone"
)

// Version is the release version of this module.
const Version = "1.0.0"

// ZoneMemStat is the memory statistics record for a single zone.
type ZoneMemStat = zone.MemStat

// Alias is an optional zone alias; zones without one report absence.
type Alias = zone.Alias

// Swap is an optional swap usage percentage; the global zone has none.
type Swap = zone.Swap

// Collect runs `zonememstat -H -a` and returns one record per zone in
// the order reported, global zone first. A failure to launch the
// command is returned as an error, never as an empty result; malformed
// output lines are skipped. Cancelling ctx terminates the child
// process.
func Collect(ctx context.Context) ([]ZoneMemStat, error) {
	snap, err := collector.New(&config.Config{}).Collect(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Zones, nil
}
