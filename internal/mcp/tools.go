package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/bahamat/zonememstat/internal/report"
	"github.com/bahamat/zonememstat/internal/zone"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type collectParams struct{}

func (h *handler) collectHandler(ctx context.Context, req *mcp.CallToolRequest, _ collectParams) (*mcp.CallToolResult, any, error) {
	snap, err := h.engine.Collect(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("collection failed: %v", err))
	}

	// Save for zms_zone / zms_snapshot drill-down.
	if err := h.store.Save(snap); err != nil {
		return errorResult(fmt.Sprintf("storing snapshot: %v", err))
	}

	return textResult(formatSnapshot(snap))
}

type zoneParams struct {
	Zone       string `json:"zone" jsonschema:"Zonename (a UUID or the literal global) or zone alias."`
	SnapshotID string `json:"snapshot_id,omitempty" jsonschema:"Snapshot to inspect. Defaults to the latest snapshot."`
}

func (h *handler) zoneHandler(ctx context.Context, req *mcp.CallToolRequest, params zoneParams) (*mcp.CallToolResult, any, error) {
	if params.Zone == "" {
		return errorResult("zone is required: a zonename (UUID or \"global\") or an alias")
	}

	snap, err := h.loadSnapshot(params.SnapshotID)
	if err != nil {
		return errorResult(err.Error())
	}

	m, err := snap.Zone(params.Zone)
	if err != nil {
		return errorResult(err.Error())
	}

	return textResult(formatZone(snap, m))
}

type snapshotParams struct {
	SnapshotID string `json:"snapshot_id,omitempty" jsonschema:"Snapshot to reload. Defaults to the latest snapshot."`
}

func (h *handler) snapshotHandler(ctx context.Context, req *mcp.CallToolRequest, params snapshotParams) (*mcp.CallToolResult, any, error) {
	snap, err := h.loadSnapshot(params.SnapshotID)
	if err != nil {
		return errorResult(err.Error())
	}
	return textResult(formatSnapshot(snap))
}

func (h *handler) loadSnapshot(id string) (*report.Snapshot, error) {
	if id == "" {
		snap, err := h.store.Latest()
		if err != nil {
			return nil, fmt.Errorf("no snapshot available: %v (run zms_collect first)", err)
		}
		return snap, nil
	}
	snap, err := h.store.Load(id)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %v", id, err)
	}
	return snap, nil
}

func formatSnapshot(snap *report.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Snapshot: %s\n", snap.ID)
	fmt.Fprintf(&b, "Taken: %s\n", snap.TakenAt.Format("2006-01-02 15:04:05 MST"))
	if snap.ExitCode != 0 {
		fmt.Fprintf(&b, "Note: zonememstat exited with status %d; records below were emitted before exit.\n", snap.ExitCode)
	}
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Zones (%d):\n", len(snap.Zones))
	fmt.Fprintf(&b, "  %-36s %-12s %10s %10s %6s %8s %8s\n", "ZONE", "ALIAS", "RSS(MB)", "CAP(MB)", "NOVER", "POUT(MB)", "SWAP%")
	for i := range snap.Zones {
		m := &snap.Zones[i]
		fmt.Fprintf(&b, "  %-36s %-12s %10d %10s %6d %8d %8s\n",
			m.Zonename, aliasText(m.Alias), m.RSS, capText(m.Cap), m.NOver, m.POut, swapText(m.Swap))
	}

	if len(snap.Skipped) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "Skipped lines (%d):\n", len(snap.Skipped))
		for _, sk := range snap.Skipped {
			fmt.Fprintf(&b, "  %s\n    %s\n", sk.Line, sk.Reason)
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Drill down with zms_zone(zone=\"<zonename or alias>\", snapshot_id=%q).\n", snap.ID)
	return b.String()
}

func formatZone(snap *report.Snapshot, m *zone.MemStat) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Snapshot: %s\n", snap.ID)
	fmt.Fprintf(&b, "Zone: %s\n", m.Zonename)
	if m.Alias.Valid {
		fmt.Fprintf(&b, "Alias: %s\n", m.Alias.Name)
	}
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "RSS: %d MB\n", m.RSS)
	if m.Unlimited() {
		fmt.Fprintln(&b, "Cap: unlimited")
	} else {
		fmt.Fprintf(&b, "Cap: %d MB\n", m.Cap)
	}
	fmt.Fprintf(&b, "Cap exceeded: %d times\n", m.NOver)
	fmt.Fprintf(&b, "Paged out: %d MB\n", m.POut)
	if m.Swap.Valid {
		fmt.Fprintf(&b, "Swap used: %g%% of swap cap\n", m.Swap.Percent)
	} else {
		fmt.Fprintln(&b, "Swap: not accounted")
	}
	return b.String()
}

func aliasText(a zone.Alias) string {
	if !a.Valid {
		return "-"
	}
	return a.Name
}

func capText(c uint64) string {
	if c == 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d", c)
}

func swapText(s zone.Swap) string {
	if !s.Valid {
		return "-"
	}
	return fmt.Sprintf("%.5f", s.Percent)
}
