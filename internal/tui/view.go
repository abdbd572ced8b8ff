package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bahamat/zonememstat/internal/zone"
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("zonememstat"))
	if m.snap != nil {
		b.WriteString(fmt.Sprintf("  %s  (%d zones)", m.snap.TakenAt.Format("15:04:05"), len(m.snap.Zones)))
	}
	b.WriteString("\n\n")

	if m.snap == nil {
		if m.err != nil {
			b.WriteString(errStyle.Render(m.err.Error()))
			b.WriteRune('\n')
		} else {
			b.WriteString("collecting...\n")
		}
		b.WriteString(helpStyle.Render("(q to quit)"))
		b.WriteRune('\n')
		return b.String()
	}

	b.WriteString(headerStyle.Render(
		zoneStyle.Render("ZONE") +
			aliasStyle.Render("ALIAS") +
			numStyle.Render("RSS(MB)") +
			numStyle.Render("CAP(MB)") +
			numStyle.Render("NOVER") +
			numStyle.Render("POUT(MB)") +
			swapStyle.Render("SWAP%"),
	))
	b.WriteRune('\n')

	for i, z := range m.sortedZones() {
		row := zoneStyle.Render(z.Zonename) +
			aliasStyle.Render(aliasText(z.Alias)) +
			numStyle.Render(fmt.Sprintf("%d", z.RSS)) +
			numStyle.Render(capText(z.Cap)) +
			numStyle.Render(fmt.Sprintf("%d", z.NOver)) +
			numStyle.Render(fmt.Sprintf("%d", z.POut)) +
			swapStyle.Render(swapText(z.Swap))

		switch {
		case i == m.cursor:
			b.WriteString(selectedStyle.Render(row))
		case z.NOver > 0:
			b.WriteString(overCapStyle.Render(row))
		default:
			b.WriteString(normalStyle.Render(row))
		}
		b.WriteRune('\n')
	}

	if len(m.snap.Skipped) > 0 {
		b.WriteString(errStyle.Render(fmt.Sprintf("%d unparseable lines skipped", len(m.snap.Skipped))))
		b.WriteRune('\n')
	}
	if m.err != nil {
		b.WriteString(errStyle.Render("refresh failed: " + m.err.Error()))
		b.WriteRune('\n')
	}

	sortLabel := "arrival"
	if m.sortKey == SortRSS {
		sortLabel = "rss"
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("(↑/↓ or j/k to move, s to sort [%s], r to refresh, q to quit)", sortLabel)))
	b.WriteRune('\n')

	return b.String()
}

// sortedZones returns the zones in display order. The global zone stays
// first under every sort, matching the tool's own convention.
func (m *Model) sortedZones() []zone.MemStat {
	zones := make([]zone.MemStat, len(m.snap.Zones))
	copy(zones, m.snap.Zones)
	if m.sortKey == SortRSS {
		sort.SliceStable(zones, func(i, j int) bool {
			if zones[i].IsGlobal() != zones[j].IsGlobal() {
				return zones[i].IsGlobal()
			}
			return zones[i].RSS > zones[j].RSS
		})
	}
	return zones
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
	return fmt.Sprintf("%.2f", s.Percent)
}
