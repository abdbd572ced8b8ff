// Package tui provides an interactive top-style viewer over periodic
// zone memory collections.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bahamat/zonememstat/internal/collector"
	"github.com/bahamat/zonememstat/internal/report"
)

// SortKey selects the zone ordering in the table.
type SortKey int

const (
	// SortArrival keeps the tool's emission order, global zone first.
	SortArrival SortKey = iota
	// SortRSS orders by resident set size, descending. The global zone
	// stays pinned at the top.
	SortRSS
)

// Model is the bubbletea model for the zone viewer.
type Model struct {
	engine   *collector.Engine
	interval time.Duration

	snap    *report.Snapshot
	err     error
	sortKey SortKey
	cursor  int
	width   int
}

// snapshotMsg carries the result of one background collection.
type snapshotMsg struct {
	snap *report.Snapshot
	err  error
}

type tickMsg time.Time

// NewModel creates a viewer refreshing from eng every interval.
func NewModel(eng *collector.Engine, interval time.Duration) *Model {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Model{engine: eng, interval: interval}
}

func (m *Model) Init() tea.Cmd {
	return m.collectCmd()
}

func (m *Model) collectCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.engine.Collect(context.Background())
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case "s":
			if m.sortKey == SortArrival {
				m.sortKey = SortRSS
			} else {
				m.sortKey = SortArrival
			}
		case "r":
			return m, m.collectCmd()
		}

	case snapshotMsg:
		// A failed refresh keeps the previous snapshot on screen.
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.snap = msg.snap
			if n := len(msg.snap.Zones); m.cursor >= n && n > 0 {
				m.cursor = n - 1
			}
		}
		return m, m.tickCmd()

	case tickMsg:
		return m, m.collectCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.snap == nil {
		return
	}
	m.cursor = bound(m.cursor+delta, 0, len(m.snap.Zones)-1)
}

func bound(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
