package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bahamat/zonememstat/internal/config"
	"github.com/bahamat/zonememstat/internal/zone"
)

// fakeStream replays canned lines without spawning a process.
type fakeStream struct {
	id     string
	lines  []string
	code   int
	closed bool
}

func (f *fakeStream) ID() string { return f.id }

func (f *fakeStream) Lines() <-chan string {
	ch := make(chan string, len(f.lines))
	for _, l := range f.lines {
		ch <- l
	}
	close(ch)
	return ch
}

func (f *fakeStream) Wait() (int, error) { return f.code, nil }
func (f *fakeStream) Close() error       { f.closed = true; return nil }

type fakeStreamer struct {
	stream   *fakeStream
	err      error
	gotArgv  []string
	launches int
}

func (f *fakeStreamer) Stream(_ context.Context, argv []string) (LineStream, error) {
	f.gotArgv = argv
	f.launches++
	if f.err != nil {
		return nil, f.err
	}
	return f.stream, nil
}

func newTestEngine(t *testing.T, cfg *config.Config, lines ...string) (*Engine, *fakeStreamer) {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	fs := &fakeStreamer{stream: &fakeStream{id: "run-1", lines: lines}}
	return &Engine{Config: cfg, Streamer: fs}, fs
}

const (
	gzLine  = "                               global            -      850 16777215        0         0     -"
	ngzLine = " 6dc5da73-e4e5-45b6-80b9-5d2073e9b1ee        amon0      174   1024        0         0 7.11193"
)

func TestCollect_OrderedRecords(t *testing.T) {
	eng, fs := newTestEngine(t, nil, gzLine, ngzLine)
	snap, err := eng.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if snap.ID != "run-1" {
		t.Errorf("ID = %q, want run-1", snap.ID)
	}
	if len(snap.Zones) != 2 {
		t.Fatalf("Zones = %d, want 2", len(snap.Zones))
	}
	// Emission order preserved: global first.
	if !snap.Zones[0].IsGlobal() {
		t.Errorf("Zones[0] = %q, want global", snap.Zones[0].Zonename)
	}
	if snap.Zones[1].Alias != zone.SomeAlias("amon0") {
		t.Errorf("Zones[1].Alias = %+v, want amon0", snap.Zones[1].Alias)
	}
	if !fs.stream.closed {
		t.Error("stream was not closed")
	}
}

func TestCollect_DefaultArgv(t *testing.T) {
	eng, fs := newTestEngine(t, nil)
	if _, err := eng.Collect(context.Background()); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{"zonememstat", "-H", "-a"}
	if len(fs.gotArgv) != 3 || fs.gotArgv[0] != want[0] || fs.gotArgv[1] != want[1] || fs.gotArgv[2] != want[2] {
		t.Errorf("argv = %v, want %v", fs.gotArgv, want)
	}
}

func TestCollect_EmptyOutputIsEmptySnapshot(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	snap, err := eng.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(snap.Zones) != 0 || len(snap.Skipped) != 0 {
		t.Errorf("snapshot = %+v, want empty", snap)
	}
}

func TestCollect_LaunchFailure(t *testing.T) {
	cause := fmt.Errorf("no such binary")
	eng := &Engine{Config: &config.Config{}, Streamer: &fakeStreamer{err: cause}}
	snap, err := eng.Collect(context.Background())
	if snap != nil {
		t.Errorf("snapshot = %+v, want nil", snap)
	}
	var le *LaunchError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LaunchError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("LaunchError does not wrap the cause")
	}
	if le.Argv[0] != "zonememstat" {
		t.Errorf("Argv[0] = %q, want zonememstat", le.Argv[0])
	}
}

func TestCollect_SkipPolicy(t *testing.T) {
	eng, _ := newTestEngine(t, &config.Config{OnMalformed: "skip"},
		gzLine,
		"this line is junk",
		ngzLine,
	)
	snap, err := eng.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(snap.Zones) != 2 {
		t.Errorf("Zones = %d, want 2", len(snap.Zones))
	}
	if len(snap.Skipped) != 1 {
		t.Fatalf("Skipped = %d, want 1", len(snap.Skipped))
	}
	if snap.Skipped[0].Line != "this line is junk" {
		t.Errorf("Skipped[0].Line = %q", snap.Skipped[0].Line)
	}
	if snap.Skipped[0].Reason == "" {
		t.Error("Skipped[0].Reason is empty")
	}
}

func TestCollect_StrictPolicy(t *testing.T) {
	eng, fs := newTestEngine(t, &config.Config{OnMalformed: "strict"},
		gzLine,
		"this line is junk",
		ngzLine,
	)
	_, err := eng.Collect(context.Background())
	var pe *zone.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *zone.ParseError", err)
	}
	// The abandoned stream must still be reclaimed.
	if !fs.stream.closed {
		t.Error("stream was not closed on abort")
	}
}

func TestCollect_NonZeroExitKeepsRecords(t *testing.T) {
	eng, fs := newTestEngine(t, nil, gzLine)
	fs.stream.code = 1
	snap, err := eng.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if snap.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", snap.ExitCode)
	}
	if len(snap.Zones) != 1 {
		t.Errorf("Zones = %d, want 1", len(snap.Zones))
	}
}

func TestNew_UsesConfiguredRunner(t *testing.T) {
	eng := New(&config.Config{RawTimeout: "5s"})
	if eng.Streamer == nil {
		t.Fatal("Streamer is nil")
	}
}
