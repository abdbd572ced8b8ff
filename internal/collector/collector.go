// Package collector drives the zonememstat process stream through the
// line parser and assembles the resulting records into a snapshot.
package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bahamat/zonememstat/internal/config"
	"github.com/bahamat/zonememstat/internal/report"
	"github.com/bahamat/zonememstat/internal/runner"
	"github.com/bahamat/zonememstat/internal/zone"
)

// LineStream is one running command delivering stdout lines in order.
// Satisfied by *runner.Stream.
type LineStream interface {
	ID() string
	Lines() <-chan string
	Wait() (int, error)
	Close() error
}

// LineStreamer launches a command and streams its stdout. Tests
// substitute a fake so no process is ever spawned.
type LineStreamer interface {
	Stream(ctx context.Context, argv []string) (LineStream, error)
}

// LaunchError wraps a failure to start the external command. It lets
// callers tell "collection failed" apart from "zero zones reported".
type LaunchError struct {
	Argv []string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %s: %v", e.Argv[0], e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Engine holds shared dependencies for collection.
type Engine struct {
	Config   *config.Config
	Streamer LineStreamer
}

// New builds an Engine whose streamer is a runner configured from cfg.
func New(cfg *config.Config) *Engine {
	return &Engine{
		Config: cfg,
		Streamer: runnerStreamer{&runner.Runner{
			Timeout:   cfg.Timeout(),
			MaxLine:   cfg.MaxLine(),
			MaxStderr: cfg.MaxStderr(),
		}},
	}
}

// runnerStreamer adapts runner.Runner to the LineStreamer interface.
type runnerStreamer struct {
	r *runner.Runner
}

func (rs runnerStreamer) Stream(ctx context.Context, argv []string) (LineStream, error) {
	s, err := rs.r.Stream(ctx, argv)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Collect invokes the external command once and parses every stdout
// line into a zone record, preserving emission order (the global zone
// is first by the tool's convention).
//
// A launch failure returns a *LaunchError and no snapshot. Malformed
// lines follow the configured policy: under PolicySkip they are
// recorded on the snapshot as diagnostics; under PolicyStrict the first
// one aborts the collection. A non-zero exit does not invalidate lines
// already parsed; the exit code is recorded on the snapshot.
func (e *Engine) Collect(ctx context.Context) (*report.Snapshot, error) {
	argv := e.Config.Argv()

	stream, err := e.Streamer.Stream(ctx, argv)
	if err != nil {
		return nil, &LaunchError{Argv: argv, Err: err}
	}
	defer stream.Close()

	snap := &report.Snapshot{
		ID:      stream.ID(),
		TakenAt: time.Now().UTC(),
	}

	strict := e.Config.Policy() == config.PolicyStrict
	for line := range stream.Lines() {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m, err := zone.ParseLine(line)
		if err != nil {
			if strict {
				return nil, err
			}
			snap.Skipped = append(snap.Skipped, report.SkippedLine{
				Line:   line,
				Reason: err.Error(),
			})
			continue
		}
		snap.Zones = append(snap.Zones, m)
	}

	code, err := stream.Wait()
	if err != nil {
		return nil, fmt.Errorf("collecting zone memory stats: %w", err)
	}
	snap.ExitCode = code

	return snap, nil
}
