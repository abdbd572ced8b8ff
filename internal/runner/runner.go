// Package runner executes an external command and exposes its standard
// output as an ordered stream of lines, with timeouts and output size
// limits. The child process lifecycle is owned entirely by the Stream:
// every exit path, including abandoned consumption, reaps the child.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Default limits applied when the corresponding Runner field is zero.
const (
	DefaultMaxLine   = 64 << 10 // bytes per stdout line
	DefaultMaxStderr = 64 << 10 // bytes of captured stderr
)

// Runner launches commands and streams their standard output.
type Runner struct {
	Timeout   time.Duration // 0 means no deadline
	MaxLine   int           // longest stdout line accepted, bytes
	MaxStderr int           // stderr capture cap, bytes
}

// Stream is a running command whose stdout is delivered line by line.
//
// Lines delivers stdout lines in emission order and is closed at
// end-of-stream. Stderr is captured (capped) for diagnostics and never
// enters the line stream. The caller must call Wait or Close to reap
// the child process.
type Stream struct {
	runID string
	lines chan string

	cmd    *exec.Cmd
	cancel context.CancelFunc
	stderr *limitWriter
	done   chan struct{} // closed when the stdout reader finishes

	waitOnce sync.Once
	waitCode int
	waitErr  error
	scanErr  error
}

// Stream launches argv[0] with the remaining arguments and returns a
// Stream over its standard output. A launch failure (missing binary,
// spawn error) is reported here, before any line is produced, so it is
// always distinguishable from a command that emits no output.
func (r *Runner) Stream(ctx context.Context, argv []string) (*Stream, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty argv")
	}

	maxLine := r.MaxLine
	if maxLine <= 0 {
		maxLine = DefaultMaxLine
	}
	maxStderr := r.MaxStderr
	if maxStderr <= 0 {
		maxStderr = DefaultMaxStderr
	}

	var cancel context.CancelFunc
	if r.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stderr := &limitWriter{buf: &bytes.Buffer{}, limit: maxStderr}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("piping %s: %w", argv[0], err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("launching %s: %w", argv[0], err)
	}

	s := &Stream{
		runID:  uuid.New().String(),
		lines:  make(chan string),
		cmd:    cmd,
		cancel: cancel,
		stderr: stderr,
		done:   make(chan struct{}),
	}

	// Closing the pipe on cancellation unblocks the scanner even when
	// an orphaned grandchild keeps the write end open after the kill.
	go func() {
		<-ctx.Done()
		stdout.Close()
	}()

	go func() {
		defer close(s.done)
		defer close(s.lines)
		sc := bufio.NewScanner(stdout)
		sc.Buffer(make([]byte, 0, 64<<10), maxLine)
		for sc.Scan() {
			select {
			case s.lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		s.scanErr = sc.Err()
	}()

	return s, nil
}

// ID returns the unique identifier assigned to this invocation.
func (s *Stream) ID() string { return s.runID }

// Lines returns the channel of stdout lines, closed at end-of-stream.
func (s *Stream) Lines() <-chan string { return s.lines }

// Wait reaps the child process and returns its exit code. It blocks
// until the line stream has drained (or the context was cancelled).
// A non-zero exit code is returned without error; lines consumed before
// the exit remain valid. Wait is safe to call more than once.
func (s *Stream) Wait() (int, error) {
	<-s.done
	s.waitOnce.Do(func() {
		err := s.cmd.Wait()
		s.cancel()
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				s.waitCode = exitErr.ExitCode()
			} else {
				s.waitErr = fmt.Errorf("waiting for %s: %w", s.cmd.Path, err)
				return
			}
		}
		if s.scanErr != nil {
			s.waitErr = fmt.Errorf("reading %s output: %w", s.cmd.Path, s.scanErr)
		}
	})
	return s.waitCode, s.waitErr
}

// Close terminates the command if it is still running, discards any
// unconsumed lines, and reaps the child. Use it when abandoning a
// stream before end-of-output.
func (s *Stream) Close() error {
	s.cancel()
	for range s.lines {
	}
	_, err := s.Wait()
	return err
}

// Stderr returns the captured (possibly truncated) stderr output.
// Only meaningful after Wait or Close.
func (s *Stream) Stderr() string {
	return s.stderr.buf.String()
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
