// internal/progress/progress.go
// Package: progress

// Package progress reports sweep progress on the console, either as plain
// lines or as a live bubbletea view when attached to a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/mwiater/spmvsweep/internal/harness"
)

// Reporter is a sweep observer that owns console output until Close.
type Reporter interface {
	harness.Observer
	Close() error
}

// New returns the live view when tui is requested and w is a terminal,
// otherwise the line reporter.
func New(w io.Writer, tui bool) Reporter {
	if tui && IsTerminal(w) {
		return NewTUI(w)
	}
	return NewLine(w)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Line prints one line per finished grid point.
type Line struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLine returns a line reporter writing to w.
func NewLine(w io.Writer) *Line {
	return &Line{w: w}
}

func (l *Line) OnSweepStart(total int) {
	l.printf("Sweeping %d grid points\n", total)
}

func (l *Line) OnPointStart(int, int, harness.SweepPoint) {}

func (l *Line) OnRepeatDone(harness.SweepPoint, int, int, error) {}

func (l *Line) OnPointDone(index, total int, point harness.SweepPoint, rec *harness.Record, err error) {
	if rec == nil {
		l.printf("[%d/%d] %s: FAILED\n", index+1, total, point)
		return
	}
	l.printf("[%d/%d] %s: ok (%d/%d runs)\n", index+1, total, point, rec.SuccessfulRuns, rec.Repeats)
}

func (l *Line) OnSweepDone(ds *harness.Dataset) {
	l.printf("Sweep finished: %d ok, %d failed in %s\n", len(ds.Records), len(ds.Failed), ds.Duration().Round(time.Millisecond))
}

// Close is a no-op; lines are written as events arrive.
func (l *Line) Close() error { return nil }

func (l *Line) printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, format, args...)
}
