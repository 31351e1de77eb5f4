package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwiater/spmvsweep/internal/harness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	p1 = harness.SweepPoint{Size: 1024, Sparsity: 0.95, Iterations: 10, ProcessCount: 1}
	p2 = harness.SweepPoint{Size: 1024, Sparsity: 0.95, Iterations: 10, ProcessCount: 2}
)

func Test_New_NonTerminalFallsBackToLines(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, true)
	_, ok := r.(*Line)
	assert.True(t, ok)
	assert.False(t, IsTerminal(&buf))
}

func Test_Line_Output(t *testing.T) {
	var buf bytes.Buffer
	l := NewLine(&buf)
	l.OnSweepStart(2)
	l.OnPointStart(0, 2, p1)
	l.OnRepeatDone(p1, 1, 3, nil)
	l.OnPointDone(0, 2, p1, &harness.Record{Point: p1, SuccessfulRuns: 2, Repeats: 3}, nil)
	l.OnPointDone(1, 2, p2, nil, errors.New("all runs failed"))
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.OnSweepDone(&harness.Dataset{
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Records:    make([]harness.Record, 1),
		Failed:     make([]harness.FailedPoint, 1),
	})
	require.NoError(t, l.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Sweeping 2 grid points", lines[0])
	assert.Equal(t, "[1/2] N=1024 sparsity=0.95 procs=1: ok (2/3 runs)", lines[1])
	assert.Equal(t, "[2/2] N=1024 sparsity=0.95 procs=2: FAILED", lines[2])
	assert.Equal(t, "Sweep finished: 1 ok, 1 failed in 1.5s", lines[3])
}

func update(t *testing.T, m *model, msg tea.Msg) (*model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(*model), cmd
}

func Test_model_UpdateAndView(t *testing.T) {
	m := newModel()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 60, m.bar.Width)

	m, _ = update(t, m, sweepStartMsg{total: 2})
	m, _ = update(t, m, pointStartMsg{index: 0, point: p1})
	m, _ = update(t, m, repeatDoneMsg{repeat: 1, repeats: 3, failed: true})
	view := m.View()
	assert.Contains(t, view, "0/2 points")
	assert.Contains(t, view, "Running N=1024 sparsity=0.95 procs=1 (repeat 1/3 done)")
	assert.Contains(t, view, "1 failed repeat(s) so far")

	m, _ = update(t, m, pointDoneMsg{index: 0, point: p1, runs: 2, repeats: 3})
	m, _ = update(t, m, pointDoneMsg{index: 1, point: p2, failed: true})
	assert.Equal(t, 2, m.done)
	assert.Equal(t, 1, m.failed)
	assert.InDelta(t, 1.0, m.percent(), 1e-9)
	view = m.View()
	assert.Contains(t, view, "2/2 points")
	assert.Contains(t, view, "1 failed")
	assert.Contains(t, view, "(2/3 runs)")
	assert.Contains(t, view, "FAILED")

	m, cmd := update(t, m, sweepDoneMsg{})
	require.NotNil(t, cmd)
	assert.True(t, m.finished)
	assert.Contains(t, m.View(), "Done in")

	// A late abort from Close must not overwrite a finished sweep.
	m, cmd = update(t, m, sweepDoneMsg{aborted: true})
	assert.Nil(t, cmd)
	assert.False(t, m.aborted)
}

func Test_model_RecentIsBounded(t *testing.T) {
	m := newModel()
	m, _ = update(t, m, sweepStartMsg{total: 10})
	for i := 0; i < 10; i++ {
		m, _ = update(t, m, pointDoneMsg{index: i, point: p1, runs: 1, repeats: 1})
	}
	assert.Len(t, m.recent, recentResults)
}

func Test_model_Aborted(t *testing.T) {
	m := newModel()
	m, _ = update(t, m, sweepDoneMsg{aborted: true})
	assert.Contains(t, m.View(), "Sweep aborted")
}
