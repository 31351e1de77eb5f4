package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// outputFor renders a complete program output with the given calc time.
func outputFor(p SweepPoint, m MetricSet) string {
	return fmt.Sprintf("RESULTS: N=%d, Sparsity=%.2f, Iter=%d, Procs=%d\n"+
		"Time_CSR_Build: %f\nTime_CSR_Comm: %f\nTime_CSR_Calc: %f\n"+
		"Time_Total_CSR: %f\nTime_Total_Dense: %f\n",
		p.Size, p.Sparsity, p.Iterations, p.ProcessCount,
		m.Build, m.Comm, m.Calc, m.TotalCSR, m.TotalDense)
}

type fakeResult struct {
	out string
	err error
}

// fakeExecutor replays scripted results per point; points without a script
// get the fallback function.
type fakeExecutor struct {
	mu       sync.Mutex
	scripts  map[SweepPoint][]fakeResult
	fallback func(SweepPoint) (string, error)
	calls    []SweepPoint
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{scripts: map[SweepPoint][]fakeResult{}}
}

func (f *fakeExecutor) script(p SweepPoint, results ...fakeResult) {
	f.scripts[p] = append(f.scripts[p], results...)
}

func (f *fakeExecutor) Execute(ctx context.Context, p SweepPoint) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, p)
	if q := f.scripts[p]; len(q) > 0 {
		f.scripts[p] = q[1:]
		return q[0].out, q[0].err
	}
	if f.fallback != nil {
		return f.fallback(p)
	}
	return "", errors.New("unscripted point " + p.String())
}

func ok(p SweepPoint, calc float64) fakeResult {
	return fakeResult{out: outputFor(p, MetricSet{Build: 0.1, Comm: 0.01, Calc: calc, TotalCSR: calc + 0.11, TotalDense: 1})}
}

func failed(p SweepPoint) fakeResult {
	return fakeResult{err: &ExecutionError{Point: p, ExitCode: 1}}
}

type event struct {
	kind  string
	index int
	point SweepPoint
	err   error
}

type recordingObserver struct {
	events []event
	done   *Dataset
}

func (r *recordingObserver) OnSweepStart(total int) {
	r.events = append(r.events, event{kind: "start", index: total})
}

func (r *recordingObserver) OnPointStart(index, _ int, p SweepPoint) {
	r.events = append(r.events, event{kind: "point", index: index, point: p})
}

func (r *recordingObserver) OnRepeatDone(p SweepPoint, repeat, _ int, err error) {
	r.events = append(r.events, event{kind: "repeat", index: repeat, point: p, err: err})
}

func (r *recordingObserver) OnPointDone(index, _ int, p SweepPoint, _ *Record, err error) {
	r.events = append(r.events, event{kind: "done", index: index, point: p, err: err})
}

func (r *recordingObserver) OnSweepDone(ds *Dataset) {
	r.done = ds
	r.events = append(r.events, event{kind: "end"})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
