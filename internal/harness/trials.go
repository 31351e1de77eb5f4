// internal/harness/trials.go
// Package: harness
package harness

import (
	"context"
	"fmt"
	"log/slog"
)

// TrialRunner executes the repeats of one grid point and averages the
// successful ones.
type TrialRunner struct {
	exec     Executor
	logger   *slog.Logger
	observer Observer
}

// NewTrialRunner wires an executor to a logger and progress observer. Nil
// logger and observer are replaced with defaults.
func NewTrialRunner(exec Executor, logger *slog.Logger, observer Observer) *TrialRunner {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &TrialRunner{exec: exec, logger: logger, observer: observer}
}

// Run executes point repeats times, one after another. A repeat fails when
// the program does not exit cleanly or its output lacks a valid timing;
// failures are logged and skipped. The returned Record averages only the
// successful repeats. If none succeeded the error is an *AllRunsFailedError.
// A cancelled context stops the loop and returns ctx.Err().
func (t *TrialRunner) Run(ctx context.Context, point SweepPoint, repeats int) (Record, error) {
	if repeats <= 0 {
		return Record{}, fmt.Errorf("%w: repeats must be positive, got %d", ErrInvalidSweep, repeats)
	}

	runs := make([]MetricSet, 0, repeats)
	var failures []error

	for i := 1; i <= repeats; i++ {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}

		metrics, err := t.trial(ctx, point)
		if err != nil {
			// An interrupted child looks like a failed run; report the interrupt.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Record{}, ctxErr
			}
			t.logger.Warn("Repeat failed",
				slog.Int("size", point.Size),
				slog.Float64("sparsity", point.Sparsity),
				slog.Int("procs", point.ProcessCount),
				slog.Int("repeat", i),
				slog.String("error", err.Error()),
			)
			failures = append(failures, fmt.Errorf("repeat %d: %w", i, err))
			t.observer.OnRepeatDone(point, i, repeats, err)
			continue
		}

		runs = append(runs, metrics)
		t.observer.OnRepeatDone(point, i, repeats, nil)
	}

	if len(runs) == 0 {
		return Record{}, &AllRunsFailedError{Point: point, Attempts: repeats, Errors: failures}
	}

	mean, std, median := aggregate(runs)
	return Record{
		Point:          point,
		Mean:           mean,
		StdDev:         std,
		Median:         median,
		SuccessfulRuns: len(runs),
		Repeats:        repeats,
	}, nil
}

func (t *TrialRunner) trial(ctx context.Context, point SweepPoint) (MetricSet, error) {
	out, err := t.exec.Execute(ctx, point)
	if err != nil {
		return MetricSet{}, err
	}
	if echoed, ok := ParseResultsHeader(out); ok && !headerMatches(point, echoed) {
		t.logger.Warn("Program reported a different configuration",
			slog.String("requested", point.String()),
			slog.String("reported", echoed.String()),
			slog.Int("reported_iterations", echoed.Iterations),
		)
	}
	metrics, err := Extract(out)
	if err != nil {
		return MetricSet{}, fmt.Errorf("extract %s: %w", point, err)
	}
	return metrics, nil
}
