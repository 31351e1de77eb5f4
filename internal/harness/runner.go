// internal/harness/runner.go
// Package: harness
package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Grid enumerates every point of cfg: sizes outermost, then sparsities, then
// process counts.
func Grid(cfg SweepConfig) []SweepPoint {
	points := make([]SweepPoint, 0, cfg.GridSize())
	for _, n := range cfg.Sizes {
		for _, sp := range cfg.Sparsities {
			for _, p := range cfg.ProcessCounts {
				points = append(points, SweepPoint{
					Size:         n,
					Sparsity:     sp,
					Iterations:   cfg.Iterations,
					ProcessCount: p,
				})
			}
		}
	}
	return points
}

// SweepOption customises RunSweep.
type SweepOption func(*sweepOptions)

type sweepOptions struct {
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
	runID    string
}

// WithLogger sets the logger used by the sweep and its trials.
func WithLogger(l *slog.Logger) SweepOption {
	return func(o *sweepOptions) { o.logger = l }
}

// WithObserver sets the progress observer.
func WithObserver(obs Observer) SweepOption {
	return func(o *sweepOptions) { o.observer = obs }
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) SweepOption {
	return func(o *sweepOptions) { o.runID = id }
}

// withClock is used by tests.
func withClock(now func() time.Time) SweepOption {
	return func(o *sweepOptions) { o.now = now }
}

// RunSweep measures every grid point of cfg in order and returns the
// completed dataset with speedups attached.
//
// A point whose repeats all fail is recorded in Dataset.Failed and the sweep
// moves on. The only error that stops a sweep midway is context
// cancellation; in that case the partial dataset is discarded.
func RunSweep(ctx context.Context, cfg SweepConfig, exec Executor, opts ...SweepOption) (*Dataset, error) {
	o := sweepOptions{
		logger:   slog.Default(),
		observer: NopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.observer == nil {
		o.observer = NopObserver{}
	}
	if o.runID == "" {
		o.runID = uuid.NewString()[:8]
	}

	if cfg.GridSize() == 0 {
		return nil, fmt.Errorf("%w: grid is empty", ErrInvalidSweep)
	}
	if cfg.Repeats <= 0 {
		return nil, fmt.Errorf("%w: repeats must be positive, got %d", ErrInvalidSweep, cfg.Repeats)
	}
	if exec == nil {
		return nil, fmt.Errorf("%w: no executor", ErrInvalidSweep)
	}

	points := Grid(cfg)
	total := len(points)
	logger := o.logger.With(slog.String("run_id", o.runID))
	trials := NewTrialRunner(exec, logger, o.observer)

	ds := &Dataset{
		RunID:      o.runID,
		Iterations: cfg.Iterations,
		Repeats:    cfg.Repeats,
		GridSize:   total,
		StartedAt:  o.now(),
		Records:    make([]Record, 0, total),
	}

	logger.Info("Sweep started",
		slog.Int("points", total),
		slog.Int("repeats", cfg.Repeats),
		slog.Int("iterations", cfg.Iterations),
	)
	o.observer.OnSweepStart(total)

	for i, point := range points {
		o.observer.OnPointStart(i, total, point)

		rec, err := trials.Run(ctx, point, cfg.Repeats)
		if err != nil {
			var allFailed *AllRunsFailedError
			if !errors.As(err, &allFailed) {
				logger.Warn("Sweep aborted",
					slog.Int("completed_points", i),
					slog.String("error", err.Error()),
				)
				return nil, fmt.Errorf("sweep aborted at %s: %w", point, err)
			}
			logger.Error("All repeats failed",
				slog.Int("size", point.Size),
				slog.Float64("sparsity", point.Sparsity),
				slog.Int("procs", point.ProcessCount),
				slog.Int("attempts", allFailed.Attempts),
			)
			ds.Failed = append(ds.Failed, FailedPoint{
				Point:     point,
				GridIndex: i,
				Attempts:  allFailed.Attempts,
				Errors:    allFailed.messages(),
			})
			o.observer.OnPointDone(i, total, point, nil, err)
			continue
		}

		rec.GridIndex = i
		ds.Records = append(ds.Records, rec)
		logger.Info("Point finished",
			slog.Int("size", point.Size),
			slog.Float64("sparsity", point.Sparsity),
			slog.Int("procs", point.ProcessCount),
			slog.Int("successful_runs", rec.SuccessfulRuns),
			slog.Float64("calc_mean", rec.Mean.Calc),
		)
		o.observer.OnPointDone(i, total, point, &ds.Records[len(ds.Records)-1], nil)
	}

	DeriveSpeedups(ds.Records)
	ds.FinishedAt = o.now()

	logger.Info("Sweep finished",
		slog.Int("records", len(ds.Records)),
		slog.Int("failed", len(ds.Failed)),
		slog.Duration("duration", ds.Duration()),
	)
	o.observer.OnSweepDone(ds)
	return ds, nil
}
