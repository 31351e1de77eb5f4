package report

import (
	"time"

	"github.com/mwiater/spmvsweep/internal/harness"
)

func point(n int, sp float64, procs int) harness.SweepPoint {
	return harness.SweepPoint{Size: n, Sparsity: sp, Iterations: 10, ProcessCount: procs}
}

func record(idx int, p harness.SweepPoint, calc float64) harness.Record {
	return harness.Record{
		Point:     p,
		GridIndex: idx,
		Mean: harness.MetricSet{
			Build:      0.01,
			Comm:       0.002,
			Calc:       calc,
			TotalCSR:   0.012 + calc,
			TotalDense: 0.5,
		},
		SuccessfulRuns: 3,
		Repeats:        3,
	}
}

// sampleDataset covers N=1024 at sparsity 0.5 and 0.95 with procs 1, 2, 4;
// the (1024, 0.5, 4) point failed.
func sampleDataset() *harness.Dataset {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []harness.Record{
		record(0, point(1024, 0.5, 1), 0.4),
		record(1, point(1024, 0.5, 2), 0.2),
		record(3, point(1024, 0.95, 1), 0.08),
		record(4, point(1024, 0.95, 2), 0.04),
		record(5, point(1024, 0.95, 4), 0.02),
	}
	records[3].SuccessfulRuns = 2
	harness.DeriveSpeedups(records)
	return &harness.Dataset{
		RunID:      "a1b2c3d4",
		Iterations: 10,
		Repeats:    3,
		GridSize:   6,
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Records:    records,
		Failed: []harness.FailedPoint{{
			Point:     point(1024, 0.5, 4),
			GridIndex: 2,
			Attempts:  3,
			Errors:    []string{"repeat 1: exit code 1", "repeat 2: exit code 1", "repeat 3: exit code 1"},
		}},
	}
}
