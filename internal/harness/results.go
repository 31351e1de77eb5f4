// internal/harness/results.go
// Package: harness
package harness

import "fmt"

// DeriveSpeedups fills in Speedup on every record in place.
//
// The single-process record of a (size, sparsity) pair is the baseline for
// every other process count of that pair; speedup is baseline calc time over
// the record's calc time. Without a baseline, or when either calc time is
// zero, the speedup is marked unavailable and carries no number.
func DeriveSpeedups(records []Record) {
	baselines := make(map[BaselineKey]MetricSet)
	for _, r := range records {
		if r.Point.IsBaseline() {
			baselines[r.Point.BaselineKey()] = r.Mean
		}
	}

	for i := range records {
		r := &records[i]
		if r.Point.IsBaseline() {
			r.Speedup = Speedup{State: SpeedupBaseline}
			continue
		}
		base, ok := baselines[r.Point.BaselineKey()]
		switch {
		case !ok:
			r.Speedup = Speedup{
				State:  SpeedupUnavailable,
				Reason: fmt.Sprintf("no single-process baseline for N=%d sparsity=%s", r.Point.Size, FormatSparsity(r.Point.Sparsity)),
			}
		case base.Calc <= 0:
			r.Speedup = Speedup{State: SpeedupUnavailable, Reason: "baseline calc time is zero"}
		case r.Mean.Calc <= 0:
			r.Speedup = Speedup{State: SpeedupUnavailable, Reason: "calc time is zero"}
		default:
			r.Speedup = Speedup{State: SpeedupAvailable, Value: base.Calc / r.Mean.Calc}
		}
	}
}
