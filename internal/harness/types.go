// internal/harness/types.go
// Package: harness
package harness

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// SweepPoint is one configuration of the measured program.
type SweepPoint struct {
	Size         int     `json:"size" yaml:"size"`                   // matrix dimension N
	Sparsity     float64 `json:"sparsity" yaml:"sparsity"`           // fraction of zero entries, [0,1)
	Iterations   int     `json:"iterations" yaml:"iterations"`       // passed through to the program
	ProcessCount int     `json:"process_count" yaml:"process_count"` // MPI ranks requested from the launcher
}

// BaselineKey identifies the group of points that share a single-process baseline.
type BaselineKey struct {
	Size     int
	Sparsity float64
}

// BaselineKey returns the (size, sparsity) pair used for speedup lookups.
func (p SweepPoint) BaselineKey() BaselineKey {
	return BaselineKey{Size: p.Size, Sparsity: p.Sparsity}
}

// IsBaseline reports whether the point runs on a single process.
func (p SweepPoint) IsBaseline() bool {
	return p.ProcessCount == 1
}

// String renders the point the way progress and log lines show it.
func (p SweepPoint) String() string {
	return fmt.Sprintf("N=%d sparsity=%s procs=%d", p.Size, FormatSparsity(p.Sparsity), p.ProcessCount)
}

// FormatSparsity renders a sparsity with the shortest exact decimal form,
// which is also the form passed on the program's command line.
func FormatSparsity(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// MetricSet holds the five timings printed by one program run, in seconds.
type MetricSet struct {
	Build      float64 `json:"build" yaml:"build"`             // Time_CSR_Build
	Comm       float64 `json:"comm" yaml:"comm"`               // Time_CSR_Comm
	Calc       float64 `json:"calc" yaml:"calc"`               // Time_CSR_Calc
	TotalCSR   float64 `json:"total_csr" yaml:"total_csr"`     // Time_Total_CSR
	TotalDense float64 `json:"total_dense" yaml:"total_dense"` // Time_Total_Dense
}

// SpeedupState tells how a record's speedup field should be read.
type SpeedupState int

const (
	// SpeedupPending means speedups have not been derived yet.
	SpeedupPending SpeedupState = iota
	// SpeedupBaseline marks the single-process record itself.
	SpeedupBaseline
	// SpeedupAvailable means Value holds baseline.Calc / record.Calc.
	SpeedupAvailable
	// SpeedupUnavailable means no usable baseline existed; Value is meaningless.
	SpeedupUnavailable
)

const (
	speedupBaselineText    = "baseline"
	speedupUnavailableText = "unavailable"
)

// Speedup is the derived baseline-relative metric of a record.
type Speedup struct {
	State  SpeedupState
	Value  float64
	Reason string
}

// Available reports whether Value can be used.
func (s Speedup) Available() bool {
	return s.State == SpeedupAvailable
}

// String returns "2.00", "baseline", "unavailable" or "-" while pending.
func (s Speedup) String() string {
	switch s.State {
	case SpeedupAvailable:
		return strconv.FormatFloat(s.Value, 'f', 2, 64)
	case SpeedupBaseline:
		return speedupBaselineText
	case SpeedupUnavailable:
		return speedupUnavailableText
	default:
		return "-"
	}
}

// MarshalJSON encodes an available speedup as a number and the other
// states as strings ("baseline", "unavailable") or null.
func (s Speedup) MarshalJSON() ([]byte, error) {
	switch s.State {
	case SpeedupAvailable:
		return json.Marshal(s.Value)
	case SpeedupBaseline:
		return json.Marshal(speedupBaselineText)
	case SpeedupUnavailable:
		return json.Marshal(speedupUnavailableText)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *Speedup) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = Speedup{}
		return nil
	}
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		switch text {
		case speedupBaselineText:
			*s = Speedup{State: SpeedupBaseline}
		case speedupUnavailableText:
			*s = Speedup{State: SpeedupUnavailable}
		default:
			return fmt.Errorf("unknown speedup value %q", text)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decode speedup: %w", err)
	}
	*s = Speedup{State: SpeedupAvailable, Value: v}
	return nil
}

// MarshalYAML mirrors MarshalJSON for the YAML export.
func (s Speedup) MarshalYAML() (any, error) {
	switch s.State {
	case SpeedupAvailable:
		return s.Value, nil
	case SpeedupBaseline:
		return speedupBaselineText, nil
	case SpeedupUnavailable:
		return speedupUnavailableText, nil
	default:
		return nil, nil
	}
}

// Record is the averaged result of one grid point with at least one
// successful repeat.
type Record struct {
	Point     SweepPoint `json:"point" yaml:"point"`
	GridIndex int        `json:"grid_index" yaml:"grid_index"`

	// Mean is the arithmetic mean over successful repeats only.
	Mean   MetricSet `json:"mean" yaml:"mean"`
	StdDev MetricSet `json:"stddev" yaml:"stddev"`
	Median MetricSet `json:"median" yaml:"median"`

	SuccessfulRuns int `json:"successful_runs" yaml:"successful_runs"`
	Repeats        int `json:"repeats" yaml:"repeats"`

	Speedup Speedup `json:"speedup" yaml:"speedup"`
}

// FailedPoint is a grid point for which every repeat failed.
type FailedPoint struct {
	Point     SweepPoint `json:"point" yaml:"point"`
	GridIndex int        `json:"grid_index" yaml:"grid_index"`
	Attempts  int        `json:"attempts" yaml:"attempts"`
	Errors    []string   `json:"errors" yaml:"errors"`
}

// Dataset is the outcome of a full sweep. Records and Failed are each in
// grid-enumeration order.
type Dataset struct {
	RunID      string        `json:"run_id" yaml:"run_id"`
	Iterations int           `json:"iterations" yaml:"iterations"`
	Repeats    int           `json:"repeats" yaml:"repeats"`
	GridSize   int           `json:"grid_size" yaml:"grid_size"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time     `json:"finished_at" yaml:"finished_at"`
	Records    []Record      `json:"records" yaml:"records"`
	Failed     []FailedPoint `json:"failed" yaml:"failed"`
}

// Cell is one grid position: exactly one of Record or Failed is set.
type Cell struct {
	Record *Record
	Failed *FailedPoint
}

// Point returns the grid point of the cell.
func (c Cell) Point() SweepPoint {
	if c.Record != nil {
		return c.Record.Point
	}
	return c.Failed.Point
}

// GridIndex returns the cell's position in grid-enumeration order.
func (c Cell) GridIndex() int {
	if c.Record != nil {
		return c.Record.GridIndex
	}
	return c.Failed.GridIndex
}

// Cells merges records and failures back into grid order.
func (d *Dataset) Cells() []Cell {
	cells := make([]Cell, 0, len(d.Records)+len(d.Failed))
	for i := range d.Records {
		cells = append(cells, Cell{Record: &d.Records[i]})
	}
	for i := range d.Failed {
		cells = append(cells, Cell{Failed: &d.Failed[i]})
	}
	sort.SliceStable(cells, func(a, b int) bool {
		return cells[a].GridIndex() < cells[b].GridIndex()
	})
	return cells
}

// Duration is the wall-clock time of the sweep.
func (d *Dataset) Duration() time.Duration {
	if d.FinishedAt.IsZero() {
		return 0
	}
	return d.FinishedAt.Sub(d.StartedAt)
}

// SweepConfig is the grid and repetition setup of one sweep.
type SweepConfig struct {
	Sizes         []int     `json:"sizes"`
	Sparsities    []float64 `json:"sparsities"`
	ProcessCounts []int     `json:"process_counts"`
	Iterations    int       `json:"iterations"`
	Repeats       int       `json:"repeats"`
}

// GridSize is the number of points Grid will enumerate.
func (c SweepConfig) GridSize() int {
	return len(c.Sizes) * len(c.Sparsities) * len(c.ProcessCounts)
}
