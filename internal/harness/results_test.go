package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rec(size int, sp float64, procs int, calc float64) Record {
	return Record{
		Point:          SweepPoint{Size: size, Sparsity: sp, Iterations: 10, ProcessCount: procs},
		Mean:           MetricSet{Calc: calc},
		SuccessfulRuns: 1,
		Repeats:        1,
	}
}

func Test_DeriveSpeedups_Exact(t *testing.T) {
	records := []Record{rec(1024, 0.95, 1, 2.0), rec(1024, 0.95, 4, 0.5)}
	DeriveSpeedups(records)
	assert.Equal(t, SpeedupBaseline, records[0].Speedup.State)
	assert.Equal(t, Speedup{State: SpeedupAvailable, Value: 4.0}, records[1].Speedup)
}

func Test_DeriveSpeedups_MissingBaseline(t *testing.T) {
	records := []Record{
		rec(1024, 0.5, 1, 2.0),
		rec(2048, 0.95, 1, 2.0),
		rec(1024, 0.95, 4, 0.5),
	}
	DeriveSpeedups(records)
	s := records[2].Speedup
	assert.Equal(t, SpeedupUnavailable, s.State)
	assert.False(t, s.Available())
	assert.Zero(t, s.Value)
	assert.Contains(t, s.Reason, "no single-process baseline")
	assert.Equal(t, "unavailable", s.String())
}

func Test_DeriveSpeedups_ZeroCalc(t *testing.T) {
	records := []Record{
		rec(1024, 0.95, 1, 0),
		rec(1024, 0.95, 2, 1),
		rec(2048, 0.95, 1, 1),
		rec(2048, 0.95, 2, 0),
	}
	DeriveSpeedups(records)
	assert.Equal(t, SpeedupUnavailable, records[1].Speedup.State)
	assert.Equal(t, SpeedupUnavailable, records[3].Speedup.State)
}

func Test_DeriveSpeedups_IterationsNotPartOfKey(t *testing.T) {
	base := rec(1024, 0.95, 1, 3.0)
	other := rec(1024, 0.95, 3, 1.0)
	other.Point.Iterations = 99
	records := []Record{base, other}
	DeriveSpeedups(records)
	assert.Equal(t, 3.0, records[1].Speedup.Value)
}
