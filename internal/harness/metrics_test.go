package harness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_meanStd(t *testing.T) {
	mean, std := meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 5.0, mean)
	assert.Equal(t, 2.0, std)

	mean, std = meanStd(nil)
	assert.Zero(t, mean)
	assert.Zero(t, std)
}

func Test_simpleQuantile(t *testing.T) {
	vals := []float64{3, 1, 2}
	assert.Equal(t, 2.0, simpleQuantile(vals, 0.5))
	assert.Equal(t, 1.0, simpleQuantile(vals, 0))
	assert.Equal(t, 3.0, simpleQuantile(vals, 1))
	assert.Equal(t, 2.5, simpleQuantile([]float64{1, 2, 3, 4}, 0.5))
	assert.Equal(t, []float64{3, 1, 2}, vals, "input must not be reordered")
}

func Test_aggregate(t *testing.T) {
	runs := []MetricSet{
		{Build: 1, Comm: 0.1, Calc: 4, TotalCSR: 5, TotalDense: 10},
		{Build: 3, Comm: 0.3, Calc: 2, TotalCSR: 5, TotalDense: 20},
	}
	mean, std, median := aggregate(runs)
	assert.Equal(t, 2.0, mean.Build)
	assert.InDelta(t, 0.2, mean.Comm, 1e-12)
	assert.Equal(t, 3.0, mean.Calc)
	assert.Equal(t, 5.0, mean.TotalCSR)
	assert.Equal(t, 15.0, mean.TotalDense)
	assert.Equal(t, 1.0, std.Calc)
	assert.Zero(t, std.TotalCSR)
	assert.Equal(t, mean.Calc, median.Calc)

	mean, std, median = aggregate(nil)
	assert.Equal(t, MetricSet{}, mean)
	assert.Equal(t, MetricSet{}, std)
	assert.Equal(t, MetricSet{}, median)
	assert.False(t, math.IsNaN(mean.Calc))
}
