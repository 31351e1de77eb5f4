// internal/harness/metrics.go
// Package: harness
package harness

import (
	"math"
	"slices"
)

// simpleQuantile returns the q-quantile (0..1) of a slice (copy-safe).
func simpleQuantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	cp := slices.Clone(values)
	slices.Sort(cp)
	if q <= 0 {
		return cp[0]
	}
	if q >= 1 {
		return cp[len(cp)-1]
	}
	pos := q * float64(len(cp)-1)
	l := int(math.Floor(pos))
	r := int(math.Ceil(pos))
	if l == r {
		return cp[l]
	}
	frac := pos - float64(l)
	return cp[l]*(1-frac) + cp[r]*frac
}

// meanStd returns the arithmetic mean and population standard deviation.
func meanStd(values []float64) (mean, std float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / n
	var varsum float64
	for _, v := range values {
		d := v - mean
		varsum += d * d
	}
	std = math.Sqrt(varsum / n)
	return
}

// column picks one field out of every run.
func column(runs []MetricSet, field func(MetricSet) float64) []float64 {
	out := make([]float64, len(runs))
	for i, m := range runs {
		out[i] = field(m)
	}
	return out
}

var metricFields = []struct {
	get func(MetricSet) float64
	set func(*MetricSet, float64)
}{
	{func(m MetricSet) float64 { return m.Build }, func(m *MetricSet, v float64) { m.Build = v }},
	{func(m MetricSet) float64 { return m.Comm }, func(m *MetricSet, v float64) { m.Comm = v }},
	{func(m MetricSet) float64 { return m.Calc }, func(m *MetricSet, v float64) { m.Calc = v }},
	{func(m MetricSet) float64 { return m.TotalCSR }, func(m *MetricSet, v float64) { m.TotalCSR = v }},
	{func(m MetricSet) float64 { return m.TotalDense }, func(m *MetricSet, v float64) { m.TotalDense = v }},
}

// aggregate computes per-field mean, standard deviation and median over the
// successful runs of one point. All three are zero for an empty slice.
func aggregate(runs []MetricSet) (mean, std, median MetricSet) {
	if len(runs) == 0 {
		return
	}
	for _, f := range metricFields {
		vals := column(runs, f.get)
		mu, sd := meanStd(vals)
		f.set(&mean, mu)
		f.set(&std, sd)
		f.set(&median, simpleQuantile(vals, 0.50))
	}
	return
}
