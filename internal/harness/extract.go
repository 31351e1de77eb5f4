// internal/harness/extract.go
// Package: harness
package harness

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Output tags printed by the measured program. These strings are a fixed
// contract with the program and must not change.
const (
	TagBuild      = "Time_CSR_Build"
	TagComm       = "Time_CSR_Comm"
	TagCalc       = "Time_CSR_Calc"
	TagTotalCSR   = "Time_Total_CSR"
	TagTotalDense = "Time_Total_Dense"
)

type metricPattern struct {
	tag string
	re  *regexp.Regexp
	set func(*MetricSet, float64)
}

func tagPattern(tag string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(tag) + `:[ \t]*(\S+)`)
}

var decimalLiteral = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

var metricPatterns = []metricPattern{
	{TagBuild, tagPattern(TagBuild), func(m *MetricSet, v float64) { m.Build = v }},
	{TagComm, tagPattern(TagComm), func(m *MetricSet, v float64) { m.Comm = v }},
	{TagCalc, tagPattern(TagCalc), func(m *MetricSet, v float64) { m.Calc = v }},
	{TagTotalCSR, tagPattern(TagTotalCSR), func(m *MetricSet, v float64) { m.TotalCSR = v }},
	{TagTotalDense, tagPattern(TagTotalDense), func(m *MetricSet, v float64) { m.TotalDense = v }},
}

// Extract parses the five timings out of one run's stdout.
//
// Extraction is all-or-nothing: if any tag is missing or carries a value that
// is not a finite, non-negative number, an error is returned and the MetricSet
// is the zero value. Tags are searched independently and the first match of
// each wins; unrelated text is ignored.
func Extract(text string) (MetricSet, error) {
	var m MetricSet
	for _, p := range metricPatterns {
		match := p.re.FindStringSubmatch(text)
		if match == nil {
			return MetricSet{}, fmt.Errorf("%w: %s", ErrMetricMissing, p.tag)
		}
		if !decimalLiteral.MatchString(match[1]) {
			return MetricSet{}, fmt.Errorf("%w: %s=%q", ErrMetricInvalid, p.tag, match[1])
		}
		v, err := strconv.ParseFloat(match[1], 64)
		if err != nil || math.IsInf(v, 0) {
			return MetricSet{}, fmt.Errorf("%w: %s=%q", ErrMetricInvalid, p.tag, match[1])
		}
		p.set(&m, v)
	}
	return m, nil
}

var resultsHeader = regexp.MustCompile(`RESULTS:\s*N=(\d+),\s*Sparsity=([0-9.]+),\s*Iter=(\d+),\s*Procs=(\d+)`)

// ParseResultsHeader reads the "RESULTS: N=.., Sparsity=.., Iter=.., Procs=.."
// banner the program prints before its timings. ok is false when the banner
// is absent or malformed.
func ParseResultsHeader(text string) (SweepPoint, bool) {
	match := resultsHeader.FindStringSubmatch(text)
	if match == nil {
		return SweepPoint{}, false
	}
	n, err1 := strconv.Atoi(match[1])
	sp, err2 := strconv.ParseFloat(match[2], 64)
	iter, err3 := strconv.Atoi(match[3])
	procs, err4 := strconv.Atoi(match[4])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return SweepPoint{}, false
	}
	return SweepPoint{Size: n, Sparsity: sp, Iterations: iter, ProcessCount: procs}, true
}

// headerMatches compares an echoed banner with the requested point. The
// program prints sparsity with two decimals, so it is compared at that
// precision.
func headerMatches(want, got SweepPoint) bool {
	return want.Size == got.Size &&
		want.Iterations == got.Iterations &&
		want.ProcessCount == got.ProcessCount &&
		math.Abs(want.Sparsity-got.Sparsity) < 0.005+1e-9
}
