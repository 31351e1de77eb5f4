// internal/report/prometheus.go
// Package: report
package report

import (
	"fmt"
	"strconv"

	"github.com/mwiater/spmvsweep/internal/harness"
	"github.com/prometheus/client_golang/prometheus"
)

const metricNamespace = "spmvsweep"

// NewRegistry builds a registry holding one gauge series per record and
// phase, the available speedups and the sweep totals.
func NewRegistry(ds *harness.Dataset) (*prometheus.Registry, error) {
	pointLabels := []string{"size", "sparsity", "procs"}

	timeSeconds := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "time_seconds",
		Help:      "Mean time per phase over successful repeats.",
	}, append(pointLabels, "phase"))
	speedup := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "speedup",
		Help:      "Calculation speedup against the single-process baseline.",
	}, pointLabels)
	runs := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "successful_runs",
		Help:      "Repeats that produced usable timings.",
	}, pointLabels)
	failed := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "failed_points",
		Help:      "Grid points for which every repeat failed.",
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "sweep_duration_seconds",
		Help:      "Wall-clock duration of the sweep.",
	})

	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{timeSeconds, speedup, runs, failed, duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	for _, r := range ds.Records {
		labels := prometheus.Labels{
			"size":     strconv.Itoa(r.Point.Size),
			"sparsity": harness.FormatSparsity(r.Point.Sparsity),
			"procs":    strconv.Itoa(r.Point.ProcessCount),
		}
		for phase, v := range phases(r.Mean) {
			l := prometheus.Labels{"phase": phase}
			for k, val := range labels {
				l[k] = val
			}
			timeSeconds.With(l).Set(v)
		}
		runs.With(labels).Set(float64(r.SuccessfulRuns))
		if r.Speedup.Available() {
			speedup.With(labels).Set(r.Speedup.Value)
		}
	}
	failed.Set(float64(len(ds.Failed)))
	duration.Set(ds.Duration().Seconds())
	return reg, nil
}

func phases(m harness.MetricSet) map[string]float64 {
	return map[string]float64{
		"build":       m.Build,
		"comm":        m.Comm,
		"calc":        m.Calc,
		"total_csr":   m.TotalCSR,
		"total_dense": m.TotalDense,
	}
}

// WritePrometheusTextfile writes the dataset in the text exposition format,
// suitable for the node_exporter textfile collector.
func WritePrometheusTextfile(path string, ds *harness.Dataset) error {
	reg, err := NewRegistry(ds)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
