// internal/report/influx.go
// Package: report
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/mwiater/spmvsweep/internal/harness"
)

// InfluxMeasurement is the measurement name of exported points.
const InfluxMeasurement = "spmv_sweep"

// InfluxExporter writes one point per record to an InfluxDB v2 bucket.
type InfluxExporter struct {
	URL    string
	Token  string
	Org    string
	Bucket string
	Logger *slog.Logger
}

// Export writes every record of ds with a single blocking request.
func (e *InfluxExporter) Export(ctx context.Context, ds *harness.Dataset) error {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	points := InfluxPoints(ds)
	if len(points) == 0 {
		logger.Info("No records to export to InfluxDB")
		return nil
	}

	client := influxdb2.NewClient(e.URL, e.Token)
	defer client.Close()

	writeAPI := client.WriteAPIBlocking(e.Org, e.Bucket)
	if err := writeAPI.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("influx write to %s/%s: %w", e.Org, e.Bucket, err)
	}
	logger.Info("Exported records to InfluxDB",
		slog.String("url", e.URL),
		slog.String("bucket", e.Bucket),
		slog.Int("points", len(points)),
	)
	return nil
}

// InfluxPoints converts records to points timestamped at the end of the
// sweep. Failed grid points are not exported.
func InfluxPoints(ds *harness.Dataset) []*write.Point {
	ts := ds.FinishedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	points := make([]*write.Point, 0, len(ds.Records))
	for _, r := range ds.Records {
		tags := map[string]string{
			"size":     strconv.Itoa(r.Point.Size),
			"sparsity": harness.FormatSparsity(r.Point.Sparsity),
			"procs":    strconv.Itoa(r.Point.ProcessCount),
			"run_id":   ds.RunID,
		}
		fields := map[string]interface{}{
			"build":           r.Mean.Build,
			"comm":            r.Mean.Comm,
			"calc":            r.Mean.Calc,
			"total_csr":       r.Mean.TotalCSR,
			"total_dense":     r.Mean.TotalDense,
			"successful_runs": r.SuccessfulRuns,
			"repeats":         r.Repeats,
			"iterations":      r.Point.Iterations,
		}
		if r.Speedup.Available() {
			fields["speedup"] = r.Speedup.Value
		}
		points = append(points, influxdb2.NewPoint(InfluxMeasurement, tags, fields, ts))
	}
	return points
}
