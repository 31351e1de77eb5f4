package report

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_InfluxPoints(t *testing.T) {
	ds := sampleDataset()
	points := InfluxPoints(ds)
	require.Len(t, points, len(ds.Records))
	assert.Equal(t, InfluxMeasurement, points[0].Name())
	assert.True(t, points[0].Time().Equal(ds.FinishedAt))

	fields := map[string]bool{}
	for _, f := range points[0].FieldList() {
		fields[f.Key] = true
	}
	assert.False(t, fields["speedup"], "baseline has no numeric speedup")
	assert.True(t, fields["calc"])

	fields = map[string]bool{}
	for _, f := range points[1].FieldList() {
		fields[f.Key] = true
	}
	assert.True(t, fields["speedup"])
}

func Test_InfluxExporter_Export(t *testing.T) {
	var body, query, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/write" {
			http.NotFound(w, r)
			return
		}
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		query = r.URL.RawQuery
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	e := &InfluxExporter{URL: srv.URL, Token: "tok", Org: "lab", Bucket: "spmv"}
	require.NoError(t, e.Export(context.Background(), sampleDataset()))

	assert.Contains(t, query, "org=lab")
	assert.Contains(t, query, "bucket=spmv")
	assert.Equal(t, "Token tok", auth)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, body, "spmv_sweep,procs=2,run_id=a1b2c3d4,size=1024,sparsity=0.95 ")
	assert.Contains(t, body, "speedup=2")
	assert.Contains(t, body, "successful_runs=3i")
}

func Test_InfluxExporter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"unauthorized","message":"bad token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := &InfluxExporter{URL: srv.URL, Token: "bad", Org: "lab", Bucket: "spmv"}
	err := e.Export(context.Background(), sampleDataset())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "influx write to lab/spmv")
}
