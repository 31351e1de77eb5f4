package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_WritePrometheusTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spmvsweep.prom")
	require.NoError(t, WritePrometheusTextfile(path, sampleDataset()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, `spmvsweep_speedup{procs="2",size="1024",sparsity="0.95"} 2`)
	assert.Contains(t, out, `spmvsweep_speedup{procs="4",size="1024",sparsity="0.95"} 4`)
	assert.NotContains(t, out, `spmvsweep_speedup{procs="1"`, "baselines carry no speedup series")
	assert.Contains(t, out, `spmvsweep_time_seconds{phase="calc",procs="1",size="1024",sparsity="0.5"} 0.4`)
	assert.Contains(t, out, `spmvsweep_successful_runs{procs="2",size="1024",sparsity="0.95"} 2`)
	assert.Contains(t, out, "spmvsweep_failed_points 1")
	assert.Contains(t, out, "spmvsweep_sweep_duration_seconds 90")
}
