package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mwiater/spmvsweep/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PrintGrid(t *testing.T) {
	cfg := config.Defaults()
	cfg.Sizes = []int{1024, 2048}
	cfg.Sparsities = []float64{0.95}
	cfg.ProcessCounts = []int{1, 4}
	cfg.Repeats = 3

	var buf bytes.Buffer
	PrintGrid(&buf, cfg)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, "4 grid points x 3 repeats = 12 runs (iterations=10)", lines[0])
	assert.Contains(t, lines[1], "N=1024 sparsity=0.95 procs=1")
	assert.Contains(t, lines[1], "mpirun -np 1 "+cfg.ArtifactPath()+" 1024 0.95 10")
	assert.Contains(t, lines[4], "N=2048 sparsity=0.95 procs=4")
}

func Test_ShowConfig_YAMLRoundTrips(t *testing.T) {
	cfg := config.Defaults()
	cfg.Repeats = 7
	cfg.Program.LauncherArgs = []string{"--oversubscribe"}

	var buf bytes.Buffer
	require.NoError(t, ShowConfig(&buf, cfg, true))

	v := config.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(&buf))
	got, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func Test_ShowConfig_Pretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ShowConfig(&buf, config.Defaults(), false))
	assert.Contains(t, buf.String(), "ProcessCounts")
	assert.Contains(t, buf.String(), "mpirun")
}
