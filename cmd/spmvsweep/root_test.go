// cmd/spmvsweep/root_test.go
package spmvsweep

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs rootCmd with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	return b.String(), err
}

func TestRootCmd(t *testing.T) {
	_, err := execute(t, "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "nonexistent" for "spmvsweep"`)
}

func TestRoot_SubcommandsPresent(t *testing.T) {
	have := map[string]*cobra.Command{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = c
	}
	for _, want := range []string{"run", "build", "report", "config", "list"} {
		require.Contains(t, have, want)
	}

	sub := map[string]bool{}
	for _, sc := range have["list"].Commands() {
		sub[sc.Name()] = true
	}
	assert.True(t, sub["grid"] && sub["commands"], "list subcommands missing: %v", sub)
}

func TestCommands_HaveDescriptions(t *testing.T) {
	var check func(*cobra.Command)
	check = func(cmd *cobra.Command) {
		if cmd.Short == "" || cmd.Long == "" {
			t.Fatalf("command %s missing Short/Long", cmd.Name())
		}
		for _, sc := range cmd.Commands() {
			if sc.IsAvailableCommand() {
				check(sc)
			}
		}
	}
	check(rootCmd)
}

func TestListCommands_PrintsTree(t *testing.T) {
	var buf bytes.Buffer
	listAllCommands(&buf, rootCmd)
	out := buf.String()
	assert.Contains(t, out, "spmvsweep list grid")
	assert.NotContains(t, out, "completion")
	assert.Contains(t, out, "Global flags: ")
	assert.Contains(t, out, "--no-tui")

	rows := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		for _, path := range []string{"spmvsweep report", "spmvsweep config show", "spmvsweep run"} {
			if strings.Contains(line, path) {
				rows[path] = line
			}
		}
	}
	assert.Contains(t, rows["spmvsweep report"], "--from")
	assert.Contains(t, rows["spmvsweep config show"], "--yaml")
	assert.NotContains(t, rows["spmvsweep run"], "--sizes")
}

func TestListGrid_UsesFlags(t *testing.T) {
	out, err := execute(t, "list", "grid", "--sizes", "64,128", "--sparsities", "0.5", "--procs", "1,2", "--repeats", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "4 grid points x 2 repeats = 8 runs (iterations=10)", lines[0])
	assert.Contains(t, lines[4], "N=128 sparsity=0.5 procs=2")
}

func TestConfigShow_FlagOverridesAndValidation(t *testing.T) {
	out, err := execute(t, "config", "show", "--yaml", "--timeout", "45s", "--launcher", "srun")
	require.NoError(t, err)
	assert.Contains(t, out, "timeout: 45s")
	assert.Contains(t, out, "launcher: srun")

	_, err = execute(t, "config", "show", "--sparsities", "1.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sparsities[0] must be < 1")
}
