// cmd/spmvsweep/root.go
package spmvsweep

import (
	"fmt"
	"os"

	"github.com/mwiater/spmvsweep/internal/cli"
	"github.com/mwiater/spmvsweep/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// v holds defaults, environment overrides and the bound persistent flags.
var v = config.New()

// rootCmd is the base Cobra command for the spmvsweep application. Run
// without a subcommand it behaves like 'spmvsweep run'.
var rootCmd = &cobra.Command{
	Use:   "spmvsweep",
	Short: "Sweep an MPI SpMV benchmark over size, sparsity and process count",
	Long: `spmvsweep builds the MPI sparse matrix-vector benchmark, runs it for every
combination of matrix size, sparsity and process count, averages repeated runs
and reports timings and speedup against the single-process baseline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root Cobra command and all registered subcommands.
// It prints any returned error and exits the process with a non-zero
// status code on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"config":       "config",
	"sizes":        "sizes",
	"sparsities":   "sparsities",
	"iterations":   "iterations",
	"procs":        "process_counts",
	"repeats":      "repeats",
	"artifact":     "program.artifact",
	"launcher":     "program.launcher",
	"timeout":      "program.timeout",
	"skip-build":   "build.skip",
	"charts-dir":   "output.charts_dir",
	"json":         "output.json_file",
	"yaml":         "output.yaml_file",
	"metrics-file": "output.metrics_file",
	"influx-url":   "output.influx.url",
	"log-level":    "log.level",
	"log-dir":      "log.dir",
}

func init() {
	rootCmd.RunE = runSweep

	f := rootCmd.PersistentFlags()
	f.String("config", "", "config file (YAML, JSON or TOML)")
	f.IntSlice("sizes", nil, "matrix sizes, e.g. 1024,2048")
	f.StringSlice("sparsities", nil, "sparsities in [0,1), e.g. 0.5,0.95")
	f.Int("iterations", 0, "SpMV iterations per run")
	f.IntSlice("procs", nil, "MPI process counts, e.g. 1,2,4,8")
	f.Int("repeats", 0, "runs per grid point")
	f.String("artifact", "", "path of the built benchmark")
	f.String("launcher", "", "MPI launcher command")
	f.Duration("timeout", 0, "timeout of a single run (0 waits forever)")
	f.Bool("skip-build", false, "do not run the build commands")
	f.String("charts-dir", "", "write PNG charts into this directory")
	f.String("json", "", "write the dataset as JSON")
	f.String("yaml", "", "write the dataset as YAML")
	f.String("metrics-file", "", "write a Prometheus textfile")
	f.String("influx-url", "", "export records to this InfluxDB v2 URL")
	f.String("log-level", "", "debug, info, warn or error")
	f.String("log-dir", "", "also write JSON logs into this directory")
	f.Bool("no-tui", false, "plain progress lines even on a terminal")

	bindFlags(f)
}

func bindFlags(f *pflag.FlagSet) {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, f.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

// loadConfig resolves flags, environment and the config file.
func loadConfig() (config.Config, error) {
	if rootCmd.PersistentFlags().Changed("no-tui") {
		noTUI, _ := rootCmd.PersistentFlags().GetBool("no-tui")
		v.Set("ui.tui", !noTUI)
	}
	return config.Load(v)
}

// streams returns the console destinations of cmd.
func streams(cmd *cobra.Command) cli.Streams {
	return cli.Streams{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
}
