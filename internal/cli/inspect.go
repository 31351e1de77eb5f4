// internal/cli/inspect.go
// Package: cli
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/mwiater/spmvsweep/internal/config"
	"github.com/mwiater/spmvsweep/internal/harness"
	"gopkg.in/yaml.v3"
)

// ShowConfig prints the resolved configuration, either pretty-printed or as
// YAML that can be passed back with --config.
func ShowConfig(w io.Writer, cfg config.Config, asYAML bool) error {
	if !asYAML {
		_, err := pp.Fprintln(w, cfg)
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// PrintGrid lists the points a run would execute, in execution order.
func PrintGrid(w io.Writer, cfg config.Config) {
	sc := cfg.SweepConfig()
	points := harness.Grid(sc)
	fmt.Fprintf(w, "%d grid points x %d repeats = %d runs (iterations=%d)\n",
		len(points), sc.Repeats, len(points)*sc.Repeats, sc.Iterations)

	exec := NewExecutor(cfg, nil)
	width := len(fmt.Sprint(len(points)))
	for i, p := range points {
		fmt.Fprintf(w, "  %*d  %-36s %s\n", width, i+1, p, strings.Join(exec.Args(p), " "))
	}
}
