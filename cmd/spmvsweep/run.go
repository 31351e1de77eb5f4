// cmd/spmvsweep/run.go
package spmvsweep

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mwiater/spmvsweep/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd implements 'run': build, sweep and present.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the benchmark, run the sweep and present the results",
	Long: `The 'run' command builds the benchmark, executes every grid point the
configured number of times, then prints the result table and writes the
configured charts and exports. Ctrl-C stops the running program and discards
the partial sweep.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.Run(ctx, cfg, streams(cmd))
}
