// cmd/spmvsweep/build.go
package spmvsweep

import (
	"os"
	"os/signal"

	"github.com/mwiater/spmvsweep/internal/cli"
	"github.com/spf13/cobra"
)

// buildCmd implements 'build', the build step on its own.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the benchmark without running a sweep",
	Long:  `The 'build' command runs the configured clean and build commands and checks that the benchmark artifact exists.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return cli.Build(ctx, cfg, streams(cmd))
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
