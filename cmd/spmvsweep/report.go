// cmd/spmvsweep/report.go
package spmvsweep

import (
	"github.com/mwiater/spmvsweep/internal/cli"
	"github.com/spf13/cobra"
)

var reportFrom string

// reportCmd implements 'report', which re-presents an exported dataset.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the table, charts and exports from a saved dataset",
	Long: `The 'report' command loads a dataset written by 'run --json' and presents it
again with the current output settings. No benchmark runs are made.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return cli.Report(cmd.Context(), cfg, reportFrom, streams(cmd))
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportFrom, "from", "results.json", "dataset written by 'run --json'")
}
