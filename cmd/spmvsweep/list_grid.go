// cmd/spmvsweep/list_grid.go
package spmvsweep

import (
	"github.com/mwiater/spmvsweep/internal/cli"
	"github.com/spf13/cobra"
)

// gridCmd implements 'list grid', a dry run of the sweep order.
var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "List the grid points a run would execute",
	Long:  `The 'grid' subcommand prints every grid point in execution order together with the launcher command line, without building or running anything.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cli.PrintGrid(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func init() {
	listCmd.AddCommand(gridCmd)
}
