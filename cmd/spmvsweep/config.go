// cmd/spmvsweep/config.go
package spmvsweep

import (
	"github.com/mwiater/spmvsweep/internal/cli"
	"github.com/spf13/cobra"
)

// configCmd groups configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Group commands for inspecting configuration",
	Long:  `The 'config' command groups subcommands that inspect the resolved configuration. It performs no action on its own.`,
}

var showYAML bool

// configShowCmd implements 'config show'.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Long:  `The 'show' subcommand prints the configuration after defaults, config file, environment and flags are applied. With --yaml the output can be used as a config file.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return cli.ShowConfig(cmd.OutOrStdout(), cfg, showYAML)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configShowCmd.Flags().BoolVar(&showYAML, "yaml", false, "print as YAML")
}
