// cmd/spmvsweep/list_commands.go
package spmvsweep

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// commandsCmd implements 'list commands'.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands with their own flags",
	Long:  `The 'commands' subcommand prints the command tree as a table: the indented command path, its short description and the flags only that command accepts. Global flags are listed once below the table.`,
	Run: func(cmd *cobra.Command, args []string) {
		listAllCommands(cmd.OutOrStdout(), rootCmd)
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
}

type commandEntry struct {
	depth int
	path  string
	short string
	flags []string
}

func listAllCommands(w io.Writer, root *cobra.Command) {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("COMMAND", "DESCRIPTION", "FLAGS")
	for _, e := range commandTree(root, 0) {
		t.Row(strings.Repeat("  ", e.depth)+e.path, e.short, strings.Join(e.flags, " "))
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "Global flags: %s\n", strings.Join(flagNames(root.PersistentFlags()), " "))
}

// commandTree flattens the available commands depth-first.
func commandTree(cmd *cobra.Command, depth int) []commandEntry {
	entries := []commandEntry{{
		depth: depth,
		path:  cmd.CommandPath(),
		short: cmd.Short,
		flags: flagNames(cmd.LocalNonPersistentFlags()),
	}}
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			entries = append(entries, commandTree(sub, depth+1)...)
		}
	}
	return entries
}

func flagNames(fs *pflag.FlagSet) []string {
	var names []string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name != "help" {
			names = append(names, "--"+f.Name)
		}
	})
	return names
}
