package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tictactoe",
		Short: "Two-player Tic Tac Toe in the terminal",
		Long: `tictactoe runs a local two-player game of Tic Tac Toe with move history,
undo and reset. Every play, undo, reset and rejected attempt is recorded in
an in-memory audit trail that can be printed during or after the game.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPlayCmd())
	return root
}

// Execute builds the command tree and runs it. Called by main.main().
func Execute() error {
	return newRootCmd().Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
