// Package cli implements the pslrisk-admin command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the `pslrisk-admin` command with all subcommands attached.
// NewRootCommand 构建 `pslrisk-admin` 根命令及其全部子命令。
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pslrisk-admin",
		Short: "A CLI tool for the paid sick leave compliance risk service.",
		Long: `pslrisk-admin scores employer activity snapshots offline and prints the
static configuration of the risk model: factor weights, thresholds and model metadata.`,
		SilenceUsage: true,
	}
	root.AddCommand(newScoreCommand(), newFactorsCommand(), newModelCommand())
	return root
}

// Execute is the main entry point for the CLI application.
// It parses the command-line arguments and executes the appropriate command.
// If an error occurs, it prints the error and exits.
// Execute 是 CLI 应用程序的主入口点。
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
