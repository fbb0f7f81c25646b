// Package cli provides the command-line interface for ascendlog.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ascendlog/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return 0
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ascendlog",
		Short: "Parse and analyze noisy progression journals",
		Long: `Ascendlog recovers structured progression entries from a loosely
formatted journal and computes analytics over them.

It extracts:
  - Stage and grade progress with timestamps
  - Breakthrough events
  - Time-to-next-milestone readings

and derives per-stage durations, daily rates, efficiency, and a
completion prediction for the current stage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewAppendCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewDoctorCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
