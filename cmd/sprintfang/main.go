// Package main provides the entry point for the sprintfang CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sprintfang/cmd/sprintfang/commands"
	"github.com/Sumatoshi-tech/sprintfang/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sprintfang",
		Short: "Sprintfang - sprint export processing and burndown reporting",
		Long: `Sprintfang turns periodic tracker CSV exports into snapshot history,
day-over-day change logs, worklog summaries, and burndown series.

Commands:
  run       Process one export
  serve     Accept uploads over HTTP`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "sprintfang %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
