package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootSkipLogin bool

var rootCmd = &cobra.Command{
	Use:   "breathcheck",
	Short: "Breath test demo client",
	Long: `BreathCheck is a terminal demo of a breath-testing health app.

With no arguments, launches the interactive TUI: sign in, follow the test
guide, watch the breath analysis run, then review results, trends and
nurse contact history.

The analysis screen plays a fixed script of timed phases. Two hidden keys
force the result while it runs:
  [   successful result
  ]   failed result

Subcommands run the same pieces without the TUI.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&rootSkipLogin, "skip-login", false, "Start on the home screen")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(guideCmd)
	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
