package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/breathcheck/internal/content"
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Print the pre-test checklist",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		color.New(color.Bold).Fprintln(out, "Test Guide")
		fmt.Fprintln(out)
		for _, s := range content.GuideSteps() {
			marker := color.New(color.Faint).Sprint("○")
			if s.Ready {
				marker = color.GreenString("●")
			}
			fmt.Fprintf(out, "%s %d. %s\n", marker, s.Number, s.Title)
			fmt.Fprintf(out, "     %s\n", s.Description)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, color.New(color.Faint).Sprint(content.Disclaimer))
	},
}
