package main

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/breathcheck/internal/config"
	"github.com/ShayCichocki/breathcheck/internal/trends"
)

var (
	trendsPeriod string
	trendsSeed   int64
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Print the score history",
	Long: `Print the placeholder score history for the last 7, 30 or 90 days with
a line chart and summary stats.

The history is generated, not measured. Pass --seed for repeatable output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		period := trends.Period(cfg.Trends.DefaultPeriod)
		if trendsPeriod != "" {
			period, err = trends.ParsePeriod(trendsPeriod)
			if err != nil {
				return err
			}
		}

		seed := trendsSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		series := trends.Generate(period, time.Now(), rand.New(rand.NewSource(seed)))
		printTrends(cmd.OutOrStdout(), period, series)
		return nil
	},
}

func init() {
	trendsCmd.Flags().StringVarP(&trendsPeriod, "period", "p", "", "Window in days: 7, 30 or 90 (default: trends.default_period)")
	trendsCmd.Flags().Int64Var(&trendsSeed, "seed", 0, "Random seed for the generated history")
}

func printTrends(out io.Writer, period trends.Period, series trends.Series) {
	bold := color.New(color.Bold)
	bold.Fprintf(out, "Your Trends (%s)\n\n", period.Label())

	fmt.Fprintln(out, color.CyanString(trends.Chart(series, 60, 10)))
	for _, p := range series {
		if p.Label == "" {
			continue
		}
		fmt.Fprintf(out, "  %-7s %3d\n", p.Label, p.Score)
	}

	s := trends.Stats(series)
	improvement := color.GreenString("%+d", s.Improvement)
	if s.Improvement < 0 {
		improvement = color.RedString("%+d", s.Improvement)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Average Score: %d\n", s.Average)
	fmt.Fprintf(out, "Best Score:    %d\n", s.Best)
	fmt.Fprintf(out, "Improvement:   %s\n", improvement)
}
