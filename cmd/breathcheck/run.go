package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/breathcheck/internal/config"
	"github.com/ShayCichocki/breathcheck/internal/debuglog"
	"github.com/ShayCichocki/breathcheck/internal/phases"
	"github.com/ShayCichocki/breathcheck/internal/sequencer"
	"github.com/ShayCichocki/breathcheck/pkg/models"
)

var (
	runOverride      string
	runOverrideAfter time.Duration
	runPhasesFile    string
	runSpeed         float64
	runWatch         bool
	runVerbose       bool
)

// errRunCancelled is returned when a run is interrupted before it ends.
var errRunCancelled = errors.New("run cancelled")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play the breath analysis without the TUI",
	Long: `Run the breath analysis phases headless and print each phase as it
becomes active, followed by the result.

The script defaults to the built-in breath test (7s, 8s, 5s). Use --phases
to load a YAML script instead:

  phases:
    - title: Warming up
      subtitle: Hold still
      icon: activity
      duration: 2s

--override forces the result the way the hidden tap corners do in the app.
With --override-after the override lands part way through the run.

--watch replays the script every time the phases file changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		var override models.Outcome
		if runOverride != "" {
			override, err = models.ParseOutcome(runOverride)
			if err != nil {
				return err
			}
		}

		script, path, err := resolvePhases(cfg, runPhasesFile, runSpeed)
		if err != nil {
			return err
		}
		if runWatch && path == "" {
			return errors.New("--watch needs a phases file (--phases or demo.phases_file)")
		}

		if !runVerbose {
			debugLog, err := debuglog.New(cfg.Logging.DebugFile)
			if err != nil {
				return fmt.Errorf("open debug log: %w", err)
			}
			defer debugLog.Close()
			defer debugLog.Redirect()()
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case <-sigCh:
				log.Println("[run] received shutdown signal")
				cancel()
			case <-ctx.Done():
			}
		}()

		opts := runOptions{
			Phases:         script,
			Override:       override,
			OverrideAfter:  runOverrideAfter,
			DefaultOutcome: cfg.Outcome(),
			Score:          cfg.Demo.Score,
			Improvement:    cfg.Demo.Improvement,
			Out:            cmd.OutOrStdout(),
		}

		if runWatch {
			speed := runSpeed
			if speed <= 0 {
				speed = cfg.Demo.Speed
			}
			return watchAndRun(ctx, path, speed, opts)
		}

		_, err = runOnce(ctx, sequencer.New(), opts)
		return err
	},
}

func init() {
	runCmd.Flags().StringVar(&runOverride, "override", "", "Force the result: success or failure")
	runCmd.Flags().DurationVar(&runOverrideAfter, "override-after", 0, "Delay before --override lands")
	runCmd.Flags().StringVar(&runPhasesFile, "phases", "", "YAML phase script (default: built-in breath test)")
	runCmd.Flags().Float64Var(&runSpeed, "speed", 0, "Duration multiplier, e.g. 0.1 for a quick demo (default: demo.speed)")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Replay whenever the phases file changes")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print sequencer log lines to stderr")
}

// runOptions configures one headless run.
type runOptions struct {
	Phases []sequencer.Phase
	// Override, when set, ends the run with this outcome after OverrideAfter.
	Override      models.Outcome
	OverrideAfter time.Duration

	DefaultOutcome models.Outcome
	Score          int
	Improvement    int

	Out io.Writer
}

// runOnce plays opts.Phases on seq, printing each phase, and returns the result.
func runOnce(ctx context.Context, seq *sequencer.Sequencer, opts runOptions) (models.TestResult, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	heading := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)
	total := len(opts.Phases)

	cb := sequencer.Callbacks{
		OnPhaseChange: func(index int, p sequencer.Phase) {
			heading.Fprintf(out, "[%d/%d] %s\n", index+1, total, p.Title)
			if p.Subtitle != "" {
				dim.Fprintf(out, "      %s\n", p.Subtitle)
			}
		},
		OnProgress: func(p sequencer.Progress) {
			dim.Fprintf(out, "      %3.0f%% -> %3.0f%% over %s\n", p.From*100, p.Target*100, p.Window)
		},
	}

	runID, err := seq.Start(opts.Phases, cb)
	if err != nil {
		return models.TestResult{}, err
	}

	if opts.Override != "" {
		outcome := opts.Override
		timer := time.AfterFunc(opts.OverrideAfter, func() {
			seq.Override(outcome)
		})
		defer timer.Stop()
	}

	st, err := seq.Wait(ctx)
	if err != nil {
		seq.Cancel()
		fmt.Fprintln(out, color.YellowString("Cancelled"))
		return models.TestResult{}, fmt.Errorf("%w: %v", errRunCancelled, err)
	}

	result := models.TestResult{RunID: runID, TakenAt: time.Now()}
	switch st.Status {
	case sequencer.StatusOverridden:
		result.Outcome = st.Outcome
		result.Forced = true
	case sequencer.StatusCompleted:
		result.Outcome = opts.DefaultOutcome
	default:
		return models.TestResult{}, fmt.Errorf("%w: run ended as %s", errRunCancelled, st.Status)
	}
	if result.Outcome == models.OutcomeSuccess {
		result.Score = opts.Score
		result.Improvement = opts.Improvement
	}

	printResult(out, result)
	return result, nil
}

// watchAndRun plays the script, then replays it whenever the file at path
// changes, until ctx is done. Scripts that fail to parse are reported and the
// previous one is kept. All output happens on the calling goroutine, between
// runs.
func watchAndRun(ctx context.Context, path string, speed float64, opts runOptions) error {
	changes := make(chan []sequencer.Phase, 1)
	parseErrs := make(chan error, 1)
	watchErr := make(chan error, 1)

	go func() {
		watchErr <- phases.Watch(ctx, path, func(p []sequencer.Phase, err error) {
			if err != nil {
				replaceLatest(parseErrs, err)
				return
			}
			replaceLatest(changes, p)
		})
	}()

	seq := sequencer.New()
	for {
		if _, err := runOnce(ctx, seq, opts); err != nil {
			if errors.Is(err, errRunCancelled) {
				return nil
			}
			return err
		}

		fmt.Fprintln(opts.Out, color.New(color.Faint).Sprintf("Watching %s for changes (ctrl+c to stop)", path))
	wait:
		for {
			select {
			case <-ctx.Done():
				return nil
			case err := <-watchErr:
				return err
			case err := <-parseErrs:
				fmt.Fprintln(opts.Out, color.RedString("Ignoring %s: %v", path, err))
			case p := <-changes:
				opts.Phases = phases.Scale(p, speed)
				fmt.Fprintln(opts.Out)
				break wait
			}
		}
	}
}

// replaceLatest puts v on a one-slot channel, dropping any value not yet read
// so a slow reader only sees the newest.
func replaceLatest[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

func printResult(out io.Writer, r models.TestResult) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Result: %s", outcomeLabel(r.Outcome))
	if r.Forced {
		fmt.Fprint(out, color.New(color.Faint).Sprint(" (forced)"))
	}
	fmt.Fprintln(out)

	if r.Outcome == models.OutcomeSuccess {
		band := r.Band()
		fmt.Fprintf(out, "Score:  %s %s\n", bandColor(band).Sprint(r.Score), band)
		fmt.Fprintf(out, "Change: %s since last test\n", color.GreenString(r.ImprovementLabel()))
	}
}

func outcomeLabel(o models.Outcome) string {
	if o == models.OutcomeSuccess {
		return color.GreenString("✓ Test Complete")
	}
	return color.RedString("✗ Test Incomplete")
}

func bandColor(b models.ScoreBand) *color.Color {
	switch b {
	case models.BandExcellent:
		return color.New(color.FgGreen, color.Bold)
	case models.BandGood:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
