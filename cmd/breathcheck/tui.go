package main

import (
	"fmt"
	"log"

	"github.com/fatih/color"

	"github.com/ShayCichocki/breathcheck/internal/config"
	"github.com/ShayCichocki/breathcheck/internal/debuglog"
	"github.com/ShayCichocki/breathcheck/internal/trends"
	"github.com/ShayCichocki/breathcheck/internal/tui"
)

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	script, _, err := resolvePhases(cfg, "", 0)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so log lines go to the debug file or nowhere.
	debugLog, err := debuglog.New(cfg.Logging.DebugFile)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	defer debugLog.Close()
	restore := debugLog.Redirect()
	defer restore()

	program, app := tui.NewProgram(tui.Options{
		Phases:         script,
		DefaultOutcome: cfg.Outcome(),
		Score:          cfg.Demo.Score,
		Improvement:    cfg.Demo.Improvement,
		RefreshRate:    cfg.TUI.RefreshRate,
		TrendsPeriod:   trends.Period(cfg.Trends.DefaultPeriod),
		SkipLogin:      rootSkipLogin,
	})

	log.Printf("[tui] starting with %d phases", len(script))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}

	if r := app.LastResult(); r != nil {
		restore()
		fmt.Printf("Last test: %s", outcomeLabel(r.Outcome))
		if r.Score > 0 {
			fmt.Printf(" (score %d, %s)", r.Score, r.ImprovementLabel())
		}
		if r.Forced {
			fmt.Print(color.New(color.Faint).Sprint(" [forced]"))
		}
		fmt.Println()
	}
	return nil
}
