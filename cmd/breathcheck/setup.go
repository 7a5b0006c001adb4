package main

import (
	"fmt"

	"github.com/ShayCichocki/breathcheck/internal/config"
	"github.com/ShayCichocki/breathcheck/internal/phases"
	"github.com/ShayCichocki/breathcheck/internal/sequencer"
)

// resolvePhases picks the phase script for a run. An explicit path wins over
// demo.phases_file; with neither, the built-in breath test is used. A speed of
// zero falls back to demo.speed.
func resolvePhases(cfg *config.Config, path string, speed float64) ([]sequencer.Phase, string, error) {
	if path == "" {
		path = cfg.Demo.PhasesFile
	}
	if speed <= 0 {
		speed = cfg.Demo.Speed
	}

	script := phases.BreathTest()
	if path != "" {
		loaded, err := phases.LoadFile(path)
		if err != nil {
			return nil, path, fmt.Errorf("load phases: %w", err)
		}
		script = loaded
	}
	return phases.Scale(script, speed), path, nil
}
