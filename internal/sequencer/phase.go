package sequencer

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidConfiguration is returned when a phase list cannot be run.
	ErrInvalidConfiguration = errors.New("invalid phase configuration")
	// ErrAlreadyRunning is returned by Start while a run is in progress.
	ErrAlreadyRunning = errors.New("sequencer already running")
)

// Phase is one named, timed step of a progress display.
type Phase struct {
	// Title is the headline shown while the phase is active.
	Title string `yaml:"title" json:"title"`
	// Subtitle is the secondary line shown under the title.
	Subtitle string `yaml:"subtitle" json:"subtitle"`
	// Icon is an opaque presentation handle. The sequencer never reads it.
	Icon string `yaml:"icon" json:"icon"`
	// Duration is how long the phase stays current before the next one.
	Duration time.Duration `yaml:"-" json:"duration"`
}

// Validate checks that phases is non-empty and every duration is positive.
func Validate(phases []Phase) error {
	if len(phases) == 0 {
		return fmt.Errorf("%w: no phases", ErrInvalidConfiguration)
	}
	for i, p := range phases {
		if p.Duration <= 0 {
			return fmt.Errorf("%w: phase %d (%q) has non-positive duration %s",
				ErrInvalidConfiguration, i, p.Title, p.Duration)
		}
	}
	return nil
}

// Total returns the sum of all phase durations.
func Total(phases []Phase) time.Duration {
	var total time.Duration
	for _, p := range phases {
		total += p.Duration
	}
	return total
}

// Progress is the target value reported when a phase becomes active. Renderers
// move their bar from From to Target over Window.
type Progress struct {
	RunID  string
	Index  int
	From   float64
	Target float64
	Window time.Duration
}

// At returns the interpolated fraction after elapsed time into the window.
func (p Progress) At(elapsed time.Duration) float64 {
	if p.Window <= 0 || elapsed >= p.Window {
		return p.Target
	}
	if elapsed <= 0 {
		return p.From
	}
	return p.From + (p.Target-p.From)*float64(elapsed)/float64(p.Window)
}
