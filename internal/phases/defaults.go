// Package phases holds the phase scripts the loading screen plays, and loads
// custom scripts from YAML files.
package phases

import (
	"time"

	"github.com/ShayCichocki/breathcheck/internal/sequencer"
)

// Icon handles understood by the renderers.
const (
	IconActivity = "activity"
	IconHeart    = "heart"
	IconCheck    = "check-circle"
)

// BreathTest returns the script shown while a breath sample is analysed.
func BreathTest() []sequencer.Phase {
	return []sequencer.Phase{
		{
			Title:    "We're retrieving your breath data...",
			Subtitle: "Please remain calm and breathe normally",
			Icon:     IconActivity,
			Duration: 7 * time.Second,
		},
		{
			Title:    "We're analyzing your breathing patterns...",
			Subtitle: "Our system is carefully reviewing your data",
			Icon:     IconHeart,
			Duration: 8 * time.Second,
		},
		{
			Title:    "We're preparing your personalized results...",
			Subtitle: "Almost ready to show your breath analysis",
			Icon:     IconCheck,
			Duration: 5 * time.Second,
		},
	}
}

// Scale returns a copy of phases with every duration multiplied by factor.
// Durations never drop below one millisecond, so a scaled script stays valid.
// A non-positive factor returns the phases unchanged.
func Scale(phases []sequencer.Phase, factor float64) []sequencer.Phase {
	out := append([]sequencer.Phase(nil), phases...)
	if factor <= 0 || factor == 1 {
		return out
	}
	for i := range out {
		d := time.Duration(float64(out[i].Duration) * factor)
		if d < time.Millisecond {
			d = time.Millisecond
		}
		out[i].Duration = d
	}
	return out
}
