package models

import (
	"strconv"
	"time"
)

// ScoreBand classifies a health score for display.
type ScoreBand string

const (
	// BandExcellent covers scores of 85 and above.
	BandExcellent ScoreBand = "Excellent"
	// BandGood covers scores from 70 to 84.
	BandGood ScoreBand = "Good"
	// BandNeedsAttention covers everything below 70.
	BandNeedsAttention ScoreBand = "Needs Attention"
)

// Band returns the band a score falls into.
func Band(score int) ScoreBand {
	switch {
	case score >= 85:
		return BandExcellent
	case score >= 70:
		return BandGood
	default:
		return BandNeedsAttention
	}
}

// Color returns the ANSI 256 colour used to render scores in this band.
func (b ScoreBand) Color() string {
	switch b {
	case BandExcellent:
		return "35"
	case BandGood:
		return "214"
	default:
		return "196"
	}
}

// TestResult is what the result screens render once a run has ended.
type TestResult struct {
	// RunID identifies the sequencer run that produced this result.
	RunID string `json:"run_id"`
	// Outcome is success or failure.
	Outcome Outcome `json:"outcome"`
	// Forced is true when the outcome came from a manual override.
	Forced bool `json:"forced,omitempty"`
	// Score is the health score, only meaningful on success.
	Score int `json:"score,omitempty"`
	// Improvement is the change against the previous test.
	Improvement int `json:"improvement,omitempty"`
	// TakenAt is when the run ended.
	TakenAt time.Time `json:"taken_at"`
}

// Band returns the score band for a successful result.
func (r TestResult) Band() ScoreBand {
	return Band(r.Score)
}

// ImprovementLabel formats the improvement with an explicit sign, e.g. "+5".
func (r TestResult) ImprovementLabel() string {
	if r.Improvement > 0 {
		return "+" + strconv.Itoa(r.Improvement)
	}
	return strconv.Itoa(r.Improvement)
}
