package models

import "testing"

func TestBand(t *testing.T) {
	tests := []struct {
		score int
		want  ScoreBand
	}{
		{100, BandExcellent},
		{87, BandExcellent},
		{85, BandExcellent},
		{84, BandGood},
		{70, BandGood},
		{69, BandNeedsAttention},
		{0, BandNeedsAttention},
	}

	for _, tt := range tests {
		if got := Band(tt.score); got != tt.want {
			t.Errorf("Band(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScoreBand_Color(t *testing.T) {
	if BandExcellent.Color() == BandGood.Color() {
		t.Error("expected distinct colours for excellent and good")
	}
	if BandGood.Color() == BandNeedsAttention.Color() {
		t.Error("expected distinct colours for good and needs attention")
	}
}

func TestTestResult_ImprovementLabel(t *testing.T) {
	tests := []struct {
		improvement int
		want        string
	}{
		{5, "+5"},
		{0, "0"},
		{-3, "-3"},
	}

	for _, tt := range tests {
		r := TestResult{Improvement: tt.improvement}
		if got := r.ImprovementLabel(); got != tt.want {
			t.Errorf("ImprovementLabel() with %d = %q, want %q", tt.improvement, got, tt.want)
		}
	}
}

func TestTestResult_Band(t *testing.T) {
	r := TestResult{Outcome: OutcomeSuccess, Score: 87}
	if r.Band() != BandExcellent {
		t.Errorf("expected Excellent for 87, got %q", r.Band())
	}
}
