package models

import (
	"fmt"
	"strings"
)

// Outcome is the terminal result of a breath test run.
type Outcome string

const (
	// OutcomeSuccess means the analysis produced a health score.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure means the analysis could not be completed.
	OutcomeFailure Outcome = "failure"
)

// DefaultOutcome is reported when a run finishes without an override.
const DefaultOutcome = OutcomeSuccess

// Valid returns true if the outcome is a known value.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSuccess, OutcomeFailure:
		return true
	default:
		return false
	}
}

// ParseOutcome converts user input into an Outcome.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(strings.ToLower(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", fmt.Errorf("unknown outcome %q (want success or failure)", s)
	}
	return o, nil
}
