// Package sequencer drives a single forward pass through an ordered list of
// timed phases.
//
// A Sequencer reports the active phase and a target progress fraction each time
// a phase becomes current, and signals completion once the last phase's duration
// has elapsed. A run can be cancelled, or preempted with Override, which forces a
// terminal outcome in place of natural completion.
//
// Usage:
//
//	seq := sequencer.New()
//	runID, err := seq.Start(phases.BreathTest(), sequencer.Callbacks{
//	    OnPhaseChange: func(i int, p sequencer.Phase) { ... },
//	    OnProgress:    func(p sequencer.Progress) { ... },
//	    OnComplete:    func() { ... },
//	    OnOverride:    func(o models.Outcome) { ... },
//	})
//
//	// later, from a key handler:
//	seq.Override(models.OutcomeFailure)
//
// Callbacks run one at a time, and Cancel and Override wait for a callback in
// flight on another goroutine before they return. A callback may itself call
// Cancel or Override. Phase 0 is delivered synchronously from Start; later
// phases are delivered from timer goroutines, strictly in order. Each run ends
// with at most one terminal callback, and nothing is delivered after it.
package sequencer
