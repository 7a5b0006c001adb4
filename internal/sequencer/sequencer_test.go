package sequencer

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ShayCichocki/breathcheck/pkg/models"
)

var epoch = time.Date(2025, 7, 3, 14, 2, 0, 0, time.UTC)

// recorder captures callbacks along with the clock time they fired at.
type recorder struct {
	mu        sync.Mutex
	clock     Clock
	phases    []int
	phaseAt   []time.Duration
	progress  []Progress
	completes int
	completeAt time.Duration
	overrides []models.Outcome
}

func newRecorder(clock Clock) *recorder {
	return &recorder{clock: clock}
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnPhaseChange: func(i int, _ Phase) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.phases = append(r.phases, i)
			r.phaseAt = append(r.phaseAt, r.clock.Now().Sub(epoch))
		},
		OnProgress: func(p Progress) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.progress = append(r.progress, p)
		},
		OnComplete: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.completes++
			r.completeAt = r.clock.Now().Sub(epoch)
		},
		OnOverride: func(o models.Outcome) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.overrides = append(r.overrides, o)
		},
	}
}

func (r *recorder) terminals() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completes + len(r.overrides)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newManual() (*Sequencer, *ManualClock) {
	clock := NewManualClock(epoch)
	return New(WithClock(clock), WithLogger(quietLogger())), clock
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func phasesOf(durations ...time.Duration) []Phase {
	out := make([]Phase, len(durations))
	for i, d := range durations {
		out[i] = Phase{Title: "phase", Duration: d}
	}
	return out
}

// =============================================================================
// Natural run
// =============================================================================

func TestStart_ReportsEveryPhaseInOrderThenCompletes(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)

	if _, err := seq.Start(phasesOf(ms(70), ms(80), ms(50), ms(10)), rec.callbacks()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	clock.Advance(ms(1000))

	want := []int{0, 1, 2, 3}
	if len(rec.phases) != len(want) {
		t.Fatalf("expected %d phase changes, got %d (%v)", len(want), len(rec.phases), rec.phases)
	}
	for i := range want {
		if rec.phases[i] != want[i] {
			t.Errorf("phase change %d: expected index %d, got %d", i, want[i], rec.phases[i])
		}
	}
	if rec.completes != 1 {
		t.Errorf("expected exactly 1 completion, got %d", rec.completes)
	}
	if len(rec.overrides) != 0 {
		t.Errorf("expected no overrides, got %v", rec.overrides)
	}
	if seq.State().Status != StatusCompleted {
		t.Errorf("expected status completed, got %s", seq.State().Status)
	}
	if clock.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", clock.Pending())
	}
}

func TestStart_TransitionTiming(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)

	if _, err := seq.Start(phasesOf(ms(100), ms(200)), rec.callbacks()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	clock.Advance(ms(99))
	if len(rec.phases) != 1 {
		t.Fatalf("expected only phase 0 before 100ms, got %v", rec.phases)
	}

	clock.Advance(ms(1))
	if len(rec.phases) != 2 || rec.phaseAt[1] != ms(100) {
		t.Fatalf("expected phase 1 at 100ms, got phases=%v at=%v", rec.phases, rec.phaseAt)
	}

	clock.Advance(ms(199))
	if rec.completes != 0 {
		t.Fatal("completed before 300ms")
	}

	clock.Advance(ms(1))
	if rec.completes != 1 {
		t.Fatal("expected completion at 300ms")
	}
	if rec.completeAt != ms(300) {
		t.Errorf("expected completion at 300ms, got %v", rec.completeAt)
	}
}

func TestStart_ProgressTargets(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)

	runID, err := seq.Start(phasesOf(ms(10), ms(20), ms(30), ms(40)), rec.callbacks())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.Advance(ms(100))

	if len(rec.progress) != 4 {
		t.Fatalf("expected 4 progress reports, got %d", len(rec.progress))
	}

	wantTargets := []float64{0.25, 0.5, 0.75, 1}
	wantFrom := []float64{0, 0.25, 0.5, 0.75}
	wantWindow := []time.Duration{ms(10), ms(20), ms(30), ms(40)}
	for i, p := range rec.progress {
		if p.RunID != runID {
			t.Errorf("progress %d: expected run ID %s, got %s", i, runID, p.RunID)
		}
		if p.Index != i {
			t.Errorf("progress %d: expected index %d, got %d", i, i, p.Index)
		}
		if p.Target != wantTargets[i] {
			t.Errorf("progress %d: expected target %v, got %v", i, wantTargets[i], p.Target)
		}
		if p.From != wantFrom[i] {
			t.Errorf("progress %d: expected from %v, got %v", i, wantFrom[i], p.From)
		}
		if p.Window != wantWindow[i] {
			t.Errorf("progress %d: expected window %v, got %v", i, wantWindow[i], p.Window)
		}
	}
}

func TestStart_SinglePhase(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)

	if _, err := seq.Start(phasesOf(ms(50)), rec.callbacks()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(rec.phases) != 1 || rec.phases[0] != 0 {
		t.Fatalf("expected phase 0 reported synchronously, got %v", rec.phases)
	}
	if len(rec.progress) != 1 || rec.progress[0].Target != 1 {
		t.Fatalf("expected target 1 for single phase, got %+v", rec.progress)
	}

	clock.Advance(ms(50))
	if rec.completes != 1 {
		t.Errorf("expected completion after 50ms, got %d", rec.completes)
	}
}

func TestStart_PhaseZeroIsSynchronous(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)

	if _, err := seq.Start(phasesOf(ms(100)), rec.callbacks()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(rec.phases) != 1 {
		t.Fatalf("expected phase 0 before Start returned, got %v", rec.phases)
	}
	if rec.progress[0].From != 0 {
		t.Errorf("expected phase 0 to start from fraction 0, got %v", rec.progress[0].From)
	}
}

func TestStart_NilCallbacksAreSkipped(t *testing.T) {
	seq, clock := newManual()

	if _, err := seq.Start(phasesOf(ms(10), ms(10)), Callbacks{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.Advance(ms(20))

	if seq.State().Status != StatusCompleted {
		t.Errorf("expected completed run, got %s", seq.State().Status)
	}
}

// =============================================================================
// Validation and lifecycle errors
// =============================================================================

func TestStart_EmptyPhasesIsInvalid(t *testing.T) {
	seq, clock := newManual()

	_, err := seq.Start(nil, Callbacks{})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
	if clock.Pending() != 0 {
		t.Errorf("expected no timers scheduled, got %d", clock.Pending())
	}
	if seq.State().Status != StatusIdle {
		t.Errorf("expected idle sequencer, got %s", seq.State().Status)
	}
}

func TestStart_NonPositiveDurationIsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		phases []Phase
	}{
		{"zero duration", phasesOf(ms(100), 0)},
		{"negative duration", phasesOf(-ms(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, clock := newManual()
			rec := newRecorder(clock)

			_, err := seq.Start(tt.phases, rec.callbacks())
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
			if clock.Pending() != 0 {
				t.Errorf("expected no timers, got %d", clock.Pending())
			}
			if len(rec.phases) != 0 {
				t.Errorf("expected no callbacks, got %v", rec.phases)
			}
		})
	}
}

func TestStart_TwiceFailsWithAlreadyRunning(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)

	if _, err := seq.Start(phasesOf(ms(100)), rec.callbacks()); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if _, err := seq.Start(phasesOf(ms(100)), rec.callbacks()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	// The first run is unaffected.
	clock.Advance(ms(100))
	if rec.completes != 1 {
		t.Errorf("expected first run to complete once, got %d", rec.completes)
	}
}

func TestStart_AfterCancelBeginsFreshRun(t *testing.T) {
	seq, clock := newManual()
	first := newRecorder(clock)
	second := newRecorder(clock)

	firstID, err := seq.Start(phasesOf(ms(100), ms(100)), first.callbacks())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	seq.Cancel()

	secondID, err := seq.Start(phasesOf(ms(50)), second.callbacks())
	if err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if firstID == secondID {
		t.Error("expected distinct run IDs")
	}

	clock.Advance(ms(500))
	if first.terminals() != 0 || len(first.phases) != 1 {
		t.Errorf("cancelled run leaked callbacks: phases=%v terminals=%d", first.phases, first.terminals())
	}
	if second.completes != 1 {
		t.Errorf("expected second run to complete, got %d", second.completes)
	}
}

func TestStart_AfterCompletionBeginsFreshRun(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)

	if _, err := seq.Start(phasesOf(ms(10)), rec.callbacks()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.Advance(ms(10))
	if _, err := seq.Start(phasesOf(ms(10)), rec.callbacks()); err != nil {
		t.Fatalf("restart after completion failed: %v", err)
	}
	clock.Advance(ms(10))
	if rec.completes != 2 {
		t.Errorf("expected 2 completions, got %d", rec.completes)
	}
}

// =============================================================================
// Cancel
// =============================================================================

func TestCancel_ImmediatelyAfterStart(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)

	if _, err := seq.Start(phasesOf(ms(100), ms(200)), rec.callbacks()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !seq.Cancel() {
		t.Fatal("expected Cancel to report a running run")
	}

	clock.Advance(ms(1000))

	if len(rec.phases) != 1 {
		t.Errorf("expected only the initial phase-0 notification, got %v", rec.phases)
	}
	if rec.terminals() != 0 {
		t.Errorf("expected no terminal callbacks, got %d", rec.terminals())
	}
	if clock.Pending() != 0 {
		t.Errorf("expected timers released, got %d pending", clock.Pending())
	}
	if seq.State().Status != StatusCancelled {
		t.Errorf("expected cancelled status, got %s", seq.State().Status)
	}
}

func TestCancel_IsIdempotent(t *testing.T) {
	seq, clock := newManual()

	if _, err := seq.Start(phasesOf(ms(100)), Callbacks{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !seq.Cancel() {
		t.Fatal("first Cancel should take effect")
	}
	if seq.Cancel() {
		t.Error("second Cancel should be a no-op")
	}
	if clock.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", clock.Pending())
	}
}

func TestCancel_AfterCompletionIsNoop(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)

	if _, err := seq.Start(phasesOf(ms(10)), rec.callbacks()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.Advance(ms(10))

	if seq.Cancel() {
		t.Error("Cancel after completion should be a no-op")
	}
	if seq.State().Status != StatusCompleted {
		t.Errorf("expected status to stay completed, got %s", seq.State().Status)
	}
}

func TestCancel_BeforeStartIsNoop(t *testing.T) {
	seq, _ := newManual()
	if seq.Cancel() {
		t.Error("Cancel on idle sequencer should be a no-op")
	}
}

func TestCancel_FromPhaseCallback(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)
	cb := rec.callbacks()
	inner := cb.OnPhaseChange
	cb.OnPhaseChange = func(i int, p Phase) {
		inner(i, p)
		if i == 1 {
			seq.Cancel()
		}
	}

	if _, err := seq.Start(phasesOf(ms(10), ms(10), ms(10)), cb); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.Advance(ms(100))

	if len(rec.phases) != 2 {
		t.Errorf("expected phases 0 and 1 only, got %v", rec.phases)
	}
	if len(rec.progress) != 1 {
		t.Errorf("expected progress to stop with the cancel, got %d reports", len(rec.progress))
	}
	if rec.terminals() != 0 {
		t.Errorf("expected no terminal callbacks, got %d", rec.terminals())
	}
}

// =============================================================================
// Override
// =============================================================================

func TestOverride_MidFirstPhase(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)

	if _, err := seq.Start(phasesOf(ms(100), ms(200)), rec.callbacks()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	clock.Advance(ms(50))
	if !seq.Override(models.OutcomeFailure) {
		t.Fatal("expected Override to take effect")
	}
	clock.Advance(ms(1000))

	if len(rec.overrides) != 1 || rec.overrides[0] != models.OutcomeFailure {
		t.Fatalf("expected a single failure override, got %v", rec.overrides)
	}
	if rec.completes != 0 {
		t.Errorf("expected no natural completion, got %d", rec.completes)
	}
	if len(rec.phases) != 1 {
		t.Errorf("expected no phase changes after override, got %v", rec.phases)
	}

	st := seq.State()
	if st.Status != StatusOverridden || st.Outcome != models.OutcomeFailure {
		t.Errorf("expected overridden/failure, got %s/%s", st.Status, st.Outcome)
	}
	if st.Fraction != 0.25 {
		t.Errorf("expected progress frozen at 0.25, got %v", st.Fraction)
	}
}

func TestOverride_AfterCompletionIsNoop(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)

	if _, err := seq.Start(phasesOf(ms(10)), rec.callbacks()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.Advance(ms(10))

	if seq.Override(models.OutcomeSuccess) {
		t.Error("Override after completion should be a no-op")
	}
	if rec.terminals() != 1 {
		t.Errorf("expected exactly one terminal callback, got %d", rec.terminals())
	}
}

func TestOverride_AfterCancelIsNoop(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)

	if _, err := seq.Start(phasesOf(ms(10)), rec.callbacks()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	seq.Cancel()
	if seq.Override(models.OutcomeFailure) {
		t.Error("Override after Cancel should be a no-op")
	}
	if rec.terminals() != 0 {
		t.Errorf("expected no terminal callbacks, got %d", rec.terminals())
	}
}

func TestOverride_Twice(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)

	if _, err := seq.Start(phasesOf(ms(10)), rec.callbacks()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	seq.Override(models.OutcomeSuccess)
	seq.Override(models.OutcomeFailure)

	if len(rec.overrides) != 1 || rec.overrides[0] != models.OutcomeSuccess {
		t.Errorf("expected only the first override, got %v", rec.overrides)
	}
}

// =============================================================================
// Concurrency
// =============================================================================

func TestOverrideRacingCompletion_AtMostOneTerminal(t *testing.T) {
	for i := 0; i < 200; i++ {
		seq := New(WithLogger(quietLogger()))
		rec := newRecorder(RealClock{})

		if _, err := seq.Start(phasesOf(time.Microsecond), rec.callbacks()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			seq.Override(models.OutcomeFailure)
		}()
		go func() {
			defer wg.Done()
			seq.Cancel()
		}()
		wg.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if _, err := seq.Wait(ctx); err != nil {
			cancel()
			t.Fatalf("Wait failed: %v", err)
		}
		cancel()

		if got := rec.terminals(); got > 1 {
			t.Fatalf("iteration %d: expected at most one terminal callback, got %d", i, got)
		}
	}
}

func TestUninterruptedRealClockRun_ExactlyOneTerminal(t *testing.T) {
	seq := New(WithLogger(quietLogger()))
	rec := newRecorder(RealClock{})

	if _, err := seq.Start(phasesOf(ms(5), ms(5), ms(5)), rec.callbacks()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := seq.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	if st.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", st.Status)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.completes != 1 || len(rec.overrides) != 0 {
		t.Errorf("expected exactly one completion, got completes=%d overrides=%d", rec.completes, len(rec.overrides))
	}
	if len(rec.phases) != 3 || rec.phases[0] != 0 || rec.phases[1] != 1 || rec.phases[2] != 2 {
		t.Errorf("expected phases [0 1 2], got %v", rec.phases)
	}
}

func TestOverrideFromAnotherGoroutine_NoPhaseAfterReturn(t *testing.T) {
	if testing.Short() {
		t.Skip("real-clock stress run")
	}

	for i := 0; i < 2000; i++ {
		seq := New(WithLogger(quietLogger()))

		var returned, overridden, lateAfterReturn, lateAfterOverride atomic.Int32
		cb := Callbacks{
			OnPhaseChange: func(int, Phase) {
				if returned.Load() == 1 {
					lateAfterReturn.Add(1)
				}
				if overridden.Load() == 1 {
					lateAfterOverride.Add(1)
				}
			},
			OnOverride: func(models.Outcome) { overridden.Store(1) },
		}

		if _, err := seq.Start(phasesOf(200*time.Microsecond, time.Millisecond), cb); err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			time.Sleep(200 * time.Microsecond)
			if seq.Override(models.OutcomeFailure) {
				returned.Store(1)
			}
		}()
		<-done

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_, err := seq.Wait(ctx)
		cancel()
		if err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
		// Let any stray timer goroutine run before checking.
		time.Sleep(100 * time.Microsecond)

		if n := lateAfterReturn.Load(); n != 0 {
			t.Fatalf("iteration %d: %d phase callbacks after Override returned", i, n)
		}
		if n := lateAfterOverride.Load(); n != 0 {
			t.Fatalf("iteration %d: %d phase callbacks after OnOverride", i, n)
		}
	}
}

func TestCancelFromAnotherGoroutine_WaitsForPhaseCallback(t *testing.T) {
	seq := New(WithLogger(quietLogger()))

	entered := make(chan struct{})
	unblock := make(chan struct{})
	var finished atomic.Bool
	cb := Callbacks{
		OnPhaseChange: func(i int, _ Phase) {
			if i != 1 {
				return
			}
			close(entered)
			<-unblock
			finished.Store(true)
		},
	}

	if _, err := seq.Start(phasesOf(ms(1), ms(50)), cb); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	<-entered

	cancelled := make(chan bool)
	go func() { cancelled <- seq.Cancel() }()

	select {
	case <-cancelled:
		t.Fatal("Cancel returned while a phase callback was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(unblock)
	if !<-cancelled {
		t.Error("expected Cancel to stop the run")
	}
	if !finished.Load() {
		t.Error("expected the phase callback to finish before Cancel returned")
	}
}

func TestOverride_FromPhaseCallback(t *testing.T) {
	seq, clock := newManual()
	rec := newRecorder(clock)
	cb := rec.callbacks()
	inner := cb.OnPhaseChange
	cb.OnPhaseChange = func(i int, p Phase) {
		inner(i, p)
		if i == 1 && !seq.Override(models.OutcomeSuccess) {
			t.Error("expected Override inside a callback to succeed")
		}
	}

	if _, err := seq.Start(phasesOf(ms(10), ms(10), ms(10)), cb); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clock.Advance(ms(100))

	if len(rec.phases) != 2 {
		t.Errorf("expected phases 0 and 1 only, got %v", rec.phases)
	}
	if len(rec.overrides) != 1 || rec.completes != 0 {
		t.Errorf("expected one override and no completion, got overrides=%v completes=%d", rec.overrides, rec.completes)
	}
	if st := seq.State(); st.Status != StatusOverridden {
		t.Errorf("expected overridden, got %s", st.Status)
	}
}

// =============================================================================
// State and Wait
// =============================================================================

func TestState_InterpolatesWithinPhase(t *testing.T) {
	seq, clock := newManual()

	if _, err := seq.Start(phasesOf(ms(100), ms(100)), Callbacks{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	clock.Advance(ms(25))
	st := seq.State()
	if st.Index != 0 || st.Total != 2 {
		t.Errorf("expected phase 0 of 2, got %d of %d", st.Index, st.Total)
	}
	if st.Elapsed != ms(25) {
		t.Errorf("expected 25ms elapsed, got %v", st.Elapsed)
	}
	if st.Fraction != 0.125 {
		t.Errorf("expected fraction 0.125, got %v", st.Fraction)
	}

	clock.Advance(ms(125))
	st = seq.State()
	if st.Index != 1 || st.Elapsed != ms(50) || st.Fraction != 0.75 {
		t.Errorf("expected phase 1 at 50ms with 0.75, got index=%d elapsed=%v fraction=%v", st.Index, st.Elapsed, st.Fraction)
	}
}

func TestState_IdleBeforeStart(t *testing.T) {
	seq, _ := newManual()
	st := seq.State()
	if st.Status != StatusIdle || st.RunID != "" {
		t.Errorf("expected idle state, got %+v", st)
	}
}

func TestWait_ContextDone(t *testing.T) {
	seq, _ := newManual()
	if _, err := seq.Start(phasesOf(ms(100)), Callbacks{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st, err := seq.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if st.Status != StatusRunning {
		t.Errorf("expected run still going, got %s", st.Status)
	}
}

func TestStatus_Terminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusOverridden} {
		if !s.Terminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusIdle, StatusRunning} {
		if s.Terminal() {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}
