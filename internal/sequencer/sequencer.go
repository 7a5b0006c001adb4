package sequencer

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/breathcheck/pkg/models"
)

// Status is the lifecycle state of a run.
type Status string

const (
	// StatusIdle means no run has been started.
	StatusIdle Status = "idle"
	// StatusRunning means phases are still advancing.
	StatusRunning Status = "running"
	// StatusCompleted means the last phase elapsed and OnComplete fired.
	StatusCompleted Status = "completed"
	// StatusCancelled means Cancel stopped the run. No terminal callback fires.
	StatusCancelled Status = "cancelled"
	// StatusOverridden means Override forced the outcome.
	StatusOverridden Status = "overridden"
)

// Terminal returns true for statuses that end a run.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusOverridden
}

// Callbacks receives run notifications. Nil fields are skipped.
type Callbacks struct {
	// OnPhaseChange fires once per phase, in order, starting with phase 0.
	OnPhaseChange func(index int, phase Phase)
	// OnProgress fires right after OnPhaseChange with the phase's target.
	OnProgress func(p Progress)
	// OnComplete fires once when the last phase's duration elapses.
	OnComplete func()
	// OnOverride fires once when Override preempts the run.
	OnOverride func(outcome models.Outcome)
}

// State is a point-in-time snapshot of the current run.
type State struct {
	RunID   string
	Status  Status
	Index   int
	Phase   Phase
	Total   int
	// Fraction is the interpolated progress in [0,1].
	Fraction float64
	// Elapsed is the time since the current phase became active.
	Elapsed time.Duration
	// Outcome is set when Status is StatusOverridden.
	Outcome models.Outcome
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Sequencer) { s.clock = c }
}

// WithLogger routes sequencer log lines to l instead of the standard logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Sequencer) { s.logger = l }
}

// Sequencer advances through phases on a timer. A Sequencer runs one pass at
// a time; it may be started again once the previous run has ended.
type Sequencer struct {
	clock  Clock
	logger *log.Logger

	// deliver is held while a callback runs and while Cancel or Override
	// change the run, so the two never interleave. Take it before mu.
	deliver sync.Mutex

	// mu protects gen, cur, deliverer, and every field of cur.
	mu  sync.Mutex
	gen uint64
	cur *run
	// deliverer is the goroutine holding deliver, or 0.
	deliverer uint64
}

// run holds the mutable state of one pass.
type run struct {
	id      string
	gen     uint64
	phases  []Phase
	offsets []time.Duration // offsets[i] is when phase i starts; offsets[len] is the end
	cb      Callbacks

	status   Status
	index    int
	started  time.Time
	progress Progress
	outcome  models.Outcome
	// frozen holds the fraction at the moment a run ended early.
	frozen float64
	timer  Timer
	done   chan struct{}
}

// New creates an idle Sequencer.
func New(opts ...Option) *Sequencer {
	s := &Sequencer{clock: RealClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a run and synchronously reports phase 0. It returns the run ID.
func (s *Sequencer) Start(phases []Phase, cb Callbacks) (string, error) {
	if err := Validate(phases); err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.cur != nil && s.cur.status == StatusRunning {
		s.mu.Unlock()
		return "", ErrAlreadyRunning
	}

	s.gen++
	r := &run{
		id:      uuid.NewString(),
		gen:     s.gen,
		phases:  append([]Phase(nil), phases...),
		cb:      cb,
		status:  StatusRunning,
		started: s.clock.Now(),
		done:    make(chan struct{}),
	}
	r.offsets = make([]time.Duration, len(phases)+1)
	for i, p := range phases {
		r.offsets[i+1] = r.offsets[i] + p.Duration
	}
	r.activate(0)
	s.cur = r
	progress := r.progress
	s.mu.Unlock()

	s.logf("[sequencer] run %s started: %d phases, %s total", shortID(r.id), len(phases), r.offsets[len(phases)])
	release := s.serialize()
	s.deliverPhase(r, 0, progress)
	release()
	s.arm(r)

	return r.id, nil
}

// Cancel stops the current run without a terminal callback. It returns false
// if nothing was running. Calling it more than once has no further effect.
// A callback running on another goroutine finishes before Cancel returns.
func (s *Sequencer) Cancel() bool {
	release := s.serialize()
	defer release()

	s.mu.Lock()
	r := s.cur
	if r == nil || r.status != StatusRunning {
		s.mu.Unlock()
		return false
	}
	r.finishEarly(StatusCancelled, s.clock.Now())
	s.mu.Unlock()

	s.logf("[sequencer] run %s cancelled at phase %d", shortID(r.id), r.index)
	close(r.done)
	return true
}

// Override ends the current run with outcome in place of natural completion and
// delivers OnOverride. It returns false, doing nothing, if no run is active.
// No phase callback lands after OnOverride.
func (s *Sequencer) Override(outcome models.Outcome) bool {
	release := s.serialize()
	defer release()

	s.mu.Lock()
	r := s.cur
	if r == nil || r.status != StatusRunning {
		s.mu.Unlock()
		return false
	}
	r.finishEarly(StatusOverridden, s.clock.Now())
	r.outcome = outcome
	s.mu.Unlock()

	s.logf("[sequencer] run %s overridden at phase %d: %s", shortID(r.id), r.index, outcome)
	if r.cb.OnOverride != nil {
		r.cb.OnOverride(outcome)
	}
	close(r.done)
	return true
}

// State returns a snapshot of the current or most recent run.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.cur
	if r == nil {
		return State{Status: StatusIdle}
	}

	st := State{
		RunID:   r.id,
		Status:  r.status,
		Index:   r.index,
		Phase:   r.phases[r.index],
		Total:   len(r.phases),
		Outcome: r.outcome,
	}
	switch r.status {
	case StatusRunning:
		st.Elapsed = r.elapsed(s.clock.Now())
		st.Fraction = r.progress.At(st.Elapsed)
	case StatusCompleted:
		st.Elapsed = r.phases[r.index].Duration
		st.Fraction = 1
	default:
		st.Fraction = r.frozen
	}
	return st
}

// Wait blocks until the current run ends or ctx is done, then returns the
// final snapshot. It returns immediately when nothing has been started.
func (s *Sequencer) Wait(ctx context.Context) (State, error) {
	s.mu.Lock()
	r := s.cur
	s.mu.Unlock()

	if r == nil {
		return s.State(), nil
	}

	select {
	case <-r.done:
		return s.State(), nil
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
}

// arm schedules the next transition of r, unless r has ended.
func (s *Sequencer) arm(r *run) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur != r || r.status != StatusRunning {
		return
	}

	next := r.index + 1
	delay := r.started.Add(r.offsets[next]).Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}
	r.timer = s.clock.AfterFunc(delay, func() { s.fire(r, next) })
}

// fire advances r to phase next, or completes it when next is past the end.
func (s *Sequencer) fire(r *run, next int) {
	release := s.serialize()

	s.mu.Lock()
	if s.cur != r || r.gen != s.gen || r.status != StatusRunning || r.index != next-1 {
		s.mu.Unlock()
		release()
		return
	}
	r.timer = nil

	if next == len(r.phases) {
		r.status = StatusCompleted
		s.mu.Unlock()

		s.logf("[sequencer] run %s completed", shortID(r.id))
		if r.cb.OnComplete != nil {
			r.cb.OnComplete()
		}
		close(r.done)
		release()
		return
	}

	r.activate(next)
	progress := r.progress
	s.mu.Unlock()

	s.deliverPhase(r, next, progress)
	release()
	s.arm(r)
}

// serialize takes the delivery lock and returns its release. Calls made from
// inside a callback already hold it, so they get a no-op release.
func (s *Sequencer) serialize() (release func()) {
	id := goid()

	s.mu.Lock()
	reentrant := s.deliverer == id
	s.mu.Unlock()
	if reentrant {
		return func() {}
	}

	s.deliver.Lock()
	s.mu.Lock()
	s.deliverer = id
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.deliverer = 0
		s.mu.Unlock()
		s.deliver.Unlock()
	}
}

// deliverPhase invokes the phase callbacks, skipping any that would land after
// the run ended. Caller holds the delivery lock.
func (s *Sequencer) deliverPhase(r *run, index int, progress Progress) {
	if !s.live(r, index) {
		return
	}

	s.logf("[sequencer] run %s phase %d/%d: %s", shortID(r.id), index+1, len(r.phases), r.phases[index].Title)
	if r.cb.OnPhaseChange != nil {
		r.cb.OnPhaseChange(index, r.phases[index])
	}
	if r.cb.OnProgress != nil && s.live(r, index) {
		r.cb.OnProgress(progress)
	}
}

// live reports whether r is still running at phase index.
func (s *Sequencer) live(r *run, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.status == StatusRunning && r.index == index
}

func (s *Sequencer) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// activate makes phase i current. Caller holds the sequencer lock.
func (r *run) activate(i int) {
	from := r.progress.Target
	if i == 0 {
		from = 0
	}
	r.index = i
	r.progress = Progress{
		RunID:  r.id,
		Index:  i,
		From:   from,
		Target: float64(i+1) / float64(len(r.phases)),
		Window: r.phases[i].Duration,
	}
}

// elapsed is measured from the phase's scheduled start, not from delivery.
func (r *run) elapsed(now time.Time) time.Duration {
	d := now.Sub(r.started.Add(r.offsets[r.index]))
	if d < 0 {
		return 0
	}
	return d
}

// finishEarly records a cancel or override. Caller holds the sequencer lock.
func (r *run) finishEarly(status Status, now time.Time) {
	r.frozen = r.progress.At(r.elapsed(now))
	r.status = status
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
