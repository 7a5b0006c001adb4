package tui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/breathcheck/internal/content"
	"github.com/ShayCichocki/breathcheck/internal/sequencer"
	"github.com/ShayCichocki/breathcheck/pkg/models"
)

// Run messages carry the generation of the run that produced them. The active
// screen drops anything from an older generation.

// phaseMsg reports that a phase became current.
type phaseMsg struct {
	gen   int
	index int
	phase sequencer.Phase
}

// progressMsg reports the bar target for the current phase.
type progressMsg struct {
	gen      int
	progress sequencer.Progress
}

// runEndedMsg reports natural completion or an override.
type runEndedMsg struct {
	gen     int
	forced  bool
	outcome models.Outcome
}

// frameMsg redraws the bar between phase changes.
type frameMsg struct {
	gen int
}

// ActiveView is the "analysing your breath" screen. Entering it starts a
// sequencer run; leaving it cancels the run.
type ActiveView struct {
	phases  []sequencer.Phase
	clock   sequencer.Clock
	refresh time.Duration
	seq     *sequencer.Sequencer

	gen     int
	running bool
	events  chan tea.Msg
	stop    chan struct{}

	runID      string
	index      int
	phase      sequencer.Phase
	progress   sequencer.Progress
	receivedAt time.Time
	startErr   error

	bar     progress.Model
	spinner spinner.Model
	width   int
}

// NewActiveView creates the active screen for the given script.
func NewActiveView(phases []sequencer.Phase, clock sequencer.Clock, refresh time.Duration) *ActiveView {
	sp := spinner.New(spinner.WithSpinner(spinner.Pulse))
	sp.Style = successStyle

	return &ActiveView{
		phases:  phases,
		clock:   clock,
		refresh: refresh,
		seq:     sequencer.New(sequencer.WithClock(clock)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(48)),
		spinner: sp,
		width:   80,
	}
}

// SetWidth resizes the progress bar to fit the terminal.
func (v *ActiveView) SetWidth(width int) {
	v.width = width
	w := width - 12
	if w > 64 {
		w = 64
	}
	if w < 10 {
		w = 10
	}
	v.bar.Width = w
}

// SetPhases replaces the script used by the next run.
func (v *ActiveView) SetPhases(phases []sequencer.Phase) {
	v.phases = phases
}

// RunID returns the ID of the most recent run.
func (v *ActiveView) RunID() string {
	return v.runID
}

// Running reports whether a run is in flight.
func (v *ActiveView) Running() bool {
	return v.running
}

// Begin starts a fresh run. Phase 0 is delivered synchronously by the
// sequencer, so it is already buffered when the listener first reads.
func (v *ActiveView) Begin() tea.Cmd {
	v.Stop()

	v.gen++
	gen := v.gen
	// Every message a run can produce fits without blocking the sequencer.
	events := make(chan tea.Msg, 2*len(v.phases)+2)
	stop := make(chan struct{})

	push := func(msg tea.Msg) {
		select {
		case events <- msg:
		default:
			log.Printf("[tui] dropped %T for run generation %d", msg, gen)
		}
	}

	cb := sequencer.Callbacks{
		OnPhaseChange: func(index int, phase sequencer.Phase) {
			push(phaseMsg{gen: gen, index: index, phase: phase})
		},
		OnProgress: func(p sequencer.Progress) {
			push(progressMsg{gen: gen, progress: p})
		},
		OnComplete: func() {
			push(runEndedMsg{gen: gen})
		},
		OnOverride: func(outcome models.Outcome) {
			push(runEndedMsg{gen: gen, forced: true, outcome: outcome})
		},
	}

	v.index = 0
	v.phase = sequencer.Phase{}
	v.progress = sequencer.Progress{}
	v.receivedAt = v.clock.Now()

	id, err := v.seq.Start(v.phases, cb)
	if err != nil {
		v.startErr = err
		log.Printf("[tui] could not start run: %v", err)
		return nil
	}
	v.runID = id
	v.startErr = nil
	v.running = true
	v.events = events
	v.stop = stop

	return tea.Batch(listen(events, stop), v.frame(gen), v.spinner.Tick)
}

// Stop cancels the run in flight and releases its listener.
func (v *ActiveView) Stop() {
	if v.stop != nil {
		close(v.stop)
		v.stop = nil
	}
	if v.running {
		v.seq.Cancel()
		v.running = false
	}
}

// listen waits for the next run message or for the run to be torn down.
func listen(events <-chan tea.Msg, stop <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-stop:
			return nil
		}
	}
}

func (v *ActiveView) frame(gen int) tea.Cmd {
	return tea.Tick(v.refresh, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

// Fraction is the bar position interpolated from the latest progress target.
func (v *ActiveView) Fraction() float64 {
	return v.progress.At(v.clock.Now().Sub(v.receivedAt))
}

// Update handles messages for the active screen.
func (v *ActiveView) Update(msg tea.Msg) (*ActiveView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "[":
			v.override(models.OutcomeSuccess)
		case "]":
			v.override(models.OutcomeFailure)
		case "esc":
			v.Stop()
			return v, navigate(ScreenHome)
		case "r":
			if v.startErr != nil {
				return v, v.Begin()
			}
		}
		return v, nil

	case phaseMsg:
		if msg.gen != v.gen || !v.running {
			return v, nil
		}
		v.index = msg.index
		v.phase = msg.phase
		return v, listen(v.events, v.stop)

	case progressMsg:
		if msg.gen != v.gen || !v.running {
			return v, nil
		}
		v.progress = msg.progress
		v.receivedAt = v.clock.Now()
		return v, listen(v.events, v.stop)

	case frameMsg:
		if msg.gen != v.gen || !v.running {
			return v, nil
		}
		return v, v.frame(msg.gen)

	case spinner.TickMsg:
		if !v.running {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	return v, nil
}

// override forwards a hidden key to the sequencer. The resulting runEndedMsg
// arrives through the listener like natural completion does.
func (v *ActiveView) override(outcome models.Outcome) {
	if !v.running {
		return
	}
	if v.seq.Override(outcome) {
		log.Printf("[tui] override requested: %s", outcome)
	}
}

// ended marks the run finished once the App has accepted its result.
func (v *ActiveView) ended() {
	v.running = false
	if v.stop != nil {
		close(v.stop)
		v.stop = nil
	}
}

// View renders the active screen.
func (v *ActiveView) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Breath Analysis"))
	b.WriteString("\n")

	if v.startErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Could not start the test: %v", v.startErr)))
		b.WriteString("\n\n")
		b.WriteString(keyHint("r", "retry") + "  " + keyHint("esc", "home"))
		return b.String()
	}

	b.WriteString(v.spinner.View())
	b.WriteString(" ")
	b.WriteString(phaseTitleStyle.Render(iconFor(v.phase.Icon) + " " + v.phase.Title))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(v.phase.Subtitle))
	b.WriteString("\n\n")

	b.WriteString(v.bar.ViewAs(v.Fraction()))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Step %d of %d", v.index+1, len(v.phases))))
	b.WriteString("\n\n")

	b.WriteString(calmStyle.Render(content.CalmingMessage))
	b.WriteString("\n\n")
	b.WriteString(keyHint("esc", "cancel"))
	return b.String()
}
