package tui

import (
	"log"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/breathcheck/internal/phases"
	"github.com/ShayCichocki/breathcheck/internal/sequencer"
	"github.com/ShayCichocki/breathcheck/internal/trends"
	"github.com/ShayCichocki/breathcheck/pkg/models"
)

// Screen identifies one routed view.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenHome
	ScreenGuide
	ScreenActive
	ScreenSuccess
	ScreenFailure
	ScreenTrends
	ScreenContact
)

var screenNames = map[Screen]string{
	ScreenLogin:    "login",
	ScreenRegister: "register",
	ScreenHome:     "home",
	ScreenGuide:    "guide",
	ScreenActive:   "active",
	ScreenSuccess:  "success",
	ScreenFailure:  "failure",
	ScreenTrends:   "trends",
	ScreenContact:  "contact",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return "unknown"
}

// navigateMsg asks the App to switch screens.
type navigateMsg struct {
	to Screen
}

func navigate(to Screen) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

// Options configures the App.
type Options struct {
	// Phases is the script the active screen plays. Defaults to phases.BreathTest.
	Phases []sequencer.Phase
	// DefaultOutcome is shown when a run finishes without an override.
	DefaultOutcome models.Outcome
	// Score and Improvement are the canned success figures.
	Score       int
	Improvement int
	// RefreshRate is how often the progress bar is redrawn.
	RefreshRate time.Duration
	// TrendsPeriod is the window the trends screen opens on.
	TrendsPeriod trends.Period
	// SkipLogin starts on the home screen.
	SkipLogin bool
	// Clock drives both the sequencer and the bar interpolation. Defaults to
	// the real clock.
	Clock sequencer.Clock
	// Seed feeds the trends generator. Zero uses the current time.
	Seed int64
}

func (o Options) withDefaults() Options {
	if len(o.Phases) == 0 {
		o.Phases = phases.BreathTest()
	}
	if !o.DefaultOutcome.Valid() {
		o.DefaultOutcome = models.DefaultOutcome
	}
	if o.RefreshRate <= 0 {
		o.RefreshRate = 50 * time.Millisecond
	}
	if !o.TrendsPeriod.Valid() {
		o.TrendsPeriod = trends.Week
	}
	if o.Clock == nil {
		o.Clock = sequencer.RealClock{}
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o
}

// App is the main bubbletea model for the breathcheck TUI.
type App struct {
	opts   Options
	screen Screen
	width  int
	height int

	login    *LoginView
	register *RegisterView
	home     *HomeView
	guide    *GuideView
	active   *ActiveView
	result   *ResultView
	trends   *TrendsView
	contact  *ContactView

	lastResult *models.TestResult
	quitting   bool
}

// New creates an App positioned on the login screen, or home with SkipLogin.
func New(opts Options) *App {
	opts = opts.withDefaults()

	a := &App{
		opts:     opts,
		screen:   ScreenLogin,
		login:    NewLoginView(),
		register: NewRegisterView(),
		home:     NewHomeView(),
		guide:    NewGuideView(),
		active:   NewActiveView(opts.Phases, opts.Clock, opts.RefreshRate),
		result:   NewResultView(),
		trends:   NewTrendsView(opts.TrendsPeriod, opts.Clock.Now, rand.New(rand.NewSource(opts.Seed))),
		contact:  NewContactView(),
	}
	if opts.SkipLogin {
		a.screen = ScreenHome
	}
	return a
}

// NewProgram creates a new Bubbletea program that can be used to run the TUI.
func NewProgram(opts Options) (*tea.Program, *App) {
	app := New(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}

// Screen returns the screen currently shown.
func (a *App) Screen() Screen {
	return a.screen
}

// LastResult returns the most recent test result, or nil if no run has ended.
func (a *App) LastResult() *models.TestResult {
	return a.lastResult
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.enter(a.screen)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.active.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, a.quit()
		}
		if msg.String() == "q" && !a.typing() {
			return a, a.quit()
		}

	case navigateMsg:
		return a, a.switchTo(msg.to)

	case runEndedMsg:
		if msg.gen != a.active.gen || a.screen != ScreenActive {
			return a, nil
		}
		a.active.ended()
		return a, a.finish(msg)
	}

	return a, a.updateScreen(msg)
}

// updateScreen routes msg to the screen currently shown.
func (a *App) updateScreen(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		a.login, cmd = a.login.Update(msg)
	case ScreenRegister:
		a.register, cmd = a.register.Update(msg)
	case ScreenHome:
		a.home, cmd = a.home.Update(msg)
	case ScreenGuide:
		a.guide, cmd = a.guide.Update(msg)
	case ScreenActive:
		a.active, cmd = a.active.Update(msg)
	case ScreenSuccess, ScreenFailure:
		a.result, cmd = a.result.Update(msg)
	case ScreenTrends:
		a.trends, cmd = a.trends.Update(msg)
	case ScreenContact:
		a.contact, cmd = a.contact.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(a.current().View())
	b.WriteString("\n")
	return b.String()
}

func (a *App) current() interface{ View() string } {
	switch a.screen {
	case ScreenLogin:
		return a.login
	case ScreenRegister:
		return a.register
	case ScreenGuide:
		return a.guide
	case ScreenActive:
		return a.active
	case ScreenSuccess, ScreenFailure:
		return a.result
	case ScreenTrends:
		return a.trends
	case ScreenContact:
		return a.contact
	default:
		return a.home
	}
}

// typing reports whether the current screen has a focused text field, in
// which case "q" is input rather than quit.
func (a *App) typing() bool {
	switch a.screen {
	case ScreenLogin, ScreenRegister:
		return true
	case ScreenContact:
		return a.contact.Typing()
	}
	return false
}

// switchTo leaves the current screen and enters the next. Leaving the active
// screen tears down its run.
func (a *App) switchTo(to Screen) tea.Cmd {
	if a.screen == ScreenActive && to != ScreenActive {
		a.active.Stop()
	}
	log.Printf("[tui] %s -> %s", a.screen, to)
	a.screen = to
	return a.enter(to)
}

func (a *App) enter(s Screen) tea.Cmd {
	switch s {
	case ScreenLogin:
		return a.login.Focus()
	case ScreenRegister:
		return a.register.Focus()
	case ScreenActive:
		return a.active.Begin()
	}
	return nil
}

// finish turns the end of a run into a result and shows it.
func (a *App) finish(msg runEndedMsg) tea.Cmd {
	outcome := a.opts.DefaultOutcome
	if msg.forced {
		outcome = msg.outcome
	}

	result := models.TestResult{
		RunID:   a.active.RunID(),
		Outcome: outcome,
		Forced:  msg.forced,
		TakenAt: a.opts.Clock.Now(),
	}
	if outcome == models.OutcomeSuccess {
		result.Score = a.opts.Score
		result.Improvement = a.opts.Improvement
	}
	a.lastResult = &result
	a.result.SetResult(result)

	log.Printf("[tui] run %s finished: %s (forced=%t)", result.RunID, outcome, msg.forced)

	if outcome == models.OutcomeSuccess {
		return a.switchTo(ScreenSuccess)
	}
	return a.switchTo(ScreenFailure)
}

func (a *App) quit() tea.Cmd {
	a.active.Stop()
	a.quitting = true
	return tea.Quit
}
