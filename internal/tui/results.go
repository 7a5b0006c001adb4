package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/breathcheck/internal/content"
	"github.com/ShayCichocki/breathcheck/pkg/models"
)

// ResultView renders both the success and the failure screen for the last
// test result.
type ResultView struct {
	result models.TestResult
}

// NewResultView creates an empty result screen.
func NewResultView() *ResultView {
	return &ResultView{}
}

// SetResult sets the result to display.
func (v *ResultView) SetResult(r models.TestResult) {
	v.result = r
}

// Update handles messages for the result screens.
func (v *ResultView) Update(msg tea.Msg) (*ResultView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	if v.result.Outcome == models.OutcomeFailure {
		switch key.String() {
		case "enter", "r":
			return v, navigate(ScreenActive)
		case "h", "esc":
			return v, navigate(ScreenHome)
		case "c":
			return v, navigate(ScreenContact)
		}
		return v, nil
	}

	switch key.String() {
	case "enter", "h", "esc":
		return v, navigate(ScreenHome)
	case "t":
		return v, navigate(ScreenTrends)
	case "r":
		return v, navigate(ScreenActive)
	}
	return v, nil
}

// View renders the result.
func (v *ResultView) View() string {
	if v.result.Outcome == models.OutcomeFailure {
		return v.failureView()
	}
	return v.successView()
}

func (v *ResultView) successView() string {
	var b strings.Builder
	r := v.result

	b.WriteString(titleStyle.Render("Test Complete!"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(content.SuccessHeadline))
	b.WriteString("\n\n")

	bandStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(r.Band().Color())).Bold(true)
	score := fmt.Sprintf("%d", r.Score)
	card := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Breathing Score")+bandStyle.Render(score),
		labelStyle.Render("Rating")+bandStyle.Render(string(r.Band())),
		labelStyle.Render("Since last test")+successStyle.Render(r.ImprovementLabel()),
	)
	b.WriteString(cardStyle.Render(card))
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render(iconFor("check-circle") + " " + content.SuccessFootnote))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(iconFor("check-circle") + " " + content.SuccessFootnote2))
	b.WriteString("\n\n")

	b.WriteString(keyHint("enter", "home") + "  " + keyHint("t", "trends") + "  " + keyHint("r", "test again"))
	return b.String()
}

func (v *ResultView) failureView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Test Incomplete"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(content.FailureHeadline))
	b.WriteString("\n\n")

	body := lipgloss.JoinVertical(lipgloss.Left,
		warningStyle.Render(content.FailureTitle),
		content.FailureBody,
	)
	b.WriteString(cardStyle.Width(60).Render(body))
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render(content.FailureFootnote))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(content.FailureAdvice))
	b.WriteString("\n\n")

	b.WriteString(keyHint("enter", "try again") + "  " + keyHint("c", "contact nurse") + "  " + keyHint("h", "home"))
	return b.String()
}
