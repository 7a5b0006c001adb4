package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/breathcheck/internal/content"
	"github.com/ShayCichocki/breathcheck/pkg/models"
)

// homeAction is one entry of the home menu.
type homeAction struct {
	key    string
	label  string
	target Screen
}

var homeActions = []homeAction{
	{key: "s", label: "Start Breathing Test", target: ScreenGuide},
	{key: "t", label: "View Trends", target: ScreenTrends},
	{key: "c", label: "Contact Nurse", target: ScreenContact},
	{key: "l", label: "Log Out", target: ScreenLogin},
}

// HomeView is the dashboard with the recent session card and the main menu.
type HomeView struct {
	session  content.RecentSession
	selected int
}

// NewHomeView creates the home screen.
func NewHomeView() *HomeView {
	return &HomeView{session: content.LastSession()}
}

// Update handles messages for the home screen.
func (v *HomeView) Update(msg tea.Msg) (*HomeView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(homeActions)-1 {
			v.selected++
		}
	case "enter":
		return v, navigate(homeActions[v.selected].target)
	default:
		for _, a := range homeActions {
			if key.String() == a.key {
				return v, navigate(a.target)
			}
		}
	}
	return v, nil
}

// View renders the home screen.
func (v *HomeView) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("BreathCheck"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Welcome back"))
	b.WriteString("\n\n")

	s := v.session
	band := models.Band(s.Score)
	scoreStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(band.Color())).Bold(true)
	card := lipgloss.JoinVertical(lipgloss.Left,
		valueStyle.Render("Recent Session"),
		labelStyle.Render("When")+s.When,
		labelStyle.Render("Length")+s.Length,
		labelStyle.Render("Score")+scoreStyle.Render(fmt.Sprintf("%d", s.Score))+" "+dimStyle.Render(string(band)),
		labelStyle.Render("Change")+successStyle.Render(s.Improvement)+" "+dimStyle.Render(s.Trend),
	)
	b.WriteString(cardStyle.Render(card))
	b.WriteString("\n\n")

	for i, a := range homeActions {
		line := fmt.Sprintf("[%s] %s", a.key, a.label)
		if i == v.selected {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(unselectedStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(content.Disclaimer))
	b.WriteString("\n")
	b.WriteString(keyHint("enter", "select") + "  " + keyHint("q", "quit"))
	return b.String()
}
