package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/breathcheck/internal/content"
)

// GuideView walks through the pre-test checklist.
type GuideView struct {
	steps []content.GuideStep
}

// NewGuideView creates the guide screen.
func NewGuideView() *GuideView {
	return &GuideView{steps: content.GuideSteps()}
}

// Update handles messages for the guide screen.
func (v *GuideView) Update(msg tea.Msg) (*GuideView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "enter", " ":
		return v, navigate(ScreenActive)
	case "esc", "h":
		return v, navigate(ScreenHome)
	}
	return v, nil
}

// View renders the guide screen.
func (v *GuideView) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Test Guide"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Follow these steps before you begin"))
	b.WriteString("\n\n")

	for _, s := range v.steps {
		status := dimStyle.Render("○")
		if s.Ready {
			status = successStyle.Render("●")
		}
		head := fmt.Sprintf("%s %d. %s %s", status, s.Number, iconFor(s.Icon), valueStyle.Render(s.Title))
		b.WriteString(cardStyle.Width(56).Render(head + "\n   " + subtitleStyle.Render(s.Description)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(keyHint("enter", "start test") + "  " + keyHint("esc", "back"))
	return b.String()
}
