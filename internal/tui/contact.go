package tui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/breathcheck/internal/content"
	"github.com/ShayCichocki/breathcheck/internal/forms"
)

// contactField is the focused row of the contact form.
type contactField int

const (
	fieldMethod contactField = iota
	fieldUrgency
	fieldReason
	fieldMessage
	contactFieldCount
)

// choice is a dropdown that may have nothing selected (index -1).
type choice struct {
	options []string
	index   int
}

func (c *choice) value() string {
	if c.index < 0 || c.index >= len(c.options) {
		return ""
	}
	return c.options[c.index]
}

func (c *choice) cycle(delta int) {
	n := len(c.options)
	if c.index < 0 {
		if delta > 0 {
			c.index = 0
		} else {
			c.index = n - 1
		}
		return
	}
	c.index = (c.index + delta + n) % n
}

// ContactView is the "Contact Your COPD Nurse" screen: a request form, the
// emergency notice and the conversation history.
type ContactView struct {
	method  choice
	urgency choice
	reason  choice
	message textinput.Model

	focus     contactField
	errs      forms.FieldErrors
	sent      *forms.ContactRequest
	history   []content.HistoryEntry
	emergency bool
}

// NewContactView creates the contact screen with the default urgency selected.
func NewContactView() *ContactView {
	ti := textinput.New()
	ti.Placeholder = "Describe your question or concern (optional)"
	ti.CharLimit = 500
	ti.Width = 56

	v := &ContactView{
		method:  choice{options: content.ContactMethods, index: -1},
		urgency: choice{options: content.UrgencyLevels, index: -1},
		reason:  choice{options: content.ContactReasons, index: -1},
		message: ti,
		history: content.ContactHistory(),
	}
	for i, u := range content.UrgencyLevels {
		if u == content.DefaultUrgency {
			v.urgency.index = i
		}
	}
	return v
}

// Typing reports whether keystrokes go to the message field.
func (v *ContactView) Typing() bool {
	return v.focus == fieldMessage
}

// Request returns the form as currently filled in.
func (v *ContactView) Request() forms.ContactRequest {
	return forms.ContactRequest{
		Method:  v.method.value(),
		Urgency: v.urgency.value(),
		Reason:  v.reason.value(),
		Message: strings.TrimSpace(v.message.Value()),
	}
}

// Errors returns the validation errors from the last submit.
func (v *ContactView) Errors() forms.FieldErrors {
	return v.errs
}

// Sent returns the last request that passed validation, or nil.
func (v *ContactView) Sent() *forms.ContactRequest {
	return v.sent
}

// Update handles messages for the contact screen.
func (v *ContactView) Update(msg tea.Msg) (*ContactView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if v.focus == fieldMessage {
			var cmd tea.Cmd
			v.message, cmd = v.message.Update(msg)
			return v, cmd
		}
		return v, nil
	}

	switch key.String() {
	case "esc":
		v.setFocus(fieldMethod)
		return v, navigate(ScreenHome)
	case "tab", "down":
		return v, v.setFocus((v.focus + 1) % contactFieldCount)
	case "shift+tab", "up":
		return v, v.setFocus((v.focus + contactFieldCount - 1) % contactFieldCount)
	case "enter":
		v.submit()
		return v, nil
	}

	if v.focus == fieldMessage {
		var cmd tea.Cmd
		v.message, cmd = v.message.Update(msg)
		return v, cmd
	}

	switch key.String() {
	case "left", "h":
		v.current().cycle(-1)
	case "right", "l", " ":
		v.current().cycle(1)
	case "e":
		v.emergency = !v.emergency
	}
	return v, nil
}

func (v *ContactView) current() *choice {
	switch v.focus {
	case fieldUrgency:
		return &v.urgency
	case fieldReason:
		return &v.reason
	default:
		return &v.method
	}
}

func (v *ContactView) setFocus(f contactField) tea.Cmd {
	v.focus = f
	if f == fieldMessage {
		return v.message.Focus()
	}
	v.message.Blur()
	return nil
}

func (v *ContactView) submit() {
	req := v.Request()
	v.errs = forms.ValidateContactRequest(req)
	if len(v.errs) > 0 {
		v.sent = nil
		return
	}
	req = req.Normalize()
	v.sent = &req
	log.Printf("[tui] nurse contact request: %s via %s (%s)", req.Reason, req.Method, req.Urgency)

	v.method.index = -1
	v.reason.index = -1
	v.message.Reset()
	v.setFocus(fieldMethod)
}

// View renders the contact screen.
func (v *ContactView) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Contact Your COPD Nurse"))
	b.WriteString("\n")

	emergency := errorStyle.Render("⚠ " + content.EmergencyNotice)
	if v.emergency {
		lines := []string{emergency, ""}
		for _, s := range content.EmergencySymptoms {
			lines = append(lines, "  • "+s)
		}
		emergency = lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	b.WriteString(cardStyle.Width(64).Render(emergency))
	b.WriteString("\n\n")

	b.WriteString(v.row(fieldMethod, "Contact Method", v.method.value(), forms.FieldMethod))
	b.WriteString(v.row(fieldUrgency, "Urgency", v.urgency.value(), forms.FieldUrgency))
	b.WriteString(v.row(fieldReason, "Reason", v.reason.value(), forms.FieldReason))

	label := labelStyle.Render("Message")
	if v.focus == fieldMessage {
		label = phaseTitleStyle.Width(18).Render("Message")
	}
	b.WriteString(label + v.message.View())
	b.WriteString("\n\n")

	if v.sent != nil {
		b.WriteString(successStyle.Render(fmt.Sprintf("%s Request sent. Your nurse will reach you by %s.",
			iconFor("check-circle"), strings.ToLower(v.sent.Method))))
		b.WriteString("\n\n")
	}

	b.WriteString(valueStyle.Render("When to Contact Your Nurse"))
	b.WriteString("\n")
	for _, r := range content.NurseContactReasons {
		b.WriteString(dimStyle.Render("  • " + r))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(valueStyle.Render("Recent Conversations"))
	b.WriteString("\n")
	for _, h := range v.history {
		b.WriteString(historyCard(h))
		b.WriteString("\n")
	}

	b.WriteString(keyHint("tab", "next field") + "  " + keyHint("←/→", "choose") + "  " +
		keyHint("enter", "send") + "  " + keyHint("e", "emergency") + "  " + keyHint("esc", "home"))
	return b.String()
}

func (v *ContactView) row(f contactField, label, value, errKey string) string {
	shown := value
	if shown == "" {
		shown = "Select..."
	}
	style := unselectedStyle
	l := labelStyle.Render(label)
	if v.focus == f {
		style = selectedStyle
		l = phaseTitleStyle.Width(18).Render(label)
	}
	line := l + style.Render("‹ "+shown+" ›")
	if msg, ok := v.errs[errKey]; ok {
		line += " " + errorStyle.Render(msg)
	}
	return line + "\n"
}

func historyCard(h content.HistoryEntry) string {
	urgency := dimStyle
	switch h.Urgency {
	case "high":
		urgency = errorStyle
	case "medium":
		urgency = warningStyle
	}
	head := fmt.Sprintf("%s  %s  %s  %s",
		valueStyle.Render(h.Kind),
		urgency.Render(h.Urgency),
		dimStyle.Render(h.At.Format("Jan 2, 3:04 PM")),
		dimStyle.Render(h.Tag))

	lines := []string{head, h.Message}
	if h.Answered() {
		lines = append(lines, successStyle.Render("Nurse: ")+h.Response)
	} else {
		lines = append(lines, warningStyle.Render("Awaiting response"))
	}
	return cardStyle.Width(64).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
