package tui

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/breathcheck/internal/forms"
)

// inputRow is one labelled text field of an auth form.
type inputRow struct {
	key   string
	label string
	input textinput.Model
}

func newInputRow(key, label, placeholder string, secret bool) inputRow {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	ti.Width = 40
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return inputRow{key: key, label: label, input: ti}
}

// inputForm is a vertical stack of text fields with one focused.
type inputForm struct {
	rows  []inputRow
	focus int
	errs  forms.FieldErrors
}

func (f *inputForm) value(key string) string {
	for _, r := range f.rows {
		if r.key == key {
			return strings.TrimSpace(r.input.Value())
		}
	}
	return ""
}

func (f *inputForm) setValue(key, value string) {
	for i := range f.rows {
		if f.rows[i].key == key {
			f.rows[i].input.SetValue(value)
		}
	}
}

func (f *inputForm) focusRow(i int) tea.Cmd {
	f.focus = i
	var cmd tea.Cmd
	for j := range f.rows {
		if j == i {
			cmd = f.rows[j].input.Focus()
		} else {
			f.rows[j].input.Blur()
		}
	}
	return cmd
}

func (f *inputForm) next() tea.Cmd {
	return f.focusRow((f.focus + 1) % len(f.rows))
}

func (f *inputForm) prev() tea.Cmd {
	return f.focusRow((f.focus + len(f.rows) - 1) % len(f.rows))
}

func (f *inputForm) onLast() bool {
	return f.focus == len(f.rows)-1
}

func (f *inputForm) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.rows[f.focus].input, cmd = f.rows[f.focus].input.Update(msg)
	return cmd
}

func (f *inputForm) reset() {
	for i := range f.rows {
		f.rows[i].input.Reset()
	}
	f.errs = nil
}

func (f *inputForm) view() string {
	var b strings.Builder
	for i, r := range f.rows {
		label := labelStyle.Render(r.label)
		if i == f.focus {
			label = phaseTitleStyle.Width(18).Render(r.label)
		}
		b.WriteString(label)
		b.WriteString(r.input.View())
		b.WriteString("\n")
		if msg, ok := f.errs[r.key]; ok {
			b.WriteString(strings.Repeat(" ", 18))
			b.WriteString(errorStyle.Render(msg))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// LoginView is the sign-in screen.
type LoginView struct {
	form inputForm
}

// NewLoginView creates the login screen.
func NewLoginView() *LoginView {
	return &LoginView{form: inputForm{rows: []inputRow{
		newInputRow(forms.FieldEmail, "Email", "you@example.com", false),
		newInputRow(forms.FieldPassword, "Password", "password", true),
	}}}
}

// Focus focuses the first field.
func (v *LoginView) Focus() tea.Cmd {
	return v.form.focusRow(0)
}

// Errors returns the validation errors from the last submit.
func (v *LoginView) Errors() forms.FieldErrors {
	return v.form.errs
}

// Update handles messages for the login screen.
func (v *LoginView) Update(msg tea.Msg) (*LoginView, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return v, v.form.next()
		case "shift+tab", "up":
			return v, v.form.prev()
		case "ctrl+n":
			v.form.reset()
			return v, navigate(ScreenRegister)
		case "enter":
			if !v.form.onLast() {
				return v, v.form.next()
			}
			return v, v.submit()
		}
	}
	return v, v.form.updateFocused(msg)
}

// submit accepts any non-empty credentials; there is no account backend.
func (v *LoginView) submit() tea.Cmd {
	email := v.form.value(forms.FieldEmail)
	v.form.errs = forms.ValidateLogin(email, v.form.value(forms.FieldPassword))
	if len(v.form.errs) > 0 {
		return nil
	}
	log.Printf("[tui] signed in as %s", email)
	v.form.reset()
	return navigate(ScreenHome)
}

// View renders the login screen.
func (v *LoginView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("BreathCheck"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Sign in to continue"))
	b.WriteString("\n\n")
	b.WriteString(v.form.view())
	b.WriteString("\n")
	b.WriteString(keyHint("enter", "sign in") + "  " + keyHint("tab", "next field") + "  " + keyHint("ctrl+n", "create account"))
	return b.String()
}

// RegisterView is the account creation screen.
type RegisterView struct {
	form inputForm
}

// NewRegisterView creates the registration screen.
func NewRegisterView() *RegisterView {
	return &RegisterView{form: inputForm{rows: []inputRow{
		newInputRow(forms.FieldUsername, "Username", "username", false),
		newInputRow(forms.FieldEmail, "Email", "you@example.com", false),
		newInputRow(forms.FieldPassword, "Password", "at least 8 characters", true),
		newInputRow(forms.FieldStudyID, "Study ID", "from your study pack", false),
	}}}
}

// Focus focuses the first field.
func (v *RegisterView) Focus() tea.Cmd {
	return v.form.focusRow(0)
}

// Errors returns the validation errors from the last submit.
func (v *RegisterView) Errors() forms.FieldErrors {
	return v.form.errs
}

// Update handles messages for the registration screen.
func (v *RegisterView) Update(msg tea.Msg) (*RegisterView, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return v, v.form.next()
		case "shift+tab", "up":
			return v, v.form.prev()
		case "esc":
			v.form.reset()
			return v, navigate(ScreenLogin)
		case "enter":
			if !v.form.onLast() {
				return v, v.form.next()
			}
			return v, v.submit()
		}
	}
	return v, v.form.updateFocused(msg)
}

func (v *RegisterView) submit() tea.Cmd {
	reg := forms.Registration{
		Username: v.form.value(forms.FieldUsername),
		Email:    v.form.value(forms.FieldEmail),
		Password: v.form.value(forms.FieldPassword),
		StudyID:  v.form.value(forms.FieldStudyID),
	}
	v.form.errs = forms.ValidateRegistration(reg)
	if len(v.form.errs) > 0 {
		return nil
	}
	log.Printf("[tui] registered %s for study %s", reg.Username, reg.StudyID)
	v.form.reset()
	return navigate(ScreenHome)
}

// View renders the registration screen.
func (v *RegisterView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create Account"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Join your breathing study"))
	b.WriteString("\n\n")
	b.WriteString(v.form.view())
	b.WriteString("\n")
	b.WriteString(keyHint("enter", "register") + "  " + keyHint("tab", "next field") + "  " + keyHint("esc", "back to sign in"))
	return b.String()
}
