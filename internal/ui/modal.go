package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// Update returns the updated modal, a command, and whether the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// formField describes one input of a formModal.
type formField struct {
	label       string
	placeholder string
	secret      bool
	limit       int
	value       string
}

// formModal is a small multi-field form. Submit runs when enter is pressed on
// the last field; its command answers with a formResultMsg.
type formModal struct {
	title   string
	labels  []string
	inputs  []textinput.Model
	focus   int
	err     string
	pending bool
	submit  func(values []string) tea.Cmd
}

// formResultMsg reports the outcome of a form submission. On success the
// form closes and next runs.
type formResultMsg struct {
	form *formModal
	err  error
	next tea.Cmd
}

func newFormModal(title string, fields []formField, submit func(values []string) tea.Cmd) *formModal {
	f := &formModal{title: title, submit: submit}
	for i, field := range fields {
		ti := textinput.New()
		ti.Placeholder = field.placeholder
		ti.CharLimit = field.limit
		if ti.CharLimit == 0 {
			ti.CharLimit = 500
		}
		ti.SetValue(field.value)
		if field.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		if i == 0 {
			ti.Focus()
		}
		f.labels = append(f.labels, field.label)
		f.inputs = append(f.inputs, ti)
	}
	return f
}

// Values returns the trimmed field values.
func (f *formModal) Values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = strings.TrimSpace(in.Value())
	}
	return out
}

func (f *formModal) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = clamp(i, 0, len(f.inputs)-1)
	f.inputs[f.focus].Focus()
}

// Update implements Modal.
func (f *formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil, false
	}
	if f.pending {
		// Only allow cancelling while a submission is in flight.
		return f, nil, key.Matches(keyMsg, keys.Escape)
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return f, nil, true
	case key.Matches(keyMsg, keys.NextField):
		f.setFocus((f.focus + 1) % len(f.inputs))
		return f, nil, false
	case key.Matches(keyMsg, keys.PrevField):
		f.setFocus((f.focus - 1 + len(f.inputs)) % len(f.inputs))
		return f, nil, false
	case key.Matches(keyMsg, keys.Confirm):
		if f.focus < len(f.inputs)-1 {
			f.setFocus(f.focus + 1)
			return f, nil, false
		}
		f.err = ""
		f.pending = true
		return f, f.submit(f.Values()), false
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(keyMsg)
	return f, cmd, false
}

// fail shows err inline and re-enables the form.
func (f *formModal) fail(message string) {
	f.pending = false
	f.err = message
}

// View implements Modal.
func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(f.title))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		label := styles.MutedText.Render(f.labels[i])
		if i == f.focus {
			label = styles.AccentText.Render(f.labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	switch {
	case f.pending:
		b.WriteString(styles.InfoText.Render("Sending..."))
	case f.err != "":
		b.WriteString(styles.DangerText.Render(f.err))
	default:
		b.WriteString(styles.FaintText.Render("enter submit · tab next field · esc cancel"))
	}

	modalWidth := clamp(width-10, 30, 64)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(modalWidth).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
