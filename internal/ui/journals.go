package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/haven/internal/services"
	"github.com/five82/haven/internal/state"
)

func (m Model) handleJournalsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.c.Journals.Entries()
	if m.moveCursor(msg, len(entries)) {
		return m, nil
	}

	if key.Matches(msg, m.keys.New) {
		m.modal = m.newJournalForm()
		return m, nil
	}
	if len(entries) == 0 {
		return m, nil
	}
	entry := entries[clamp(m.cursor[ViewJournals], 0, len(entries)-1)]

	switch {
	case key.Matches(msg, m.keys.ShareAI):
		share := !entry.ShareWithAI
		return m, m.action(ViewJournals, func(ctx context.Context, c *state.Containers) error {
			return c.Journals.SetAIShare(ctx, entry.ID, share)
		})
	case key.Matches(msg, m.keys.Delete):
		return m, m.action(ViewJournals, func(ctx context.Context, c *state.Containers) error {
			return c.Journals.Delete(ctx, entry.ID)
		})
	}
	return m, nil
}

func (m Model) newJournalForm() *formModal {
	c := m.c
	var form *formModal
	form = newFormModal("New journal entry", []formField{
		{label: "Title", limit: 200},
		{label: "Entry", limit: 4000},
	}, func(values []string) tea.Cmd {
		return m.run(func(ctx context.Context) tea.Msg {
			_, err := c.Journals.Create(ctx, services.JournalInput{Title: values[0], Content: values[1]})
			if err != nil {
				return formResultMsg{form: form, err: err}
			}
			return formResultMsg{form: form, next: func() tea.Msg { return actionMsg{view: ViewJournals} }}
		})
	})
	return form
}

func (m Model) renderJournals() string {
	styles := m.theme.Styles()
	entries := m.c.Journals.Entries()
	w, _ := m.contentSize()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Journal"))
	b.WriteString("\n\n")

	if !m.loaded[ViewJournals] {
		b.WriteString(styles.MutedText.Render("Loading entries..."))
		return b.String()
	}
	if len(entries) == 0 {
		b.WriteString(styles.MutedText.Render("Nothing written yet. Press n to start an entry."))
		return b.String()
	}

	for i, j := range entries {
		title := truncate(j.Title, w-30)
		if i == m.cursor[ViewJournals] {
			b.WriteString(styles.Selected.Render(padRight("› "+title, w-28)))
		} else {
			b.WriteString(styles.Text.Render("  " + title))
		}
		if j.ShareWithAI {
			b.WriteString(" " + styles.Badge("shared").Render("shared with AI"))
		}
		if j.IsPublic {
			b.WriteString(" " + styles.Badge("public").Render("public"))
		}
		b.WriteString("\n")
		if j.Content != "" {
			b.WriteString(styles.MutedText.Render("    " + truncate(singleLine(j.Content), w-6)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("a toggle AI sharing · n new · d delete"))
	return b.String()
}
