package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/state"
)

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sessions := m.c.Chat.Sessions()
	if m.moveCursor(msg, len(sessions)) {
		return m, nil
	}

	if key.Matches(msg, m.keys.New) {
		m.modal = m.newChatForm()
		return m, nil
	}
	if key.Matches(msg, m.keys.Compose) {
		if m.c.Chat.Active() == 0 {
			m.toasts.Info("Open or start a conversation first")
			return m, nil
		}
		m.modal = m.composeForm()
		return m, nil
	}
	if len(sessions) == 0 {
		return m, nil
	}
	selected := sessions[clamp(m.cursor[ViewChat], 0, len(sessions)-1)]

	switch {
	case key.Matches(msg, m.keys.Open):
		return m, m.run(func(ctx context.Context) tea.Msg {
			return loadedMsg{view: ViewChat, err: m.c.Chat.Open(ctx, selected.ID)}
		})
	case key.Matches(msg, m.keys.Delete):
		return m, m.action(ViewChat, func(ctx context.Context, c *state.Containers) error {
			return c.Chat.Delete(ctx, selected.ID)
		})
	}
	return m, nil
}

func (m Model) newChatForm() *formModal {
	c := m.c
	var form *formModal
	form = newFormModal("New conversation", []formField{
		{label: "Title", placeholder: "What's on your mind?", limit: 120},
	}, func(values []string) tea.Cmd {
		return m.run(func(ctx context.Context) tea.Msg {
			if _, err := c.Chat.Create(ctx, values[0]); err != nil {
				return formResultMsg{form: form, err: err}
			}
			return formResultMsg{form: form, next: func() tea.Msg { return actionMsg{view: ViewChat} }}
		})
	})
	return form
}

// composeForm closes as soon as it is submitted; the message then shows as
// pending until the reply arrives.
func (m Model) composeForm() *formModal {
	var form *formModal
	form = newFormModal("Message", []formField{
		{label: "You", placeholder: "Type a message", limit: 4000},
	}, func(values []string) tea.Cmd {
		send := m.action(ViewChat, func(ctx context.Context, c *state.Containers) error {
			return c.Chat.Send(ctx, values[0])
		})
		return func() tea.Msg { return formResultMsg{form: form, next: send} }
	})
	return form
}

func (m Model) renderChat() string {
	styles := m.theme.Styles()
	w, h := m.contentSize()

	if !m.loaded[ViewChat] && len(m.c.Chat.Sessions()) == 0 {
		return m.panel(styles.MutedText.Render("Loading conversations..."))
	}

	sideWidth := LayoutSidebarWidth
	if m.width < LayoutCompactWidth {
		sideWidth = w / 3
	}
	mainWidth := w - sideWidth - 3

	side := m.renderChatSessions(styles, sideWidth)
	main := m.renderChatMessages(styles, mainWidth, h)

	left := styles.Panel.Width(sideWidth).Height(h).Render(side)
	right := styles.FocusPanel.Width(mainWidth).Height(h).Render(main)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderChatSessions(styles Styles, width int) string {
	sessions := m.c.Chat.Sessions()
	active := m.c.Chat.Active()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Conversations"))
	b.WriteString("\n\n")
	if len(sessions) == 0 {
		b.WriteString(styles.MutedText.Render("None yet. Press n."))
		return b.String()
	}
	for i, s := range sessions {
		title := s.Title
		if title == "" {
			title = "Untitled"
		}
		marker := "  "
		if s.ID == active {
			marker = "● "
		}
		line := truncate(marker+title, width-2)
		if i == m.cursor[ViewChat] {
			b.WriteString(styles.Selected.Render(padRight(line, width-2)))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderChatMessages(styles Styles, width, height int) string {
	msgs := m.c.Chat.Messages()
	if m.c.Chat.Active() == 0 {
		return styles.MutedText.Render("Select a conversation and press enter.")
	}

	lines := make([]string, 0, len(msgs)*2)
	for _, msg := range msgs {
		lines = append(lines, m.messageBlock(msg, styles, width-2))
	}
	if len(lines) == 0 {
		lines = append(lines, styles.MutedText.Render("Say hello. Press i to write."))
	}
	body := strings.Join(lines, "\n\n")

	// Keep the newest messages visible.
	rows := strings.Split(body, "\n")
	limit := height - 2
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	return strings.Join(rows, "\n") + "\n\n" + styles.FaintText.Render("i write · n new · d delete · enter open")
}

func (m Model) messageBlock(msg models.ChatMessage, styles Styles, width int) string {
	who := styles.AccentText.Bold(true).Render("companion")
	if msg.Role == models.RoleUser {
		who = styles.Text.Bold(true).Render("you")
	}
	if msg.Pending {
		who += styles.FaintText.Render(" sending...")
	}
	return who + "\n" + wrap(msg.Content, width)
}
