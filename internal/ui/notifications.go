package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/haven/internal/state"
)

func (m Model) handleNotificationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.c.Notifications.Items()
	if m.moveCursor(msg, len(items)) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.MarkAll):
		if m.c.Notifications.Unread() == 0 {
			return m, nil
		}
		return m, m.action(ViewNotifications, func(ctx context.Context, c *state.Containers) error {
			return c.Notifications.MarkAllRead(ctx)
		})
	case key.Matches(msg, m.keys.Open):
		if len(items) == 0 {
			return m, nil
		}
		n := items[clamp(m.cursor[ViewNotifications], 0, len(items)-1)]
		if n.IsRead {
			return m, nil
		}
		return m, m.action(ViewNotifications, func(ctx context.Context, c *state.Containers) error {
			return c.Notifications.MarkRead(ctx, n.ID)
		})
	}
	return m, nil
}

func (m Model) renderNotifications() string {
	styles := m.theme.Styles()
	items := m.c.Notifications.Items()
	w, _ := m.contentSize()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Notifications"))
	if unread := m.c.Notifications.Unread(); unread > 0 {
		b.WriteString(styles.Status("unread").Render("  " + plural(unread, "unread")))
	}
	b.WriteString("\n\n")

	if !m.loaded[ViewNotifications] {
		b.WriteString(styles.MutedText.Render("Loading notifications..."))
		return b.String()
	}
	if len(items) == 0 {
		b.WriteString(styles.MutedText.Render("You're all caught up."))
		return b.String()
	}

	now := time.Now()
	for i, n := range items {
		line := notificationLine(n, styles, w-16)
		if age := relativeTime(n.CreatedAt, now); age != "" {
			line += styles.FaintText.Render("  " + age)
		}
		if i == m.cursor[ViewNotifications] {
			line = styles.AccentText.Render("› ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter mark read · M mark all read"))
	return b.String()
}
