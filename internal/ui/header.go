package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status line: logo, user, connection state and
// the dashboard counters.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("haven", styles.Logo)}

	switch {
	case m.session == nil || (!m.session.SignedIn() && !m.session.Expired()):
		parts = append(parts, bg.Render("signed out", styles.MutedText))
	default:
		if u := m.session.User(); u.ID != 0 {
			parts = append(parts, bg.Render(displayName(u), styles.Text))
		}
	}

	parts = append(parts, m.connectionParts(styles, bg)...)

	if m.snapshot.HasData && m.signedIn() {
		d := m.snapshot.Dashboard
		unread := bg.Render(plural(d.UnreadCount, "unread"), styles.MutedText)
		if d.UnreadCount > 0 {
			unread = bg.Render(plural(d.UnreadCount, "unread"), styles.Status("unread").Bold(true).Background(lipgloss.Color(m.theme.Surface)))
		}
		parts = append(parts,
			unread,
			bg.Render(fmt.Sprintf("Lv %d", d.Progress.Level), styles.AccentText),
			bg.Render(fmt.Sprintf("%d pts", d.Progress.Points), styles.MutedText),
		)
		if d.Mood.Entries > 0 {
			parts = append(parts, bg.Render(fmt.Sprintf("mood %.1f", d.Mood.Average), styles.Status(moodKey(int(d.Mood.Average+0.5))).Background(lipgloss.Color(m.theme.Surface))))
		}
	}

	if !m.lastUpdated.IsZero() {
		parts = append(parts, bg.Render("updated "+humanizeDuration(time.Since(m.lastUpdated))+" ago", styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// connectionParts describes session expiry and offline state.
func (m Model) connectionParts(styles Styles, bg BgStyle) []string {
	if m.session != nil && (m.session.Expired() || m.snapshot.Unauthorized()) {
		return []string{
			bg.Render("SESSION EXPIRED", styles.DangerText),
			bg.Render("press L to sign in", styles.WarningText),
		}
	}
	if m.snapshot.IsOffline() {
		return []string{
			bg.Render("OFFLINE", styles.DangerText),
			bg.Render("retrying...", styles.WarningText.Bold(true)),
		}
	}
	if m.snapshot.LastError != nil {
		return []string{bg.Render("refresh failed", styles.WarningText)}
	}
	return nil
}

// renderCommandBar renders the view tabs.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	tabs := make([]string, 0, len(viewOrder)+1)
	for i, v := range viewOrder {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == ViewNotifications && m.snapshot.UnreadCount > 0 && m.signedIn() {
			label = fmt.Sprintf("%d %s (%d)", i+1, v, m.snapshot.UnreadCount)
		}
		if v == m.currentView {
			tabs = append(tabs, styles.Selected.Padding(0, 1).Render(label))
			continue
		}
		tabs = append(tabs, bg.Spaces(1)+bg.Render(label, styles.MutedText)+bg.Spaces(1))
	}
	tabs = append(tabs, bg.Spaces(2)+bg.Render("h help", styles.FaintText))
	return bg.FillLine(strings.Join(tabs, ""), m.width)
}

// renderToasts renders the most recent toast, or the short help when idle.
func (m Model) renderToasts() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	active := m.toasts.Active()
	if len(active) == 0 {
		hints := make([]string, 0, 3)
		for _, b := range m.keys.ShortHelp() {
			hints = append(hints, b.Help().Key+" "+b.Help().Desc)
		}
		return bg.FillLine(bg.Spaces(1)+bg.Render(strings.Join(hints, " · "), styles.FaintText), m.width)
	}

	toast := active[len(active)-1]
	color := lipgloss.Color(m.theme.ToastColor(toast.Level))
	chip := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Background)).
		Background(color).
		Bold(true).
		Padding(0, 1).
		Render(strings.ToUpper(toast.Level.String()))
	text := bg.Render(truncate(toast.Message, m.width-12), styles.Text)
	more := ""
	if len(active) > 1 {
		more = bg.Spaces(2) + bg.Render(fmt.Sprintf("+%d", len(active)-1), styles.FaintText)
	}
	return bg.FillLine(bg.Spaces(1)+chip+bg.Spaces(1)+text+more, m.width)
}
