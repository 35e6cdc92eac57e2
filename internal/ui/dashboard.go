package ui

import (
	"fmt"
	"strings"

	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/state"
)

// renderDashboard renders the home view from the poller's snapshot.
func (m Model) renderDashboard() string {
	styles := m.theme.Styles()
	var b strings.Builder

	if !m.signedIn() {
		b.WriteString(styles.Text.Bold(true).Render("Welcome to haven"))
		b.WriteString("\n\n")
		b.WriteString(m.renderSignedOut())
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("Articles and logs are available without an account (2, 8)."))
		return b.String()
	}

	if !m.snapshot.HasData {
		if m.snapshot.LastError != nil {
			b.WriteString(styles.DangerText.Render("Could not load your dashboard: " + state.Message(m.snapshot.LastError)))
			return b.String()
		}
		b.WriteString(styles.MutedText.Render("Loading your dashboard..."))
		return b.String()
	}

	d := m.snapshot.Dashboard
	name := "there"
	if m.session != nil {
		name = displayName(m.session.User())
	}
	b.WriteString(styles.Text.Bold(true).Render("Hi " + name))
	b.WriteString("\n\n")

	// Progress
	b.WriteString(styles.AccentText.Bold(true).Render("Progress"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Level %d · %d points", d.Progress.Level, d.Progress.Points))
	if d.Progress.NextLevelAt > d.Progress.Points {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("  (%d to next level)", d.Progress.NextLevelAt-d.Progress.Points)))
	}
	b.WriteString("\n")
	b.WriteString(progressBar(d.Progress, 30, m.theme))
	b.WriteString("\n\n")

	// Mood
	b.WriteString(styles.AccentText.Bold(true).Render("This week"))
	b.WriteString("\n")
	if d.Mood.Entries == 0 {
		b.WriteString(styles.MutedText.Render("No check-ins yet. Press 7 then m to log your mood."))
	} else {
		b.WriteString(styles.Status(moodKey(int(d.Mood.Average + 0.5))).Render(fmt.Sprintf("Average mood %.1f", d.Mood.Average)))
		b.WriteString(styles.MutedText.Render(fmt.Sprintf(" over %s", plural(d.Mood.Entries, "check-in"))))
		if d.Mood.StreakDays > 0 {
			b.WriteString(styles.SuccessText.Render(fmt.Sprintf("  %d-day streak", d.Mood.StreakDays)))
		}
	}
	b.WriteString("\n\n")

	// Badges
	b.WriteString(styles.AccentText.Bold(true).Render("Badges"))
	b.WriteString("\n")
	earned := 0
	for _, badge := range d.Badges {
		if badge.Earned {
			earned++
			b.WriteString(styles.Badge("best").Render(badge.Name))
			b.WriteString(" ")
		}
	}
	if earned == 0 {
		b.WriteString(styles.MutedText.Render("None earned yet"))
	}
	if locked := len(d.Badges) - earned; locked > 0 {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("  %d still to unlock", locked)))
	}
	b.WriteString("\n\n")

	// Notifications
	b.WriteString(styles.AccentText.Bold(true).Render("Recent notifications"))
	b.WriteString("\n")
	if len(d.Notifications) == 0 {
		b.WriteString(styles.MutedText.Render("You're all caught up"))
	}
	for _, n := range d.Notifications {
		b.WriteString(notificationLine(n, styles, m.width-8))
		b.WriteString("\n")
	}
	return b.String()
}

// progressBar draws progress toward the next level.
func progressBar(p models.UserProgress, width int, theme Theme) string {
	styles := theme.Styles()
	if p.NextLevelAt <= 0 || width <= 0 {
		return ""
	}
	filled := clamp(p.Points*width/p.NextLevelAt, 0, width)
	return styles.AccentText.Render(strings.Repeat("█", filled)) +
		styles.FaintText.Render(strings.Repeat("░", width-filled))
}

func notificationLine(n models.Notification, styles Styles, width int) string {
	marker := styles.Status("read").Render("○")
	title := styles.MutedText.Render(n.Title)
	if !n.IsRead {
		marker = styles.Status("unread").Render("●")
		title = styles.Text.Bold(true).Render(n.Title)
	}
	line := marker + " " + title
	if n.Body != "" {
		line += styles.FaintText.Render("  " + truncate(singleLine(n.Body), width-len([]rune(n.Title))-6))
	}
	return line
}
