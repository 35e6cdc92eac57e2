package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/haven/internal/models"
	"github.com/five82/haven/internal/services"
	"github.com/five82/haven/internal/state"
)

// Breathing session recorded by the B key.
const (
	breathingPattern  = "box"
	breathingDuration = 60
)

var moodLabels = map[int]string{
	1: "very low",
	2: "low",
	3: "okay",
	4: "good",
	5: "great",
}

// moodKey maps a 1-5 score onto a theme status key.
func moodKey(score int) string {
	return "mood_" + strconv.Itoa(clamp(score, 1, 5))
}

func (m Model) handleWellbeingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg, len(m.c.Wellbeing.Entries())) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.LogMood):
		m.modal = m.moodForm()
		return m, nil
	case key.Matches(msg, m.keys.Breathe):
		return m, m.action(ViewWellbeing, func(ctx context.Context, c *state.Containers) error {
			return c.Wellbeing.CompleteBreathing(ctx, services.BreathingInput{
				Pattern:         breathingPattern,
				DurationSeconds: breathingDuration,
			})
		})
	}
	return m, nil
}

func (m Model) moodForm() *formModal {
	c := m.c
	var form *formModal
	form = newFormModal("How are you feeling?", []formField{
		{label: "Score (1 very low to 5 great)", placeholder: "3", limit: 1},
		{label: "Note", placeholder: "optional", limit: 500},
	}, func(values []string) tea.Cmd {
		return m.run(func(ctx context.Context) tea.Msg {
			score, err := strconv.Atoi(values[0])
			if err != nil {
				return formResultMsg{form: form, err: &services.InputError{Field: "Score", Rule: "number", Message: "Score must be a number from 1 to 5"}}
			}
			if _, err := c.Wellbeing.LogMood(ctx, services.MoodInput{Score: score, Note: values[1]}); err != nil {
				return formResultMsg{form: form, err: err}
			}
			return formResultMsg{form: form, next: m.refreshDashboardCmd()}
		})
	})
	return form
}

func (m Model) renderWellbeing() string {
	styles := m.theme.Styles()
	w, _ := m.contentSize()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Wellbeing"))
	b.WriteString("\n\n")
	if !m.loaded[ViewWellbeing] {
		b.WriteString(styles.MutedText.Render("Loading check-ins..."))
		return b.String()
	}

	sum := m.c.Wellbeing.Summary()
	b.WriteString(styles.AccentText.Bold(true).Render("Last 7 days"))
	b.WriteString("\n")
	if sum.Entries == 0 {
		b.WriteString(styles.MutedText.Render("No check-ins this week."))
	} else {
		b.WriteString(fmt.Sprintf("Average %.1f over %s", sum.Average, plural(sum.Entries, "check-in")))
		if sum.StreakDays > 0 {
			b.WriteString(styles.SuccessText.Render(fmt.Sprintf("  %d-day streak", sum.StreakDays)))
		}
		b.WriteString("\n")
		b.WriteString(m.moodHistogram(sum, styles))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Bold(true).Render("Check-ins"))
	b.WriteString("\n")
	entries := m.c.Wellbeing.Entries()
	if len(entries) == 0 {
		b.WriteString(styles.MutedText.Render("Press m to log how you feel."))
		b.WriteString("\n")
	}
	for i, e := range entries {
		b.WriteString(m.moodLine(e, i == m.cursor[ViewWellbeing], styles, w))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Breathing"))
	b.WriteString("\n")
	sessions := m.c.Wellbeing.Breathing()
	if len(sessions) == 0 {
		b.WriteString(styles.MutedText.Render("No sessions recorded."))
	} else {
		total := 0
		for _, s := range sessions {
			total += s.DurationSeconds
		}
		b.WriteString(fmt.Sprintf("%s, %d min total", plural(len(sessions), "session"), total/60))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("m log mood · B record a 1 minute box breathing session"))
	return b.String()
}

func (m Model) moodHistogram(sum models.MoodSummary, styles Styles) string {
	var b strings.Builder
	for score := 5; score >= 1; score-- {
		n := sum.ByScore[strconv.Itoa(score)]
		b.WriteString(styles.FaintText.Render(padRight(moodLabels[score], 9)))
		b.WriteString(styles.Status(moodKey(score)).Render(strings.Repeat("■", n)))
		if n > 0 {
			b.WriteString(styles.FaintText.Render(" " + strconv.Itoa(n)))
		}
		if score > 1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) moodLine(e models.MoodEntry, selected bool, styles Styles, width int) string {
	when := e.CreatedAt
	if t := models.ParseTime(e.CreatedAt); !t.IsZero() {
		when = t.Local().Format("Mon 02 Jan 15:04")
	}
	score := styles.Status(moodKey(e.Score)).Render(fmt.Sprintf("%d %s", e.Score, moodLabels[e.Score]))
	prefix := "  "
	if selected {
		prefix = styles.AccentText.Render("› ")
	}
	line := prefix + styles.FaintText.Render(padRight(when, 18)) + score
	if e.Note != "" {
		line += styles.MutedText.Render("  " + truncate(singleLine(e.Note), width-36))
	}
	return line
}
