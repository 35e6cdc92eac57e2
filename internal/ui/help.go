package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Views",
			items: []helpItem{
				{"1-9", "Home/Articles/Forum/Journals/Chat/Inbox/Wellbeing/Music/Logs"},
				{"tab", "Next view"},
				{"esc", "Back / home"},
				{"r", "Reload view"},
				{"j/k g/G", "Move, top/bottom"},
			},
		},
		{
			title: "Content",
			items: []helpItem{
				{"enter", "Open article or chat, mark read"},
				{"[ ] c", "Article page, category"},
				{"+/-", "Articles per page"},
				{"space b", "Like, best answer"},
				{"R X", "Report post, block author"},
				{"s", "Add song to playlist"},
				{"a", "Share journal with AI"},
				{"n i d", "New, write, delete"},
				{"M", "Mark all read"},
				{"m B", "Log mood, breathing"},
			},
		},
		{
			title: "Logs",
			items: []helpItem{
				{"Space", "Toggle follow mode"},
				{"f", "Cycle level filter"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"L", "Sign in / sign out"},
				{"T", "Cycle theme"},
				{"h/?", "Toggle help"},
				{"e/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(10)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(clamp(m.width-4, 40, 72))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
