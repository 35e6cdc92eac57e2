package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/haven/internal/logtail"
)

// logState holds the logs view state.
type logState struct {
	path     string
	lines    []string
	level    string // minimum level, "" for all
	follow   bool
	err      string
	viewport viewport.Model
}

type logsMsg struct {
	path  string
	lines []string
	err   error
}

// refreshLogs reads the tail of haven's log file.
func (m Model) refreshLogs() tea.Cmd {
	if m.config == nil || m.config.LogPath == "" {
		return nil
	}
	path := m.config.LogPath
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logsMsg{path: path, lines: lines, err: err}
	}
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logState.path = msg.path
	if msg.err != nil {
		m.logState.err = msg.err.Error()
		return
	}
	m.logState.err = ""
	m.logState.lines = msg.lines
	m.logState.render(m.theme)
}

// render refreshes the viewport content from the filtered lines.
func (s *logState) render(theme Theme) {
	if s.viewport.Width == 0 {
		return
	}
	lines := logtail.Filter(s.lines, s.level)
	if len(lines) == 0 {
		s.viewport.SetContent(theme.Styles().MutedText.Render("No log lines" + ternary(s.level != "", " at "+s.level+" or above", "") + "."))
		return
	}
	colored := make([]string, len(lines))
	for i, line := range lines {
		colored[i] = colorizeLogLine(line, theme, s.viewport.Width)
	}
	s.viewport.SetContent(strings.Join(colored, "\n"))
	if s.follow {
		s.viewport.GotoBottom()
	}
}

func colorizeLogLine(line string, theme Theme, width int) string {
	var color string
	switch logtail.Level(line) {
	case "ERROR":
		color = theme.Danger
	case "WARN":
		color = theme.Warning
	case "DEBUG":
		color = theme.Faint
	case "INFO":
		color = theme.Text
	default:
		color = theme.Muted
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(truncate(line, width))
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logState.viewport.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.LevelFilter):
		m.logState.level = logtail.NextLevel(m.logState.level)
		m.logState.render(m.theme)
		return m, nil
	}

	var cmd tea.Cmd
	m.logState.viewport, cmd = m.logState.viewport.Update(msg)
	if !m.logState.viewport.AtBottom() {
		m.logState.follow = false
	}
	return m, cmd
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	level := m.logState.level
	if level == "" {
		level = "all"
	}
	title := styles.Text.Bold(true).Render("haven log") +
		styles.FaintText.Render(fmt.Sprintf("  %s · level %s · follow %s",
			truncateMiddle(m.logState.path, 50), level, ternary(m.logState.follow, "on", "off")))

	body := m.logState.viewport.View()
	if m.logState.err != "" {
		body = styles.DangerText.Render("Could not read log: " + m.logState.err)
	}
	w, h := m.contentSize()
	return styles.FocusPanel.Width(w + 2).Height(h).Render(title + "\n" + body)
}
