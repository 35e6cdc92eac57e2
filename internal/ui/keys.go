package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Refresh    key.Binding
	Session    key.Binding
	Views      key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Actions
	Open       key.Binding
	New        key.Binding
	Delete     key.Binding
	Compose    key.Binding
	Like       key.Binding
	BestAnswer key.Binding
	ShareAI    key.Binding
	MarkAll    key.Binding
	LogMood    key.Binding
	Breathe    key.Binding
	AddSong    key.Binding
	Report     key.Binding
	Block      key.Binding

	// Articles
	NextPage     key.Binding
	PrevPage     key.Binding
	Category     key.Binding
	PageSizeUp   key.Binding
	PageSizeDown key.Binding

	// Logs
	ToggleFollow key.Binding
	LevelFilter  key.Binding

	// Forms
	Confirm   key.Binding
	NextField key.Binding
	PrevField key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload view"),
		),
		Session: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Sign in/out"),
		),
		Views: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "Jump to view"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Page down"),
		),

		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open / mark read"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete"),
		),
		Compose: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Write a message"),
		),
		Like: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Like / unlike"),
		),
		BestAnswer: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Mark best answer"),
		),
		ShareAI: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Toggle AI sharing"),
		),
		MarkAll: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "Mark all read"),
		),
		LogMood: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Log mood"),
		),
		Breathe: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "Record breathing session"),
		),
		AddSong: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Add song to playlist"),
		),
		Report: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Report post"),
		),
		Block: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Block / unblock author"),
		),

		NextPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Previous page"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Cycle category"),
		),
		PageSizeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "More per page"),
		),
		PageSizeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Fewer per page"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),
		LevelFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle level filter"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Session, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Views, k.Tab, k.ShiftTab, k.Escape, k.Refresh},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Open, k.New, k.Delete, k.Compose},
		{k.Like, k.BestAnswer, k.Report, k.Block, k.ShareAI, k.MarkAll, k.LogMood, k.Breathe, k.AddSong},
		{k.NextPage, k.PrevPage, k.Category, k.PageSizeUp, k.PageSizeDown},
		{k.ToggleFollow, k.LevelFilter},
		{k.CycleTheme, k.Session, k.Help, k.Quit},
	}
}
