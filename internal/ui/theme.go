package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/haven/internal/notify"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header, command bar and toasts
	SurfaceAlt string // Secondary surfaces
	FocusBg    string // Focused panels

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// StatusColors maps semantic keys (unread, liked, best, shared, mood_1..5)
	// to colors.
	StatusColors map[string]string
}

// StatusColor returns the color for a status key, falling back to Muted.
func (t Theme) StatusColor(key string) string {
	if c, ok := t.StatusColors[key]; ok {
		return c
	}
	return t.Muted
}

// ToastColor returns the accent color for a toast level.
func (t Theme) ToastColor(level notify.Level) string {
	switch level {
	case notify.LevelSuccess:
		return t.Success
	case notify.LevelWarning:
		return t.Warning
	case notify.LevelError:
		return t.Danger
	default:
		return t.Info
	}
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		InfoText:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		FocusPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocus)).
			Padding(0, 1),

		theme: t,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header     lipgloss.Style
	Logo       lipgloss.Style
	Selected   lipgloss.Style
	Panel      lipgloss.Style
	FocusPanel lipgloss.Style

	theme Theme
}

// Status returns a foreground style for a status key.
func (s Styles) Status(key string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.theme.StatusColor(key)))
}

// Badge returns an inverted chip style for a status key.
func (s Styles) Badge(key string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.theme.Background)).
		Background(lipgloss.Color(s.theme.StatusColor(key))).
		Padding(0, 1)
}

// WithBackground returns a copy of Styles whose text styles paint bgColor.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	out.Text = s.Text.Background(bg)
	out.MutedText = s.MutedText.Background(bg)
	out.FaintText = s.FaintText.Background(bg)
	out.AccentText = s.AccentText.Background(bg)
	out.SuccessText = s.SuccessText.Background(bg)
	out.WarningText = s.WarningText.Background(bg)
	out.DangerText = s.DangerText.Background(bg)
	out.InfoText = s.InfoText.Background(bg)
	out.Logo = s.Logo.Background(bg)
	return out
}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name, falling back to Nightfox.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name:          "Nightfox",
		Background:    "#131a24", // bg0
		Surface:       "#192330", // bg1
		SurfaceAlt:    "#212e3f", // bg2
		FocusBg:       "#29394f", // bg3
		SelectionBg:   "#2b3b51", // sel0
		SelectionText: "#cdcecf", // fg1
		Border:        "#39506d", // bg4
		BorderFocus:   "#719cd6", // blue
		Text:          "#cdcecf",
		Muted:         "#738091",
		Faint:         "#71839b",
		Accent:        "#719cd6",
		Success:       "#81b29a",
		Warning:       "#dbc074",
		Danger:        "#c94f6d",
		Info:          "#63cdcf",
		StatusColors: map[string]string{
			"unread": "#719cd6",
			"read":   "#71839b",
			"liked":  "#d67ad2", // pink
			"best":   "#81b29a",
			"shared": "#63cdcf",
			"public": "#9d79d6", // magenta
			"mood_1": "#c94f6d",
			"mood_2": "#f4a261", // orange
			"mood_3": "#dbc074",
			"mood_4": "#63cdcf",
			"mood_5": "#81b29a",
		},
	}
}

func kanagawaTheme() Theme {
	// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
	return Theme{
		Name:          "Kanagawa",
		Background:    "#16161D", // sumiInk0
		Surface:       "#1F1F28", // sumiInk3
		SurfaceAlt:    "#2A2A37", // sumiInk4
		FocusBg:       "#2A2A37",
		SelectionBg:   "#2D4F67", // waveBlue1
		SelectionText: "#DCD7BA", // fujiWhite
		Border:        "#54546D", // sumiInk6
		BorderFocus:   "#7E9CD8", // crystalBlue
		Text:          "#DCD7BA",
		Muted:         "#C8C093",
		Faint:         "#727169",
		Accent:        "#7E9CD8",
		Success:       "#98BB6C",
		Warning:       "#E6C384",
		Danger:        "#E46876",
		Info:          "#7FB4CA",
		StatusColors: map[string]string{
			"unread": "#7E9CD8",
			"read":   "#727169",
			"liked":  "#D27E99", // sakuraPink
			"best":   "#98BB6C",
			"shared": "#7FB4CA",
			"public": "#957FB8", // oniViolet
			"mood_1": "#E46876",
			"mood_2": "#FFA066", // surimiOrange
			"mood_3": "#E6C384",
			"mood_4": "#7FB4CA",
			"mood_5": "#98BB6C",
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name:          "Slate",
		Background:    "#020617", // slate-950
		Surface:       "#0f172a", // slate-900
		SurfaceAlt:    "#1e293b", // slate-800
		FocusBg:       "#283548",
		SelectionBg:   "#0284c7", // sky-600
		SelectionText: "#f8fafc", // slate-50
		Border:        "#334155", // slate-700
		BorderFocus:   "#38bdf8", // sky-400
		Text:          "#f1f5f9",
		Muted:         "#94a3b8",
		Faint:         "#64748b",
		Accent:        "#38bdf8",
		Success:       "#22c55e",
		Warning:       "#f59e0b",
		Danger:        "#ef4444",
		Info:          "#06b6d4",
		StatusColors: map[string]string{
			"unread": "#38bdf8",
			"read":   "#64748b",
			"liked":  "#f472b6", // pink-400
			"best":   "#22c55e",
			"shared": "#06b6d4",
			"public": "#a78bfa", // violet-400
			"mood_1": "#dc2626",
			"mood_2": "#f97316",
			"mood_3": "#f59e0b",
			"mood_4": "#14b8a6",
			"mood_5": "#16a34a",
		},
	}
}
