// Package ui provides the presentational components for the gutcheck TUI:
// score cards, entry lists, the weekly chart, and the tips pane. Components
// render the data they are given plus loading/empty flags; they never fetch.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Light mode colors
	LightForeground = lipgloss.Color("#1f2a37")
	LightPrimary    = lipgloss.Color("#2e7d32") // leafy green
	LightAccent     = lipgloss.Color("#7b5cd6")
	LightMuted      = lipgloss.Color("#8a94a6")
	LightBorder     = lipgloss.Color("#d5dbe3")

	// Dark mode colors
	DarkForeground = lipgloss.Color("#e8ebf0")
	DarkPrimary    = lipgloss.Color("#81c784")
	DarkAccent     = lipgloss.Color("#b39ddb")
	DarkMuted      = lipgloss.Color("#6b7687")
	DarkBorder     = lipgloss.Color("#3a4558")

	// Semantic colors (same in both modes)
	Success = lipgloss.Color("#66bb6a")
	Warning = lipgloss.Color("#ffb300")
	Danger  = lipgloss.Color("#e53935")
)

// Theme holds the active color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// Styles bundles the lipgloss styles used across the views.
type Styles struct {
	Theme Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Card     lipgloss.Style
	CardHead lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Good     lipgloss.Style
	Warn     lipgloss.Style
	Bad      lipgloss.Style
	Badge    lipgloss.Style
	Selected lipgloss.Style
	Toast    lipgloss.Style
	ErrToast lipgloss.Style
	Help     lipgloss.Style
	Prompt   lipgloss.Style
	Spinner  lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Foreground(theme.Muted),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 2),
		CardHead: lipgloss.NewStyle().Bold(true).Foreground(theme.Foreground),
		Label:    lipgloss.NewStyle().Foreground(theme.Muted),
		Value:    lipgloss.NewStyle().Bold(true).Foreground(theme.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Good:     lipgloss.NewStyle().Bold(true).Foreground(Success),
		Warn:     lipgloss.NewStyle().Bold(true).Foreground(Warning),
		Bad:      lipgloss.NewStyle().Bold(true).Foreground(Danger),
		Badge: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary).
			Underline(true),
		Toast:    lipgloss.NewStyle().Foreground(Success),
		ErrToast: lipgloss.NewStyle().Foreground(Danger),
		Help:     lipgloss.NewStyle().Foreground(theme.Muted),
		Prompt:   lipgloss.NewStyle().Foreground(theme.Primary),
		Spinner:  lipgloss.NewStyle().Foreground(theme.Accent),
	}
}

// DefaultStyles returns the light theme styles.
func DefaultStyles() Styles {
	return NewStyles(LightTheme())
}

// ScoreStyle picks a semantic style for a 0-100 gut score.
func (s Styles) ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return s.Good
	case score >= 60:
		return lipgloss.NewStyle().Bold(true).Foreground(s.Theme.Primary)
	case score >= 40:
		return s.Warn
	case score > 0:
		return s.Bad
	default:
		return s.Muted
	}
}
