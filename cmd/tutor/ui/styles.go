// Package ui provides the visual styling for the LogicTutor chat
// interface, with light/dark mode support.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light mode colors
	LightForeground = lipgloss.Color("#1c2433")
	LightPrimary    = lipgloss.Color("#2f5aa8")
	LightAccent     = lipgloss.Color("#2e7d32")
	LightMuted      = lipgloss.Color("#8a9099")
	LightBorder     = lipgloss.Color("#d6dae0")

	// Dark mode colors
	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkPrimary    = lipgloss.Color("#7aa2f7")
	DarkAccent     = lipgloss.Color("#9ece6a")
	DarkMuted      = lipgloss.Color("#565f89")
	DarkBorder     = lipgloss.Color("#3b4261")

	// Semantic colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#8BC34A")
	Warning     = lipgloss.Color("#FFC107")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme.
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

// DetectTheme picks dark mode unless the terminal looks light.
func DetectTheme() Theme {
	colorfgbg := os.Getenv("COLORFGBG")
	if colorfgbg != "" {
		parts := strings.Split(colorfgbg, ";")
		if len(parts) >= 2 {
			bg := parts[len(parts)-1]
			if bg == "7" || bg == "15" {
				return LightTheme()
			}
		}
	}
	return DarkTheme()
}

// Styles bundles the lipgloss styles used by the chat view.
type Styles struct {
	Theme Theme

	Header      lipgloss.Style
	Bold        lipgloss.Style
	Muted       lipgloss.Style
	UserInput   lipgloss.Style
	Notice      lipgloss.Style
	ErrorNotice lipgloss.Style
	DiagramCard lipgloss.Style

	StatusSearching lipgloss.Style
	StatusSatisfied lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),
		Bold: lipgloss.NewStyle().Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
		UserInput: lipgloss.NewStyle().
			Foreground(theme.Foreground),
		Notice: lipgloss.NewStyle().
			Foreground(Warning),
		ErrorNotice: lipgloss.NewStyle().
			Foreground(Destructive),
		DiagramCard: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1).
			MarginLeft(2),
		StatusSearching: lipgloss.NewStyle().
			Bold(true).
			Foreground(Warning),
		StatusSatisfied: lipgloss.NewStyle().
			Bold(true).
			Foreground(Success),
	}
}
