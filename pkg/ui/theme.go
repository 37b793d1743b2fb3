package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors used by the picker. All styles are created from
// Renderer so output follows the terminal the picker draws on.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor

	Base lipgloss.Style
}

// DefaultTheme returns the default palette bound to r.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"},
		Muted:     lipgloss.AdaptiveColor{Light: "#A0A0A0", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E8E0FF", Dark: "#44475A"},
		Warning:   lipgloss.AdaptiveColor{Light: "#B35900", Dark: "#FFB86C"},

		Base: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}),
	}
}
