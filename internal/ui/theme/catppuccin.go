package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha palette
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		Foreground: lipgloss.Color("#cdd6f4"), // Text
		Border:     lipgloss.Color("#45475a"), // Surface1
		Title:      lipgloss.Color("#89b4fa"), // Blue
		Muted:      lipgloss.Color("#6c7086"), // Overlay0

		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		Keyword:     lipgloss.Color("#cba6f7"), // Mauve
		String:      lipgloss.Color("#a6e3a1"), // Green
		Number:      lipgloss.Color("#fab387"), // Peach
		Operator:    lipgloss.Color("#94e2d5"), // Teal
		Placeholder: lipgloss.Color("#f9e2af"), // Yellow
		Identifier:  lipgloss.Color("#89dceb"), // Sky

		FieldKey:    lipgloss.Color("#89b4fa"), // Blue
		OperatorKey: lipgloss.Color("#cba6f7"), // Mauve
		Unresolved:  lipgloss.Color("#f38ba8"), // Red
		Null:        lipgloss.Color("#6c7086"), // Overlay0
	}
}
