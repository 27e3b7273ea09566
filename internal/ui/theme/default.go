package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default 256-color theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		Foreground: lipgloss.Color("252"),
		Border:     lipgloss.Color("240"),
		Title:      lipgloss.Color("62"),
		Muted:      lipgloss.Color("244"),

		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		Keyword:     lipgloss.Color("75"),
		String:      lipgloss.Color("180"),
		Number:      lipgloss.Color("150"),
		Operator:    lipgloss.Color("252"),
		Placeholder: lipgloss.Color("220"),
		Identifier:  lipgloss.Color("117"),

		FieldKey:    lipgloss.Color("117"),
		OperatorKey: lipgloss.Color("75"),
		Unresolved:  lipgloss.Color("196"),
		Null:        lipgloss.Color("244"),
	}
}
