package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme used when printing plans and tables
type Theme struct {
	Name string

	Foreground lipgloss.Color
	Border     lipgloss.Color
	Title      lipgloss.Color
	Muted      lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Syntax highlighting (SQL)
	Keyword     lipgloss.Color
	String      lipgloss.Color
	Number      lipgloss.Color
	Operator    lipgloss.Color
	Placeholder lipgloss.Color
	Identifier  lipgloss.Color

	// Predicate tree colors
	FieldKey    lipgloss.Color
	OperatorKey lipgloss.Color
	Unresolved  lipgloss.Color
	Null        lipgloss.Color
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha", "catppuccin":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}

// Names lists the selectable themes
func Names() []string {
	return []string{"default", "catppuccin-mocha"}
}
