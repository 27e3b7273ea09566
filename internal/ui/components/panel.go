package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazycms/internal/ui/theme"
)

// Panel is a titled, bordered block of text
type Panel struct {
	Title   string
	Content string
	Width   int
	Theme   theme.Theme
}

// View renders the panel. A zero width sizes it to the content.
func (p *Panel) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Theme.Border).
		Padding(0, 1)
	if p.Width > 0 {
		style = style.Width(p.Width)
	}

	content := p.Content
	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Theme.Title)
		content = titleStyle.Render(p.Title) + "\n" + content
	}

	return style.Render(content)
}
