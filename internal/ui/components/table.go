package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazycms/internal/ui/theme"
)

// Table renders rows as aligned text columns
type Table struct {
	Columns  []string
	Rows     [][]string
	Total    int64
	MaxWidth int
	Theme    theme.Theme

	widths []int
}

// NewTable creates a table; Total is the row count shown in the footer
func NewTable(th theme.Theme, columns []string, rows [][]string, total int64) *Table {
	return &Table{Columns: columns, Rows: rows, Total: total, MaxWidth: 40, Theme: th}
}

func (t *Table) calculateColumnWidths() {
	t.widths = make([]int, len(t.Columns))
	for i, col := range t.Columns {
		t.widths[i] = lipgloss.Width(col)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(t.widths) {
				if w := lipgloss.Width(cell); w > t.widths[i] {
					t.widths[i] = w
				}
			}
		}
	}
	for i := range t.widths {
		if t.MaxWidth > 3 && t.widths[i] > t.MaxWidth {
			t.widths[i] = t.MaxWidth
		}
	}
}

// View renders the table
func (t *Table) View() string {
	if len(t.Columns) == 0 {
		return lipgloss.NewStyle().Foreground(t.Theme.Muted).Render("No data")
	}
	t.calculateColumnWidths()

	var b strings.Builder
	b.WriteString(t.renderRow(t.Columns, lipgloss.NewStyle().Bold(true).Foreground(t.Theme.Title)))
	b.WriteString("\n")
	b.WriteString(t.renderSeparator())
	for _, row := range t.Rows {
		b.WriteString("\n")
		b.WriteString(t.renderRow(row, lipgloss.NewStyle().Foreground(t.Theme.Foreground)))
	}
	b.WriteString("\n")
	b.WriteString(t.renderStatus())
	return b.String()
}

func (t *Table) renderRow(cells []string, style lipgloss.Style) string {
	parts := make([]string, len(t.widths))
	for i := range t.widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = pad(cell, t.widths[i])
	}
	return style.Render(" " + strings.Join(parts, " │ ") + " ")
}

func (t *Table) renderSeparator() string {
	parts := make([]string, len(t.widths))
	for i, w := range t.widths {
		parts[i] = strings.Repeat("─", w)
	}
	return lipgloss.NewStyle().Foreground(t.Theme.Border).Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (t *Table) renderStatus() string {
	status := fmt.Sprintf(" %d of %d rows", len(t.Rows), t.Total)
	return lipgloss.NewStyle().Foreground(t.Theme.Muted).Italic(true).Render(status)
}

// pad truncates or right-pads s to width display cells
func pad(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if w := lipgloss.Width(s); w > width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+3 > width {
			r = r[:len(r)-1]
		}
		return string(r) + "..."
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}
