package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazycms/internal/export"
	"github.com/rebeliceyang/lazycms/internal/filter"
	"github.com/rebeliceyang/lazycms/internal/models"
	"github.com/rebeliceyang/lazycms/internal/ui/components"
	"github.com/rebeliceyang/lazycms/internal/ui/theme"
)

// Plan is a compiled request ready to be shown
type Plan struct {
	Entity string
	Spec   models.QuerySpec
	Select filter.Statement
	Count  filter.Statement
}

// RenderPlan draws the compiled spec and both statements
func RenderPlan(th theme.Theme, p Plan) string {
	label := lipgloss.NewStyle().Foreground(th.Muted)

	var window strings.Builder
	fmt.Fprintf(&window, "%s %s\n", label.Render("entity:"), p.Entity)
	fmt.Fprintf(&window, "%s %d  %s %d", label.Render("offset:"), p.Spec.Offset, label.Render("limit:"), p.Spec.Limit)
	if len(p.Spec.Order) > 0 {
		order := make([]string, len(p.Spec.Order))
		for i, o := range p.Spec.Order {
			order[i] = o.Field + " " + o.Direction
		}
		fmt.Fprintf(&window, "\n%s %s", label.Render("order:"), strings.Join(order, ", "))
	}
	if p.Spec.Group != nil {
		fmt.Fprintf(&window, "\n%s %s", label.Render("group:"), strings.Join(p.Spec.Group, ", "))
	}
	if p.Spec.Attributes != nil {
		fmt.Fprintf(&window, "\n%s %s", label.Render("attributes:"), strings.Join(p.Spec.Attributes, ", "))
	}

	sections := []string{
		(&components.Panel{Title: "Request", Content: window.String(), Theme: th}).View(),
		(&components.Panel{Title: "Where", Content: components.RenderPredicate(th, p.Spec.Where), Theme: th}).View(),
	}
	if p.Spec.Include != nil {
		sections = append(sections, (&components.Panel{Title: "Include", Content: renderIncludes(th, p.Spec.Include, 0), Theme: th}).View())
	}
	sections = append(sections,
		(&components.Panel{Title: "Select", Content: statement(th, p.Select), Theme: th}).View(),
		(&components.Panel{Title: "Count", Content: statement(th, p.Count), Theme: th}).View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func statement(th theme.Theme, s filter.Statement) string {
	out := components.HighlightSQL(th, s.SQL)
	if len(s.Args) == 0 {
		return out
	}
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = fmt.Sprintf("$%d = %s", i+1, export.FormatCell(a))
	}
	return out + "\n" + lipgloss.NewStyle().Foreground(th.Muted).Render(strings.Join(args, "  "))
}

func renderIncludes(th theme.Theme, incs []models.CompiledInclude, depth int) string {
	if len(incs) == 0 {
		return strings.Repeat("  ", depth) + lipgloss.NewStyle().Foreground(th.Muted).Render("(empty)")
	}
	lines := make([]string, 0, len(incs))
	for _, inc := range incs {
		name := lipgloss.NewStyle().Foreground(th.Unresolved).Render("(unknown model)")
		if inc.Model != nil {
			name = lipgloss.NewStyle().Foreground(th.FieldKey).Render(inc.Model.Name)
		}
		line := strings.Repeat("  ", depth) + "- " + name
		if inc.As != "" {
			line += " as " + inc.As
		}
		if inc.Required {
			line += lipgloss.NewStyle().Foreground(th.Warning).Render(" required")
		}
		if inc.Where != nil {
			line += lipgloss.NewStyle().Foreground(th.Muted).Render(" (filtered)")
		}
		lines = append(lines, line)
		if inc.Include != nil {
			lines = append(lines, renderIncludes(th, inc.Include, depth+1))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderPage draws a result page as a table with a pagination footer
func RenderPage(th theme.Theme, page models.Page) string {
	columns := page.Columns
	if len(columns) == 0 && len(page.Items) > 0 {
		for k := range page.Items[0] {
			columns = append(columns, k)
		}
		sort.Strings(columns)
	}
	rows := make([][]string, len(page.Items))
	for i, item := range page.Items {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = export.FormatCell(item[col])
		}
		rows[i] = row
	}

	footer := fmt.Sprintf("page %d, %d per page", page.Page, page.PerPage)
	if page.HasMore {
		footer += ", more available"
	}
	return components.NewTable(th, columns, rows, page.Count).View() + "\n" +
		lipgloss.NewStyle().Foreground(th.Muted).Render(footer)
}
