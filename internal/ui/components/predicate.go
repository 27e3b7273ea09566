package components

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazycms/internal/models"
	"github.com/rebeliceyang/lazycms/internal/ui/theme"
)

// RenderPredicate draws a compiled where clause as an indented tree.
// Unresolved operators are flagged with their original token.
func RenderPredicate(th theme.Theme, p models.Predicate) string {
	if p == nil {
		return lipgloss.NewStyle().Foreground(th.Muted).Render("(none)")
	}
	var b strings.Builder
	writePredicate(&b, th, p, 0)
	return strings.TrimRight(b.String(), "\n")
}

func writePredicate(b *strings.Builder, th theme.Theme, p models.Predicate, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := p.(type) {
	case models.Literal:
		b.WriteString(indent + literal(th, v) + "\n")
	case models.Sequence:
		if len(v) == 0 {
			b.WriteString(indent + "[]\n")
			return
		}
		for i, item := range v {
			b.WriteString(fmt.Sprintf("%s- [%d]\n", indent, i))
			writePredicate(b, th, item, depth+1)
		}
	case models.Clause:
		if len(v) == 0 {
			b.WriteString(indent + "{}\n")
			return
		}
		for _, t := range v {
			b.WriteString(indent + termLabel(th, t))
			if lit, ok := t.Value.(models.Literal); ok {
				b.WriteString(": " + literal(th, lit) + "\n")
				continue
			}
			b.WriteString(":\n")
			writePredicate(b, th, t.Value, depth+1)
		}
	default:
		b.WriteString(indent + fmt.Sprintf("%v", v) + "\n")
	}
}

func termLabel(th theme.Theme, t models.Term) string {
	switch {
	case t.Kind == models.FieldKey:
		return lipgloss.NewStyle().Foreground(th.FieldKey).Render(t.Field)
	case !t.Resolved():
		return lipgloss.NewStyle().Foreground(th.Unresolved).Bold(true).Render(t.Label())
	default:
		return lipgloss.NewStyle().Foreground(th.OperatorKey).Render(t.Label())
	}
}

func literal(th theme.Theme, l models.Literal) string {
	switch v := l.Value.(type) {
	case nil:
		return lipgloss.NewStyle().Foreground(th.Null).Render("null")
	case string:
		data, _ := json.Marshal(v)
		return lipgloss.NewStyle().Foreground(th.String).Render(string(data))
	case bool:
		return lipgloss.NewStyle().Foreground(th.Keyword).Render(fmt.Sprintf("%t", v))
	default:
		return lipgloss.NewStyle().Foreground(th.Number).Render(fmt.Sprintf("%v", v))
	}
}
