package components

import (
	"strings"
	"testing"

	"github.com/rebeliceyang/lazycms/internal/models"
	"github.com/rebeliceyang/lazycms/internal/ui/theme"
)

func TestTokenizeSQL(t *testing.T) {
	tokens := TokenizeSQL(`SELECT "Article".* FROM "articles" WHERE "Article"."views" >= $12 AND x = 'it''s'`)

	var kinds []TokenType
	var values []string
	for _, tok := range tokens {
		if strings.TrimSpace(tok.Value) == "" {
			continue
		}
		kinds = append(kinds, tok.Type)
		values = append(values, tok.Value)
	}

	want := []struct {
		typ   TokenType
		value string
	}{
		{TokenKeyword, "SELECT"},
		{TokenIdentifier, `"Article"`},
		{TokenText, "."},
		{TokenOperator, "*"},
		{TokenKeyword, "FROM"},
		{TokenIdentifier, `"articles"`},
		{TokenKeyword, "WHERE"},
		{TokenIdentifier, `"Article"`},
		{TokenText, "."},
		{TokenIdentifier, `"views"`},
		{TokenOperator, ">="},
		{TokenPlaceholder, "$12"},
		{TokenKeyword, "AND"},
		{TokenText, "x"},
		{TokenOperator, "="},
		{TokenString, "'it''s'"},
	}
	if len(values) != len(want) {
		t.Fatalf("Expected %d tokens, got %d: %q", len(want), len(values), values)
	}
	for i, w := range want {
		if kinds[i] != w.typ || values[i] != w.value {
			t.Errorf("token %d: expected %d %q, got %d %q", i, w.typ, w.value, kinds[i], values[i])
		}
	}
}

func TestHighlightSQL_KeepsText(t *testing.T) {
	sql := `SELECT count(*) AS count FROM "user" AS "User"`
	out := HighlightSQL(theme.DefaultTheme(), sql)
	for _, part := range []string{"SELECT", `"user"`, `"User"`, "count"} {
		if !strings.Contains(out, part) {
			t.Errorf("highlighted output lost %q: %q", part, out)
		}
	}
}

func TestRenderPredicate(t *testing.T) {
	where := models.Clause{
		models.FieldTerm("header", models.Clause{
			models.OperatorTerm(models.SymLike, "$like", models.Literal{Value: "%go%"}),
		}),
		models.OperatorTerm(models.NoSymbol, "$lik", models.Literal{Value: int64(1)}),
		models.OperatorTerm(models.SymOr, "$or", models.Sequence{
			models.Clause{models.FieldTerm("status", models.Literal{})},
		}),
	}

	out := RenderPredicate(theme.DefaultTheme(), where)
	for _, part := range []string{"header", "Op.like", `"%go%"`, "Op.undefined($lik)", "Op.or", "- [0]", "status: null"} {
		if !strings.Contains(out, part) {
			t.Errorf("expected %q in:\n%s", part, out)
		}
	}

	if got := RenderPredicate(theme.DefaultTheme(), nil); !strings.Contains(got, "(none)") {
		t.Errorf("expected placeholder for absent where, got %q", got)
	}
}

func TestTable_View(t *testing.T) {
	table := NewTable(theme.DefaultTheme(), []string{"id", "header"}, [][]string{
		{"1", "short"},
		{"2", strings.Repeat("x", 60)},
	}, 10)

	view := table.View()
	if !strings.Contains(view, "2 of 10 rows") {
		t.Errorf("missing footer in:\n%s", view)
	}
	if !strings.Contains(view, "...") {
		t.Errorf("long cell was not truncated:\n%s", view)
	}

	empty := NewTable(theme.DefaultTheme(), nil, nil, 0)
	if !strings.Contains(empty.View(), "No data") {
		t.Error("expected empty state")
	}
}

func TestPanel_View(t *testing.T) {
	p := &Panel{Title: "Where", Content: "a = 1", Theme: theme.DefaultTheme()}
	view := p.View()
	if !strings.Contains(view, "Where") || !strings.Contains(view, "a = 1") {
		t.Errorf("unexpected panel:\n%s", view)
	}
}
