package components

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazycms/internal/ui/theme"
)

// SQL keywords for syntax highlighting
var sqlKeywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true,
	"VALUES": true, "AS": true, "ORDER": true, "BY": true, "GROUP": true,
	"LIMIT": true, "OFFSET": true, "ALL": true, "ANY": true, "NULL": true,
	"NOT": true, "IN": true, "EXISTS": true, "BETWEEN": true, "LIKE": true,
	"ILIKE": true, "IS": true, "TRUE": true, "FALSE": true, "ASC": true,
	"DESC": true, "COALESCE": true, "COUNT": true, "JSON_AGG": true,
	"ROW_TO_JSON": true, "JSON": true,
}

// TokenType represents the type of a syntax token
type TokenType int

const (
	TokenText TokenType = iota
	TokenKeyword
	TokenString
	TokenNumber
	TokenOperator
	TokenPlaceholder
	TokenIdentifier
)

// Token represents a syntax-highlighted token
type Token struct {
	Type  TokenType
	Value string
}

// TokenizeSQL splits a statement into highlightable tokens
func TokenizeSQL(sql string) []Token {
	var tokens []Token
	i := 0

	for i < len(sql) {
		ch := sql[i]

		if unicode.IsSpace(rune(ch)) {
			start := i
			for i < len(sql) && unicode.IsSpace(rune(sql[i])) {
				i++
			}
			tokens = append(tokens, Token{Type: TokenText, Value: sql[start:i]})
			continue
		}

		// Quoted literal or identifier; doubled quotes escape
		if ch == '\'' || ch == '"' {
			start := i
			i++
			for i < len(sql) {
				if sql[i] == ch {
					if i+1 < len(sql) && sql[i+1] == ch {
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
			typ := TokenString
			if ch == '"' {
				typ = TokenIdentifier
			}
			tokens = append(tokens, Token{Type: typ, Value: sql[start:i]})
			continue
		}

		if ch == '$' && i+1 < len(sql) && unicode.IsDigit(rune(sql[i+1])) {
			start := i
			i++
			for i < len(sql) && unicode.IsDigit(rune(sql[i])) {
				i++
			}
			tokens = append(tokens, Token{Type: TokenPlaceholder, Value: sql[start:i]})
			continue
		}

		if unicode.IsDigit(rune(ch)) {
			start := i
			for i < len(sql) && (unicode.IsDigit(rune(sql[i])) || sql[i] == '.') {
				i++
			}
			tokens = append(tokens, Token{Type: TokenNumber, Value: sql[start:i]})
			continue
		}

		if unicode.IsLetter(rune(ch)) || ch == '_' {
			start := i
			for i < len(sql) && (unicode.IsLetter(rune(sql[i])) || unicode.IsDigit(rune(sql[i])) || sql[i] == '_') {
				i++
			}
			word := sql[start:i]
			if sqlKeywords[strings.ToUpper(word)] {
				tokens = append(tokens, Token{Type: TokenKeyword, Value: word})
			} else {
				tokens = append(tokens, Token{Type: TokenText, Value: word})
			}
			continue
		}

		if strings.ContainsRune("=<>!+-*/%&|^~@:", rune(ch)) {
			start := i
			for i < len(sql) && strings.ContainsRune("=<>!+-*/%&|^~@:", rune(sql[i])) {
				i++
			}
			tokens = append(tokens, Token{Type: TokenOperator, Value: sql[start:i]})
			continue
		}

		tokens = append(tokens, Token{Type: TokenText, Value: string(ch)})
		i++
	}

	return tokens
}

// HighlightSQL renders a statement with the theme's syntax colors
func HighlightSQL(th theme.Theme, sql string) string {
	var result strings.Builder

	for _, token := range TokenizeSQL(sql) {
		var style lipgloss.Style
		switch token.Type {
		case TokenKeyword:
			style = lipgloss.NewStyle().Foreground(th.Keyword).Bold(true)
		case TokenString:
			style = lipgloss.NewStyle().Foreground(th.String)
		case TokenNumber:
			style = lipgloss.NewStyle().Foreground(th.Number)
		case TokenOperator:
			style = lipgloss.NewStyle().Foreground(th.Operator)
		case TokenPlaceholder:
			style = lipgloss.NewStyle().Foreground(th.Placeholder).Bold(true)
		case TokenIdentifier:
			style = lipgloss.NewStyle().Foreground(th.Identifier)
		default:
			style = lipgloss.NewStyle().Foreground(th.Foreground)
		}
		result.WriteString(style.Render(token.Value))
	}

	return result.String()
}
