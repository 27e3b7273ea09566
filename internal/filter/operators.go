package filter

import (
	"sort"

	"github.com/rebeliceyang/lazycms/internal/models"
)

// OperatorRegistry maps client operator tokens to backend symbols.
// It is built once and never mutated, so concurrent lookups are safe.
type OperatorRegistry struct {
	symbols map[string]models.Symbol
}

// NewOperatorRegistry creates a registry from a token -> symbol table
func NewOperatorRegistry(aliases map[string]models.Symbol) *OperatorRegistry {
	symbols := make(map[string]models.Symbol, len(aliases))
	for token, sym := range aliases {
		symbols[token] = sym
	}
	return &OperatorRegistry{symbols: symbols}
}

// DefaultOperators returns the standard operator aliases
func DefaultOperators() *OperatorRegistry {
	return NewOperatorRegistry(map[string]models.Symbol{
		"$eq":            models.SymEq,
		"$ne":            models.SymNe,
		"$gte":           models.SymGte,
		"$gt":            models.SymGt,
		"$lte":           models.SymLte,
		"$lt":            models.SymLt,
		"$not":           models.SymNot,
		"$in":            models.SymIn,
		"$notIn":         models.SymNotIn,
		"$is":            models.SymIs,
		"$like":          models.SymLike,
		"$notLike":       models.SymNotLike,
		"$iLike":         models.SymILike,
		"$notILike":      models.SymNotILike,
		"$regexp":        models.SymRegexp,
		"$notRegexp":     models.SymNotRegexp,
		"$iRegexp":       models.SymIRegexp,
		"$notIRegexp":    models.SymNotIRegexp,
		"$between":       models.SymBetween,
		"$notBetween":    models.SymNotBetween,
		"$overlap":       models.SymOverlap,
		"$contains":      models.SymContains,
		"$contained":     models.SymContained,
		"$adjacent":      models.SymAdjacent,
		"$strictLeft":    models.SymStrictLeft,
		"$strictRight":   models.SymStrictRight,
		"$noExtendRight": models.SymNoExtendRight,
		"$noExtendLeft":  models.SymNoExtendLeft,
		"$and":           models.SymAnd,
		"$or":            models.SymOr,
		"$any":           models.SymAny,
		"$all":           models.SymAll,
		"$values":        models.SymValues,
		"$col":           models.SymCol,
	})
}

// Lookup resolves a token. Unknown tokens yield models.NoSymbol and false.
func (r *OperatorRegistry) Lookup(token string) (models.Symbol, bool) {
	if r == nil {
		return models.NoSymbol, false
	}
	sym, ok := r.symbols[token]
	return sym, ok
}

// Tokens returns all registered tokens, sorted
func (r *OperatorRegistry) Tokens() []string {
	tokens := make([]string, 0, len(r.symbols))
	for token := range r.symbols {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
