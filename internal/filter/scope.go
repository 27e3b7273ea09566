package filter

import (
	"fmt"

	"github.com/rebeliceyang/lazycms/internal/models"
)

// SetUserFilterToWhereSearch wraps the existing where clause, or an empty
// one, in an AND list so a row-level scope can be conjoined later without
// knowing whether a where clause existed. The input spec is not modified.
func SetUserFilterToWhereSearch(spec models.QuerySpec) models.QuerySpec {
	inner := spec.Where
	if inner == nil {
		inner = models.Clause{}
	}
	spec.Where = models.Clause{
		models.OperatorTerm(models.SymAnd, "$and", models.Sequence{inner}),
	}
	return spec
}

// AppendScope adds term to the AND slot, creating the slot first if needed
func AppendScope(spec models.QuerySpec, term models.Predicate) (models.QuerySpec, error) {
	if term == nil {
		return spec, fmt.Errorf("scope term is nil")
	}
	slot, ok := scopeSlot(spec.Where)
	if !ok {
		spec = SetUserFilterToWhereSearch(spec)
		slot, _ = scopeSlot(spec.Where)
	}

	terms := append(make(models.Sequence, 0, len(slot)+1), slot...)
	terms = append(terms, term)
	spec.Where = models.Clause{
		models.OperatorTerm(models.SymAnd, "$and", terms),
	}
	return spec, nil
}

// OwnerScope restricts rows to those whose field equals the principal id
func OwnerScope(field string, principal models.Principal) models.Predicate {
	return models.Clause{
		models.FieldTerm(field, models.Clause{
			models.OperatorTerm(models.SymEq, "$eq", models.Literal{Value: principal.UserID}),
		}),
	}
}

func scopeSlot(where models.Predicate) (models.Sequence, bool) {
	clause, ok := where.(models.Clause)
	if !ok || len(clause) != 1 {
		return nil, false
	}
	t := clause[0]
	if t.Kind != models.OperatorKey || t.Op != models.SymAnd {
		return nil, false
	}
	seq, ok := t.Value.(models.Sequence)
	return seq, ok
}
