package models

import (
	"bytes"
	"encoding/json"
)

// Symbol is a backend predicate operator
type Symbol string

// NoSymbol marks an operator token the registry could not resolve
const NoSymbol Symbol = ""

const (
	SymEq            Symbol = "eq"
	SymNe            Symbol = "ne"
	SymGte           Symbol = "gte"
	SymGt            Symbol = "gt"
	SymLte           Symbol = "lte"
	SymLt            Symbol = "lt"
	SymNot           Symbol = "not"
	SymIn            Symbol = "in"
	SymNotIn         Symbol = "notIn"
	SymIs            Symbol = "is"
	SymLike          Symbol = "like"
	SymNotLike       Symbol = "notLike"
	SymILike         Symbol = "iLike"
	SymNotILike      Symbol = "notILike"
	SymRegexp        Symbol = "regexp"
	SymNotRegexp     Symbol = "notRegexp"
	SymIRegexp       Symbol = "iRegexp"
	SymNotIRegexp    Symbol = "notIRegexp"
	SymBetween       Symbol = "between"
	SymNotBetween    Symbol = "notBetween"
	SymOverlap       Symbol = "overlap"
	SymContains      Symbol = "contains"
	SymContained     Symbol = "contained"
	SymAdjacent      Symbol = "adjacent"
	SymStrictLeft    Symbol = "strictLeft"
	SymStrictRight   Symbol = "strictRight"
	SymNoExtendRight Symbol = "noExtendRight"
	SymNoExtendLeft  Symbol = "noExtendLeft"
	SymAnd           Symbol = "and"
	SymOr            Symbol = "or"
	SymAny           Symbol = "any"
	SymAll           Symbol = "all"
	SymValues        Symbol = "values"
	SymCol           Symbol = "col"
)

// Predicate is a compiled filter tree. It mirrors Node: Literal, Sequence or Clause.
type Predicate interface {
	isPredicate()
}

// Literal is a scalar passed through unchanged
type Literal struct {
	Value interface{}
}

// Sequence is an ordered list of compiled predicates
type Sequence []Predicate

// Clause is an ordered map whose keys are field names or backend symbols
type Clause []Term

// Term is one key of a Clause. Token keeps the client operator token so an
// unresolved symbol can still be reported.
type Term struct {
	Kind  KeyKind
	Field string
	Op    Symbol
	Token string
	Value Predicate
}

func (Literal) isPredicate()  {}
func (Sequence) isPredicate() {}
func (Clause) isPredicate()   {}

// FieldTerm builds a column term
func FieldTerm(field string, value Predicate) Term {
	return Term{Kind: FieldKey, Field: field, Value: value}
}

// OperatorTerm builds an operator term
func OperatorTerm(op Symbol, token string, value Predicate) Term {
	return Term{Kind: OperatorKey, Op: op, Token: token, Value: value}
}

// Resolved reports whether an operator term carries a backend symbol
func (t Term) Resolved() bool {
	return t.Kind == FieldKey || t.Op != NoSymbol
}

// Label is the key used when the term is printed. Unresolved operators
// keep their token so two of them in one map stay distinct.
func (t Term) Label() string {
	if t.Kind == FieldKey {
		return t.Field
	}
	if t.Op == NoSymbol {
		return "Op.undefined(" + t.Token + ")"
	}
	return "Op." + string(t.Op)
}

func (l Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Value)
}

func (c Clause) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Label())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if t.Value == nil {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(t.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
