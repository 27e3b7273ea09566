package models

import "strings"

// Sigil prefixes every operator token in a client filter ("$eq", "$or", ...).
const Sigil = "$"

// KeyKind tells whether a filter map key names a column or an operator
type KeyKind int

const (
	FieldKey KeyKind = iota
	OperatorKey
)

// Key is a classified filter map key
type Key struct {
	Kind KeyKind
	Name string
}

// ClassifyKey decides per key whether it is an operator token or a field name
func ClassifyKey(name string) Key {
	if strings.HasPrefix(name, Sigil) {
		return Key{Kind: OperatorKey, Name: name}
	}
	return Key{Kind: FieldKey, Name: name}
}

// Node is a client-supplied filter tree. It is one of Leaf, List or Map.
type Node interface {
	isNode()
}

// Leaf holds a scalar: string, int64, float64, bool or nil
type Leaf struct {
	Value interface{}
}

// List is an ordered sequence of nodes
type List []Node

// Map is an ordered key/value map; entries keep client order
type Map []Entry

// Entry is one key of a Map
type Entry struct {
	Key   Key
	Value Node
}

func (Leaf) isNode() {}
func (List) isNode() {}
func (Map) isNode()  {}

// Sort is a single-key ordering request
type Sort struct {
	Field     string
	Direction string
}

// IncludeSpec asks to eager-load a related entity
type IncludeSpec struct {
	Model    string
	As       string
	Required bool
	Filter   Node
	Include  []IncludeSpec // nil means no nested includes were requested
}

// RequestEnvelope is the top-level list request as received from a client.
// Nil pointers and nil slices mean the attribute was absent.
type RequestEnvelope struct {
	Filter     Node
	Sort       *Sort
	Group      []string
	Attributes []string
	Include    []IncludeSpec
	Page       *int
	PerPage    *int
	Offset     *int
	Limit      *int
}
