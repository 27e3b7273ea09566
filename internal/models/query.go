package models

import (
	"encoding/json"
	"time"
)

// OrderTerm is one ORDER BY entry
type OrderTerm struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// QuerySpec is the backend-ready description of a list query.
// Nil Where and nil slices mean the attribute is absent; an empty,
// non-nil Include means joins were requested but none resolved.
type QuerySpec struct {
	Offset     int
	Limit      int
	Where      Predicate
	Order      []OrderTerm
	Group      []string
	Attributes []string
	Include    []CompiledInclude
}

// CompiledInclude is an eager-load request resolved against the entity registry.
// Model is nil when the entity token was not registered.
type CompiledInclude struct {
	Model    *Entity
	As       string
	Required bool
	Where    Predicate
	Include  []CompiledInclude
}

type querySpecJSON struct {
	Offset     int                `json:"offset"`
	Limit      int                `json:"limit"`
	Where      Predicate          `json:"where,omitempty"`
	Order      *[]OrderTerm       `json:"order,omitempty"`
	Group      *[]string          `json:"group,omitempty"`
	Attributes *[]string          `json:"attributes,omitempty"`
	Include    *[]CompiledInclude `json:"include,omitempty"`
}

// MarshalJSON omits absent attributes but keeps empty ones
func (q QuerySpec) MarshalJSON() ([]byte, error) {
	out := querySpecJSON{Offset: q.Offset, Limit: q.Limit, Where: q.Where}
	if q.Order != nil {
		out.Order = &q.Order
	}
	if q.Group != nil {
		out.Group = &q.Group
	}
	if q.Attributes != nil {
		out.Attributes = &q.Attributes
	}
	if q.Include != nil {
		out.Include = &q.Include
	}
	return json.Marshal(out)
}

type compiledIncludeJSON struct {
	Model    *string            `json:"model"`
	As       string             `json:"as,omitempty"`
	Required bool               `json:"required"`
	Where    Predicate          `json:"where,omitempty"`
	Include  *[]CompiledInclude `json:"include,omitempty"`
}

func (c CompiledInclude) MarshalJSON() ([]byte, error) {
	out := compiledIncludeJSON{As: c.As, Required: c.Required, Where: c.Where}
	if c.Model != nil {
		out.Model = &c.Model.Name
	}
	if c.Include != nil {
		out.Include = &c.Include
	}
	return json.Marshal(out)
}

// QueryResult holds rows returned by the database with columns in select order
type QueryResult struct {
	Columns  []string
	Rows     []map[string]interface{}
	Duration time.Duration
}

// Page is a paginated list response
type Page struct {
	Columns []string                 `json:"-"`
	Items   []map[string]interface{} `json:"items"`
	Count   int64                    `json:"count"`
	PerPage int                      `json:"perPage"`
	Page    int                      `json:"page"`
	HasMore bool                     `json:"hasMore"`
}
