// Package filter compiles client list requests (filter, sort, pagination and
// include trees) into backend query specifications and renders them as SQL.
package filter

import (
	"fmt"
	"strconv"
)

const (
	// DefaultPerPage is the page size used when a page is requested without perPage
	DefaultPerPage = 25
	// DefaultLimit is the window size used when neither page nor limit is given
	DefaultLimit = 1000
)

// Compiler translates request envelopes into query specs.
// It holds only read-only registries and is safe for concurrent use.
type Compiler struct {
	operators *OperatorRegistry
	entities  *EntityRegistry
	strict    bool
	perPage   int
	limit     int
}

// Option configures a Compiler
type Option func(*Compiler)

// WithStrict makes unknown operator and entity tokens fail compilation
// instead of propagating an unresolved symbol or handle
func WithStrict(strict bool) Option {
	return func(c *Compiler) {
		c.strict = strict
	}
}

// WithDefaults overrides the default page size and window limit
func WithDefaults(perPage, limit int) Option {
	return func(c *Compiler) {
		if perPage > 0 {
			c.perPage = perPage
		}
		if limit > 0 {
			c.limit = limit
		}
	}
}

// NewCompiler creates a compiler over the given registries
func NewCompiler(operators *OperatorRegistry, entities *EntityRegistry, opts ...Option) *Compiler {
	c := &Compiler{
		operators: operators,
		entities:  entities,
		perPage:   DefaultPerPage,
		limit:     DefaultLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func childPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

func unsupportedNode(n interface{}, path string) error {
	return fmt.Errorf("unsupported filter node %T at %s", n, path)
}
