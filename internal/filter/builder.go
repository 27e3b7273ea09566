package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rebeliceyang/lazycms/internal/models"
)

// Statement is rendered SQL with its positional arguments
type Statement struct {
	SQL  string
	Args []interface{}
}

// Builder renders query specs as PostgreSQL statements. Includes become
// correlated JSON subqueries; required includes add an EXISTS condition.
type Builder struct{}

// NewBuilder creates a new SQL builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildSelect renders the windowed select for spec over root
func (b *Builder) BuildSelect(root *models.Entity, spec models.QuerySpec) (Statement, error) {
	if root == nil {
		return Statement{}, fmt.Errorf("no entity to select from")
	}

	r := &renderer{}
	s := rootScope(root)

	cols := r.projection(s, spec.Attributes)
	incCols, err := r.includeColumns(s, spec.Include)
	if err != nil {
		return Statement{}, err
	}
	cols = append(cols, incCols...)

	where, err := r.rootWhere(s, spec)
	if err != nil {
		return Statement{}, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(s.from())
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	if len(spec.Group) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(r.refs(s, spec.Group))
	}
	if len(spec.Order) > 0 {
		order, err := r.order(s, spec.Order)
		if err != nil {
			return Statement{}, err
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(order)
	}
	fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", spec.Limit, spec.Offset)

	return Statement{SQL: sb.String(), Args: r.args}, nil
}

// BuildCount renders the row count for spec ignoring order and window
func (b *Builder) BuildCount(root *models.Entity, spec models.QuerySpec) (Statement, error) {
	if root == nil {
		return Statement{}, fmt.Errorf("no entity to count")
	}

	r := &renderer{}
	s := rootScope(root)

	where, err := r.rootWhere(s, spec)
	if err != nil {
		return Statement{}, err
	}

	var sb strings.Builder
	if len(spec.Group) > 0 {
		sb.WriteString("SELECT count(*) AS count FROM (SELECT 1 FROM ")
	} else {
		sb.WriteString("SELECT count(*) AS count FROM ")
	}
	sb.WriteString(s.from())
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	if len(spec.Group) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(r.refs(s, spec.Group))
		sb.WriteString(") AS grouped")
	}

	return Statement{SQL: sb.String(), Args: r.args}, nil
}

// scope is an aliased entity a predicate is rendered against
type scope struct {
	entity *models.Entity
	alias  string
	nested bool
}

func rootScope(e *models.Entity) scope {
	return scope{entity: e, alias: e.Name}
}

func (s scope) column(field string) string {
	return pgx.Identifier{s.alias, s.entity.Column(field)}.Sanitize()
}

func (s scope) from() string {
	table := pgx.Identifier{s.entity.Table}
	if s.entity.Schema != "" {
		table = pgx.Identifier{s.entity.Schema, s.entity.Table}
	}
	return table.Sanitize() + " AS " + pgx.Identifier{s.alias}.Sanitize()
}

type renderer struct {
	args []interface{}
}

func (r *renderer) bind(v interface{}) string {
	r.args = append(r.args, v)
	return "$" + strconv.Itoa(len(r.args))
}

// ref resolves "field" against the scope and "alias.column" verbatim
func (r *renderer) ref(s scope, name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return pgx.Identifier{name[:i], name[i+1:]}.Sanitize()
	}
	return s.column(name)
}

func (r *renderer) refs(s scope, names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = r.ref(s, n)
	}
	return strings.Join(out, ", ")
}

// projection selects attrs under their attribute names. Without attrs every
// mapped attribute is selected; an entity without a mapping selects all columns.
func (r *renderer) projection(s scope, attrs []string) []string {
	if attrs == nil {
		attrs = s.entity.AttributeNames()
	}
	if len(attrs) == 0 {
		return []string{pgx.Identifier{s.alias}.Sanitize() + ".*"}
	}
	cols := make([]string, len(attrs))
	for i, a := range attrs {
		cols[i] = s.column(a) + " AS " + pgx.Identifier{a}.Sanitize()
	}
	return cols
}

func (r *renderer) order(s scope, terms []models.OrderTerm) (string, error) {
	out := make([]string, len(terms))
	for i, t := range terms {
		dir, ok := normalizeDirection(t.Direction)
		if !ok {
			return "", fmt.Errorf("invalid sort direction %q", t.Direction)
		}
		out[i] = r.ref(s, t.Field) + " " + dir
	}
	return strings.Join(out, ", "), nil
}

func (r *renderer) rootWhere(s scope, spec models.QuerySpec) (string, error) {
	where, err := r.where(spec.Where, s)
	if err != nil {
		return "", err
	}
	parts := []string{}
	if where != "" {
		parts = append(parts, where)
	}
	for _, inc := range spec.Include {
		if !inc.Required {
			continue
		}
		exists, err := r.exists(s, inc)
		if err != nil {
			return "", err
		}
		parts = append(parts, exists)
	}
	return joinParts(parts, "AND"), nil
}

// where renders a predicate in boolean position. An empty result means no condition.
func (r *renderer) where(p models.Predicate, s scope) (string, error) {
	switch v := p.(type) {
	case nil:
		return "", nil
	case models.Clause:
		return r.group(clauseItems(v), "AND", func(item models.Predicate) (string, error) {
			return r.term(item.(models.Clause)[0], s)
		})
	case models.Sequence:
		return r.group(v, "AND", func(item models.Predicate) (string, error) {
			return r.where(item, s)
		})
	default:
		return "", fmt.Errorf("where clause must be an object or a list, got %T", p)
	}
}

func (r *renderer) term(t models.Term, s scope) (string, error) {
	if t.Kind == models.FieldKey {
		return r.field(s.column(t.Field), t.Value, s)
	}
	if !t.Resolved() {
		return "", fmt.Errorf("unresolved operator %q", t.Token)
	}

	switch t.Op {
	case models.SymAnd, models.SymOr:
		items, err := connectives(t)
		if err != nil {
			return "", err
		}
		return r.group(items, connective(t.Op), func(item models.Predicate) (string, error) {
			return r.where(item, s)
		})
	case models.SymNot:
		inner, err := r.where(t.Value, s)
		if err != nil {
			return "", err
		}
		if inner == "" {
			return "FALSE", nil
		}
		return "NOT (" + inner + ")", nil
	default:
		return "", fmt.Errorf("operator %s needs a field", t.Label())
	}
}

// field renders the condition value imposes on col
func (r *renderer) field(col string, value models.Predicate, s scope) (string, error) {
	switch v := value.(type) {
	case nil:
		return col + " IS NULL", nil
	case models.Literal:
		if v.Value == nil {
			return col + " IS NULL", nil
		}
		return col + " = " + r.bind(v.Value), nil
	case models.Sequence:
		return r.in(col, v, false)
	case models.Clause:
		for _, t := range v {
			if t.Kind == models.FieldKey {
				return "", fmt.Errorf("nested field %q under %s is not supported", t.Field, col)
			}
		}
		return r.group(clauseItems(v), "AND", func(item models.Predicate) (string, error) {
			return r.compare(col, item.(models.Clause)[0], s)
		})
	default:
		return "", fmt.Errorf("unsupported value %T for %s", value, col)
	}
}

var comparisons = map[models.Symbol]string{
	models.SymGt:            ">",
	models.SymGte:           ">=",
	models.SymLt:            "<",
	models.SymLte:           "<=",
	models.SymLike:          "LIKE",
	models.SymNotLike:       "NOT LIKE",
	models.SymILike:         "ILIKE",
	models.SymNotILike:      "NOT ILIKE",
	models.SymRegexp:        "~",
	models.SymNotRegexp:     "!~",
	models.SymIRegexp:       "~*",
	models.SymNotIRegexp:    "!~*",
	models.SymOverlap:       "&&",
	models.SymContains:      "@>",
	models.SymContained:     "<@",
	models.SymAdjacent:      "-|-",
	models.SymStrictLeft:    "<<",
	models.SymStrictRight:   ">>",
	models.SymNoExtendRight: "&<",
	models.SymNoExtendLeft:  "&>",
}

// compare renders one operator term applied to col
func (r *renderer) compare(col string, t models.Term, s scope) (string, error) {
	if !t.Resolved() {
		return "", fmt.Errorf("unresolved operator %q on %s", t.Token, col)
	}

	if op, ok := comparisons[t.Op]; ok {
		operand, err := r.operand(t.Value, s)
		if err != nil {
			return "", fmt.Errorf("%s on %s: %w", t.Label(), col, err)
		}
		return col + " " + op + " " + operand, nil
	}

	switch t.Op {
	case models.SymEq, models.SymNe:
		if isNull(t.Value) {
			if t.Op == models.SymEq {
				return col + " IS NULL", nil
			}
			return col + " IS NOT NULL", nil
		}
		op := "="
		if t.Op == models.SymNe {
			op = "!="
		}
		operand, err := r.operand(t.Value, s)
		if err != nil {
			return "", fmt.Errorf("%s on %s: %w", t.Label(), col, err)
		}
		return col + " " + op + " " + operand, nil
	case models.SymIs:
		return r.is(col, t.Value, false)
	case models.SymNot:
		switch v := t.Value.(type) {
		case models.Literal:
			if v.Value == nil {
				return r.is(col, v, true)
			}
			if _, ok := v.Value.(bool); ok {
				return r.is(col, v, true)
			}
			return col + " != " + r.bind(v.Value), nil
		case models.Sequence:
			return r.in(col, v, true)
		default:
			inner, err := r.field(col, t.Value, s)
			if err != nil {
				return "", err
			}
			if inner == "" {
				return "FALSE", nil
			}
			return "NOT (" + inner + ")", nil
		}
	case models.SymIn, models.SymNotIn:
		seq, ok := t.Value.(models.Sequence)
		if !ok {
			return "", fmt.Errorf("%s on %s expects a list", t.Label(), col)
		}
		return r.in(col, seq, t.Op == models.SymNotIn)
	case models.SymBetween, models.SymNotBetween:
		seq, ok := t.Value.(models.Sequence)
		if !ok || len(seq) != 2 {
			return "", fmt.Errorf("%s on %s expects a list of two values", t.Label(), col)
		}
		lo, err := r.operand(seq[0], s)
		if err != nil {
			return "", err
		}
		hi, err := r.operand(seq[1], s)
		if err != nil {
			return "", err
		}
		op := "BETWEEN"
		if t.Op == models.SymNotBetween {
			op = "NOT BETWEEN"
		}
		return col + " " + op + " " + lo + " AND " + hi, nil
	case models.SymAny, models.SymAll:
		q, err := r.quantifier(t, s)
		if err != nil {
			return "", fmt.Errorf("%s on %s: %w", t.Label(), col, err)
		}
		return col + " = " + q, nil
	case models.SymCol:
		operand, err := r.operand(models.Clause{t}, s)
		if err != nil {
			return "", err
		}
		return col + " = " + operand, nil
	case models.SymAnd, models.SymOr:
		items, err := connectives(t)
		if err != nil {
			return "", err
		}
		return r.group(items, connective(t.Op), func(item models.Predicate) (string, error) {
			return r.field(col, item, s)
		})
	default:
		return "", fmt.Errorf("operator %s is not supported on %s", t.Label(), col)
	}
}

// operand renders the right-hand side of a comparison
func (r *renderer) operand(value models.Predicate, s scope) (string, error) {
	switch v := value.(type) {
	case nil:
		return "NULL", nil
	case models.Literal:
		if v.Value == nil {
			return "NULL", nil
		}
		return r.bind(v.Value), nil
	case models.Sequence:
		arr, err := literalValues(v)
		if err != nil {
			return "", err
		}
		return r.bind(arr), nil
	case models.Clause:
		if len(v) != 1 || v[0].Kind != models.OperatorKey || !v[0].Resolved() {
			return "", fmt.Errorf("operand must be a value, a list, or a single $col/$any/$all")
		}
		t := v[0]
		switch t.Op {
		case models.SymCol:
			lit, ok := t.Value.(models.Literal)
			name, isString := lit.Value.(string)
			if !ok || !isString {
				return "", fmt.Errorf("$col expects a column name")
			}
			return r.ref(s, name), nil
		case models.SymAny, models.SymAll:
			return r.quantifier(t, s)
		}
		return "", fmt.Errorf("operator %s cannot be used as an operand", t.Label())
	default:
		return "", fmt.Errorf("unsupported operand %T", value)
	}
}

// quantifier renders ANY/ALL over a bound array or a VALUES list
func (r *renderer) quantifier(t models.Term, s scope) (string, error) {
	kw := "ANY"
	if t.Op == models.SymAll {
		kw = "ALL"
	}
	switch v := t.Value.(type) {
	case models.Sequence:
		arr, err := literalValues(v)
		if err != nil {
			return "", err
		}
		return kw + " (" + r.bind(arr) + ")", nil
	case models.Clause:
		if len(v) == 1 && v[0].Op == models.SymValues {
			seq, ok := v[0].Value.(models.Sequence)
			if !ok || len(seq) == 0 {
				return "", fmt.Errorf("$values expects a non-empty list")
			}
			rows := make([]string, len(seq))
			for i, item := range seq {
				val, err := r.operand(item, s)
				if err != nil {
					return "", err
				}
				rows[i] = "(" + val + ")"
			}
			return kw + " (VALUES " + strings.Join(rows, ", ") + ")", nil
		}
	}
	return "", fmt.Errorf("%s expects a list or $values", t.Label())
}

func (r *renderer) is(col string, value models.Predicate, negate bool) (string, error) {
	lit, ok := value.(models.Literal)
	if !ok && value != nil {
		return "", fmt.Errorf("IS on %s expects null or a boolean", col)
	}
	op := " IS "
	if negate {
		op = " IS NOT "
	}
	switch v := lit.Value.(type) {
	case nil:
		return col + op + "NULL", nil
	case bool:
		if v {
			return col + op + "TRUE", nil
		}
		return col + op + "FALSE", nil
	default:
		return "", fmt.Errorf("IS on %s expects null or a boolean, got %v", col, v)
	}
}

func (r *renderer) in(col string, seq models.Sequence, negate bool) (string, error) {
	if len(seq) == 0 {
		if negate {
			return "", nil
		}
		return "FALSE", nil
	}
	placeholders := make([]string, len(seq))
	for i, item := range seq {
		lit, ok := item.(models.Literal)
		if !ok {
			return "", fmt.Errorf("IN list for %s must contain plain values", col)
		}
		placeholders[i] = r.bind(lit.Value)
	}
	op := " IN ("
	if negate {
		op = " NOT IN ("
	}
	return col + op + strings.Join(placeholders, ", ") + ")", nil
}

// group joins rendered items with op. Empty items mean TRUE: they are dropped
// from AND and make a whole OR true, in which case arguments bound by the
// group are released again.
func (r *renderer) group(items []models.Predicate, op string, render func(models.Predicate) (string, error)) (string, error) {
	mark := len(r.args)
	parts := make([]string, 0, len(items))
	for _, item := range items {
		sql, err := render(item)
		if err != nil {
			return "", err
		}
		if sql == "" {
			if op == "OR" {
				r.args = r.args[:mark]
				return "", nil
			}
			continue
		}
		parts = append(parts, sql)
	}
	if len(parts) == 0 && op == "OR" {
		return "FALSE", nil
	}
	return joinParts(parts, op), nil
}

func (r *renderer) includeColumns(parent scope, incs []models.CompiledInclude) ([]string, error) {
	cols := make([]string, 0, len(incs))
	for i, inc := range incs {
		child, assoc, err := resolveInclude(parent, inc)
		if err != nil {
			return nil, fmt.Errorf("include %d: %w", i, err)
		}
		sub, err := r.includeSubquery(parent, child, assoc, inc)
		if err != nil {
			return nil, fmt.Errorf("include %d: %w", i, err)
		}
		cols = append(cols, sub+" AS "+pgx.Identifier{child.label()}.Sanitize())
	}
	return cols, nil
}

func (r *renderer) includeSubquery(parent, child scope, assoc models.Association, inc models.CompiledInclude) (string, error) {
	cols := r.projection(child, nil)
	nested, err := r.includeColumns(child, inc.Include)
	if err != nil {
		return "", err
	}
	cols = append(cols, nested...)

	conds, err := r.includeConditions(parent, child, assoc, inc)
	if err != nil {
		return "", err
	}

	inner := "SELECT " + strings.Join(cols, ", ") + " FROM " + child.from() + " WHERE " + conds
	row := pgx.Identifier{child.alias + ".row"}.Sanitize()
	if assoc.Kind == models.HasMany {
		return "(SELECT coalesce(json_agg(" + row + "), '[]'::json) FROM (" + inner + ") AS " + row + ")", nil
	}
	return "(SELECT row_to_json(" + row + ") FROM (" + inner + " LIMIT 1) AS " + row + ")", nil
}

func (r *renderer) exists(parent scope, inc models.CompiledInclude) (string, error) {
	child, assoc, err := resolveInclude(parent, inc)
	if err != nil {
		return "", err
	}
	conds, err := r.includeConditions(parent, child, assoc, inc)
	if err != nil {
		return "", err
	}
	return "EXISTS (SELECT 1 FROM " + child.from() + " WHERE " + conds + ")", nil
}

// includeConditions joins child to parent and adds the include's own filter
// and the existence of its required nested includes
func (r *renderer) includeConditions(parent, child scope, assoc models.Association, inc models.CompiledInclude) (string, error) {
	parts := []string{joinCondition(parent, child, assoc)}
	where, err := r.where(inc.Where, child)
	if err != nil {
		return "", err
	}
	if where != "" {
		parts = append(parts, where)
	}
	for _, nested := range inc.Include {
		if !nested.Required {
			continue
		}
		exists, err := r.exists(child, nested)
		if err != nil {
			return "", err
		}
		parts = append(parts, exists)
	}
	return joinParts(parts, "AND"), nil
}

func resolveInclude(parent scope, inc models.CompiledInclude) (scope, models.Association, error) {
	if inc.Model == nil {
		return scope{}, models.Association{}, fmt.Errorf("include has no resolved model")
	}
	assoc, ok := parent.entity.Association(inc.Model.Name, inc.As)
	if !ok {
		return scope{}, models.Association{}, fmt.Errorf("%s is not associated to %s", inc.Model.Name, parent.entity.Name)
	}

	name := inc.As
	if name == "" {
		name = assoc.As
	}
	if name == "" {
		name = inc.Model.Name
	}
	alias := name
	if parent.nested {
		alias = parent.alias + "->" + name
	}
	return scope{entity: inc.Model, alias: alias, nested: true}, assoc, nil
}

// label is the output column name of an include: the last alias segment
func (s scope) label() string {
	if i := strings.LastIndex(s.alias, "->"); i >= 0 {
		return s.alias[i+2:]
	}
	return s.alias
}

func joinCondition(parent, child scope, assoc models.Association) string {
	if assoc.Kind == models.BelongsTo {
		return pgx.Identifier{child.alias, child.entity.PrimaryKeyColumn()}.Sanitize() +
			" = " + pgx.Identifier{parent.alias, assoc.ForeignKey}.Sanitize()
	}
	return pgx.Identifier{child.alias, assoc.ForeignKey}.Sanitize() +
		" = " + pgx.Identifier{parent.alias, parent.entity.PrimaryKeyColumn()}.Sanitize()
}

func joinParts(parts []string, op string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	wrapped := make([]string, len(parts))
	for i, p := range parts {
		wrapped[i] = "(" + p + ")"
	}
	return strings.Join(wrapped, " "+op+" ")
}

// clauseItems splits a clause into single-term clauses
func clauseItems(c models.Clause) []models.Predicate {
	items := make([]models.Predicate, len(c))
	for i, t := range c {
		items[i] = models.Clause{t}
	}
	return items
}

func connectives(t models.Term) ([]models.Predicate, error) {
	switch v := t.Value.(type) {
	case models.Sequence:
		return v, nil
	case models.Clause:
		return clauseItems(v), nil
	default:
		return nil, fmt.Errorf("%s expects a list or an object", t.Label())
	}
}

func connective(op models.Symbol) string {
	if op == models.SymOr {
		return "OR"
	}
	return "AND"
}

func isNull(p models.Predicate) bool {
	if p == nil {
		return true
	}
	lit, ok := p.(models.Literal)
	return ok && lit.Value == nil
}

func literalValues(seq models.Sequence) ([]interface{}, error) {
	out := make([]interface{}, len(seq))
	for i, item := range seq {
		lit, ok := item.(models.Literal)
		if !ok {
			return nil, fmt.Errorf("list must contain plain values")
		}
		out[i] = lit.Value
	}
	return out, nil
}
