package metadata

import (
	"context"
	"fmt"
	"sort"

	"github.com/rebeliceyang/lazycms/internal/models"
)

// Querier runs a statement and returns its rows
type Querier interface {
	QueryWithColumns(ctx context.Context, sql string, args ...interface{}) (*models.QueryResult, error)
}

// ColumnInfo describes a table column
type ColumnInfo struct {
	Name     string
	DataType string
	IsArray  bool
	IsJsonb  bool
}

// Mismatch is an entity attribute or foreign key with no backing column
type Mismatch struct {
	Entity string
	Name   string
	Column string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s.%s: column %q does not exist", m.Entity, m.Name, m.Column)
}

// toString safely converts an interface{} to string
func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// GetTableColumns retrieves column metadata for a table
func GetTableColumns(ctx context.Context, db Querier, schema, table string) ([]ColumnInfo, error) {
	query := `
		SELECT
			column_name,
			data_type,
			udt_name,
			CASE WHEN data_type = 'ARRAY' THEN true ELSE false END as is_array
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	res, err := db.QueryWithColumns(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	columns := make([]ColumnInfo, 0, len(res.Rows))
	for _, row := range res.Rows {
		var col ColumnInfo
		col.Name = toString(row["column_name"])
		col.DataType = toString(row["data_type"])
		if isArray, ok := row["is_array"].(bool); ok {
			col.IsArray = isArray
		}
		col.IsJsonb = toString(row["udt_name"]) == "jsonb"
		columns = append(columns, col)
	}

	return columns, nil
}

// VerifyEntity checks that every mapped attribute, the primary key and the
// foreign keys the entity owns exist in its table. A table without columns
// is reported as an error.
func VerifyEntity(ctx context.Context, db Querier, entity *models.Entity) ([]Mismatch, error) {
	schema := entity.Schema
	if schema == "" {
		schema = "public"
	}

	columns, err := GetTableColumns(ctx, db, schema, entity.Table)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s not found for entity %s", schema, entity.Table, entity.Name)
	}

	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c.Name] = true
	}

	expected := map[string]string{"(primary key)": entity.PrimaryKeyColumn()}
	for attr := range entity.Attributes {
		expected[attr] = entity.Column(attr)
	}
	for _, a := range entity.Associations {
		if a.Kind == models.BelongsTo {
			expected["("+a.As+")"] = a.ForeignKey
		}
	}

	var missing []Mismatch
	for name, col := range expected {
		if !known[col] {
			missing = append(missing, Mismatch{Entity: entity.Name, Name: name, Column: col})
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		return missing[i].Name < missing[j].Name
	})

	return missing, nil
}
