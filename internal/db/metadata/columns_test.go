package metadata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazycms/internal/models"
)

type columnsQuerier struct {
	columns []string
	schema  string
	table   string
}

func (q *columnsQuerier) QueryWithColumns(_ context.Context, _ string, args ...interface{}) (*models.QueryResult, error) {
	q.schema, q.table = args[0].(string), args[1].(string)
	res := &models.QueryResult{Columns: []string{"column_name", "data_type", "udt_name", "is_array"}}
	for _, c := range q.columns {
		res.Rows = append(res.Rows, map[string]interface{}{
			"column_name": c,
			"data_type":   "text",
			"udt_name":    "text",
			"is_array":    false,
		})
	}
	return res, nil
}

func category() *models.Entity {
	return &models.Entity{
		Name:  "Category",
		Table: "category",
		Attributes: map[string]string{
			"name":      "name",
			"createdAt": "created_at",
		},
	}
}

func TestVerifyEntity(t *testing.T) {
	q := &columnsQuerier{columns: []string{"id", "name", "created_at"}}
	missing, err := VerifyEntity(context.Background(), q, category())
	require.NoError(t, err)
	require.Empty(t, missing)
	require.Equal(t, "public", q.schema)
	require.Equal(t, "category", q.table)
}

func TestVerifyEntity_Missing(t *testing.T) {
	e := category()
	e.Associations = []models.Association{
		{As: "parent", Target: "Category", Kind: models.BelongsTo, ForeignKey: "fk_parent_id"},
	}

	q := &columnsQuerier{columns: []string{"id", "name"}}
	missing, err := VerifyEntity(context.Background(), q, e)
	require.NoError(t, err)
	require.Equal(t, []Mismatch{
		{Entity: "Category", Name: "(parent)", Column: "fk_parent_id"},
		{Entity: "Category", Name: "createdAt", Column: "created_at"},
	}, missing)
	require.Equal(t, `Category.createdAt: column "created_at" does not exist`, missing[1].String())
}

func TestVerifyEntity_NoTable(t *testing.T) {
	_, err := VerifyEntity(context.Background(), &columnsQuerier{}, category())
	require.Error(t, err)
}
