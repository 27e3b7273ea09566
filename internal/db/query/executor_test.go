package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rebeliceyang/lazycms/internal/filter"
	"github.com/rebeliceyang/lazycms/internal/models"
)

type call struct {
	sql  string
	args []interface{}
}

type fakeQuerier struct {
	calls []call
	count interface{}
	rows  []map[string]interface{}
	err   error
}

func (f *fakeQuerier) QueryWithColumns(_ context.Context, sql string, args ...interface{}) (*models.QueryResult, error) {
	f.calls = append(f.calls, call{sql: sql, args: args})
	if f.err != nil {
		return nil, f.err
	}
	if strings.HasPrefix(sql, "SELECT count(*)") {
		return &models.QueryResult{
			Columns: []string{"count"},
			Rows:    []map[string]interface{}{{"count": f.count}},
		}, nil
	}
	return &models.QueryResult{Columns: []string{"id", "header"}, Rows: f.rows}, nil
}

func article() *models.Entity {
	for _, e := range models.DefaultEntities() {
		if e.Name == "Article" {
			return &e
		}
	}
	return nil
}

func TestFindAndCountAll(t *testing.T) {
	db := &fakeQuerier{
		count: int64(12),
		rows: []map[string]interface{}{
			{"id": int64(6), "header": "six"},
			{"id": int64(7), "header": "seven"},
		},
	}
	exec := NewExecutor(db, filter.NewBuilder(), zaptest.NewLogger(t))

	spec := models.QuerySpec{
		Offset: 5,
		Limit:  5,
		Where: models.Clause{
			models.FieldTerm("views", models.Clause{
				models.OperatorTerm(models.SymGt, "$gt", models.Literal{Value: int64(3)}),
			}),
		},
	}

	res, err := exec.FindAndCountAll(context.Background(), article(), spec)
	require.NoError(t, err)

	require.Len(t, db.calls, 2)
	require.Equal(t, `SELECT count(*) AS count FROM "articles" AS "Article" WHERE "Article"."views" > $1`, db.calls[0].sql)
	require.Equal(t, []interface{}{int64(3)}, db.calls[0].args)
	require.Equal(t, res.Statement.SQL, db.calls[1].sql)

	require.Equal(t, int64(12), res.Page.Count)
	require.Equal(t, 5, res.Page.PerPage)
	require.Equal(t, 2, res.Page.Page)
	require.True(t, res.Page.HasMore)
	require.Equal(t, []string{"id", "header"}, res.Page.Columns)
	require.Len(t, res.Page.Items, 2)
}

func TestFindAndCountAll_Errors(t *testing.T) {
	t.Run("database error", func(t *testing.T) {
		boom := errors.New("boom")
		exec := NewExecutor(&fakeQuerier{err: boom}, nil, nil)
		_, err := exec.FindAndCountAll(context.Background(), article(), models.QuerySpec{Limit: 10})
		require.ErrorIs(t, err, boom)
	})

	t.Run("build error skips the database", func(t *testing.T) {
		db := &fakeQuerier{}
		exec := NewExecutor(db, nil, nil)
		spec := models.QuerySpec{Limit: 1, Where: models.Clause{
			models.OperatorTerm(models.NoSymbol, "$lik", models.Literal{Value: "x"}),
		}}
		_, err := exec.FindAndCountAll(context.Background(), article(), spec)
		require.Error(t, err)
		require.Empty(t, db.calls)
	})

	t.Run("unexpected count type", func(t *testing.T) {
		exec := NewExecutor(&fakeQuerier{count: "12"}, nil, nil)
		_, err := exec.FindAndCountAll(context.Background(), article(), models.QuerySpec{Limit: 10})
		require.Error(t, err)
	})
}

func TestNewPage(t *testing.T) {
	rows := func(n int) *models.QueryResult {
		r := &models.QueryResult{}
		for i := 0; i < n; i++ {
			r.Rows = append(r.Rows, map[string]interface{}{"id": i})
		}
		return r
	}

	tests := []struct {
		name    string
		rows    *models.QueryResult
		count   int64
		spec    models.QuerySpec
		page    int
		hasMore bool
	}{
		{"first page", rows(25), 60, models.QuerySpec{Offset: 0, Limit: 25}, 1, true},
		{"last page", rows(10), 60, models.QuerySpec{Offset: 50, Limit: 25}, 3, false},
		{"unaligned offset", rows(3), 10, models.QuerySpec{Offset: 7, Limit: 5}, 2, false},
		{"zero limit", rows(0), 4, models.QuerySpec{Offset: 2, Limit: 0}, 1, true},
		{"no rows", nil, 0, models.QuerySpec{Limit: 1000}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(tt.rows, tt.count, tt.spec)
			require.Equal(t, tt.page, p.Page)
			require.Equal(t, tt.hasMore, p.HasMore)
			require.Equal(t, tt.spec.Limit, p.PerPage)
			require.NotNil(t, p.Items)
		})
	}
}
