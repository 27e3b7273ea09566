package query

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rebeliceyang/lazycms/internal/filter"
	"github.com/rebeliceyang/lazycms/internal/models"
)

// Querier runs a statement and returns its rows
type Querier interface {
	QueryWithColumns(ctx context.Context, sql string, args ...interface{}) (*models.QueryResult, error)
}

// Executor runs compiled list queries against the database
type Executor struct {
	db      Querier
	builder *filter.Builder
	logger  *zap.Logger
}

// NewExecutor creates an executor. A nil logger disables logging.
func NewExecutor(db Querier, builder *filter.Builder, logger *zap.Logger) *Executor {
	if builder == nil {
		builder = filter.NewBuilder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{db: db, builder: builder, logger: logger}
}

// Result is a page plus the statement that produced its items
type Result struct {
	Page      models.Page
	Statement filter.Statement
	Duration  time.Duration
}

// FindAndCountAll counts the rows matching spec and fetches the requested window
func (e *Executor) FindAndCountAll(ctx context.Context, entity *models.Entity, spec models.QuerySpec) (*Result, error) {
	start := time.Now()

	countStmt, err := e.builder.BuildCount(entity, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to build count: %w", err)
	}
	selectStmt, err := e.builder.BuildSelect(entity, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	counted, err := e.db.QueryWithColumns(ctx, countStmt.SQL, countStmt.Args...)
	if err != nil {
		e.logger.Error("count failed", zap.String("entity", entity.Name), zap.String("sql", countStmt.SQL), zap.Error(err))
		return nil, fmt.Errorf("failed to count %s: %w", entity.Name, err)
	}
	count, err := countValue(counted)
	if err != nil {
		return nil, err
	}

	rows, err := e.db.QueryWithColumns(ctx, selectStmt.SQL, selectStmt.Args...)
	if err != nil {
		e.logger.Error("select failed", zap.String("entity", entity.Name), zap.String("sql", selectStmt.SQL), zap.Error(err))
		return nil, fmt.Errorf("failed to select %s: %w", entity.Name, err)
	}

	page := NewPage(rows, count, spec)
	elapsed := time.Since(start)

	e.logger.Debug("list query",
		zap.String("entity", entity.Name),
		zap.String("sql", selectStmt.SQL),
		zap.Int("args", len(selectStmt.Args)),
		zap.Int64("count", count),
		zap.Int("rows", len(page.Items)),
		zap.Duration("duration", elapsed),
	)

	return &Result{Page: page, Statement: selectStmt, Duration: elapsed}, nil
}

// NewPage shapes fetched rows into a page response. Page is derived from the
// window; it is 1 when the limit is 0.
func NewPage(rows *models.QueryResult, count int64, spec models.QuerySpec) models.Page {
	page := models.Page{
		Items:   []map[string]interface{}{},
		Count:   count,
		PerPage: spec.Limit,
		Page:    1,
	}
	if rows != nil {
		page.Columns = rows.Columns
		if rows.Rows != nil {
			page.Items = rows.Rows
		}
	}
	if spec.Limit > 0 && spec.Offset > 0 {
		page.Page = spec.Offset/spec.Limit + 1
	}
	page.HasMore = int64(spec.Offset+len(page.Items)) < count
	return page
}

func countValue(res *models.QueryResult) (int64, error) {
	if res == nil || len(res.Rows) == 0 {
		return 0, fmt.Errorf("count query returned no rows")
	}
	switch v := res.Rows[0]["count"].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("unexpected count value %T", v)
	}
}
