package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rebeliceyang/lazycms/internal/config"
	"github.com/rebeliceyang/lazycms/internal/db/connection"
	"github.com/rebeliceyang/lazycms/internal/db/discovery"
	"github.com/rebeliceyang/lazycms/internal/db/metadata"
	"github.com/rebeliceyang/lazycms/internal/db/query"
	"github.com/rebeliceyang/lazycms/internal/favorites"
	"github.com/rebeliceyang/lazycms/internal/filter"
	"github.com/rebeliceyang/lazycms/internal/history"
	"github.com/rebeliceyang/lazycms/internal/models"
	"github.com/rebeliceyang/lazycms/internal/ui"
	"github.com/rebeliceyang/lazycms/internal/ui/theme"
)

// App wires the compiler, the database and the local stores together
type App struct {
	config   *config.Config
	logger   *zap.Logger
	theme    theme.Theme
	entities *filter.EntityRegistry
	compiler *filter.Compiler
	builder  *filter.Builder

	pool     *connection.Pool
	db       query.Querier
	executor *query.Executor

	history *history.Store
	saved   *favorites.Manager
}

// Compiled is a request compiled for one root entity
type Compiled struct {
	Entity   *models.Entity
	Envelope models.RequestEnvelope
	Spec     models.QuerySpec
	Select   filter.Statement
	Count    filter.Statement
}

// New builds the application from configuration. Local stores are opened
// lazily; no database connection is made until Connect.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	defs := cfg.Entities
	if len(defs) == 0 {
		defs = models.DefaultEntities()
	}
	entities, err := filter.NewEntityRegistry(defs)
	if err != nil {
		return nil, fmt.Errorf("invalid entity configuration: %w", err)
	}

	compiler := filter.NewCompiler(filter.DefaultOperators(), entities,
		filter.WithStrict(cfg.Query.Strict),
		filter.WithDefaults(cfg.Query.DefaultPerPage, cfg.Query.DefaultLimit),
	)

	return &App{
		config:   cfg,
		logger:   logger,
		theme:    theme.GetTheme(cfg.UI.Theme),
		entities: entities,
		compiler: compiler,
		builder:  filter.NewBuilder(),
	}, nil
}

// Connect opens the database pool. Unset connection fields come from the
// PG* environment and the password file.
func (a *App) Connect(ctx context.Context) error {
	if a.db != nil {
		return nil
	}

	cfg := discovery.ApplyEnvironment(a.config.Database)
	if cfg.Password == "" {
		if path, err := discovery.PgPassPath(); err == nil {
			entries, err := discovery.ParsePgPass(path)
			if err != nil {
				a.logger.Warn("ignoring password file", zap.String("path", path), zap.Error(err))
			}
			cfg.Password = discovery.FindPassword(entries, cfg.Host, cfg.Port, cfg.Database, cfg.User)
		}
	}

	pool, err := connection.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	a.logger.Info("connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User),
	)

	a.pool = pool
	a.UseQuerier(pool)
	return nil
}

// Ping checks the pooled connection and reports its target and round trip
func (a *App) Ping(ctx context.Context) (models.ConnectionConfig, time.Duration, error) {
	if a.pool == nil {
		return models.ConnectionConfig{}, 0, errors.New("no connection pool open")
	}
	start := time.Now()
	if err := a.pool.Ping(ctx); err != nil {
		return a.pool.Config(), 0, fmt.Errorf("ping failed: %w", err)
	}
	return a.pool.Config(), time.Since(start), nil
}

// UseQuerier runs queries through q instead of a pool
func (a *App) UseQuerier(q query.Querier) {
	a.db = q
	a.executor = query.NewExecutor(q, a.builder, a.logger)
}

// Theme returns the configured output theme
func (a *App) Theme() theme.Theme {
	return a.theme
}

// Entities returns the entity registry
func (a *App) Entities() *filter.EntityRegistry {
	return a.entities
}

// Compile decodes, validates and compiles raw for entity. The where clause is
// wrapped for row-level scoping and, when an owner field is configured and a
// principal is given, restricted to the principal's rows.
func (a *App) Compile(entity string, raw []byte, principal *models.Principal) (*Compiled, error) {
	root, ok := a.entities.Lookup(entity)
	if !ok {
		return nil, &filter.UnknownEntityError{Token: entity, Path: "entity"}
	}

	req, err := filter.ParseEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if err := filter.ValidateEnvelope(req); err != nil {
		return nil, err
	}

	spec, err := a.compiler.RequestOptions(req)
	if err != nil {
		return nil, err
	}
	spec = filter.SetUserFilterToWhereSearch(spec)
	if principal != nil && a.config.Query.OwnerField != "" {
		spec, err = filter.AppendScope(spec, filter.OwnerScope(a.config.Query.OwnerField, *principal))
		if err != nil {
			return nil, err
		}
	}

	sel, err := a.builder.BuildSelect(root, spec)
	if err != nil {
		return nil, err
	}
	count, err := a.builder.BuildCount(root, spec)
	if err != nil {
		return nil, err
	}

	return &Compiled{Entity: root, Envelope: req, Spec: spec, Select: sel, Count: count}, nil
}

// Explain renders the compiled plan for raw
func (a *App) Explain(entity string, raw []byte, principal *models.Principal) (string, error) {
	c, err := a.Compile(entity, raw, principal)
	if err != nil {
		return "", err
	}
	return ui.RenderPlan(a.theme, ui.Plan{
		Entity: c.Entity.Name,
		Spec:   c.Spec,
		Select: c.Select,
		Count:  c.Count,
	}), nil
}

// Run compiles raw and fetches the requested page. Every attempt that reaches
// the database is recorded in the history.
func (a *App) Run(ctx context.Context, entity string, raw []byte, principal *models.Principal) (*query.Result, error) {
	if a.executor == nil {
		return nil, errors.New("not connected to a database")
	}

	c, err := a.Compile(entity, raw, principal)
	if err != nil {
		return nil, err
	}

	if a.config.Query.TimeoutMS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(a.config.Query.TimeoutMS)*time.Millisecond)
		defer cancel()
	}

	start := time.Now()
	res, err := a.executor.FindAndCountAll(ctx, c.Entity, c.Spec)

	entry := history.Entry{
		Entity:   c.Entity.Name,
		Request:  string(raw),
		SQL:      c.Select.SQL,
		Duration: time.Since(start),
		Success:  err == nil,
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	} else {
		entry.RowCount = len(res.Page.Items)
		entry.TotalCount = res.Page.Count
	}
	a.record(entry)

	return res, err
}

// RunSaved runs a saved request by ID or name and records its usage
func (a *App) RunSaved(ctx context.Context, ref string, principal *models.Principal) (*query.Result, error) {
	saved, err := a.Saved()
	if err != nil {
		return nil, err
	}
	req, err := saved.Get(ref)
	if err != nil {
		return nil, err
	}

	res, err := a.Run(ctx, req.Entity, []byte(req.Request), principal)
	if err != nil {
		return nil, err
	}
	if err := saved.RecordUsage(req.ID); err != nil {
		a.logger.Warn("failed to record saved request usage", zap.String("id", req.ID), zap.Error(err))
	}
	return res, nil
}

// VerifyEntities checks every registered entity against the live schema
func (a *App) VerifyEntities(ctx context.Context) ([]metadata.Mismatch, error) {
	if a.db == nil {
		return nil, errors.New("not connected to a database")
	}

	var all []metadata.Mismatch
	for _, name := range a.entities.Names() {
		e, _ := a.entities.Lookup(name)
		missing, err := metadata.VerifyEntity(ctx, a.db, e)
		if err != nil {
			return nil, err
		}
		all = append(all, missing...)
	}
	return all, nil
}

// History opens the request history store
func (a *App) History() (*history.Store, error) {
	if a.history != nil {
		return a.history, nil
	}
	path, err := config.DataPath(a.config.History.Path, "history.db")
	if err != nil {
		return nil, err
	}
	store, err := history.NewStore(path, a.config.History.MaxEntries)
	if err != nil {
		return nil, err
	}
	a.history = store
	return store, nil
}

// Saved opens the saved request manager
func (a *App) Saved() (*favorites.Manager, error) {
	if a.saved != nil {
		return a.saved, nil
	}
	path, err := config.DataPath(a.config.Favorites.Path, "saved.yaml")
	if err != nil {
		return nil, err
	}
	m, err := favorites.NewManager(path)
	if err != nil {
		return nil, err
	}
	a.saved = m
	return m, nil
}

func (a *App) record(entry history.Entry) {
	if !a.config.History.Enabled {
		return
	}
	store, err := a.History()
	if err == nil {
		err = store.Add(entry)
	}
	if err != nil {
		a.logger.Warn("failed to record history", zap.Error(err))
	}
}

// Close releases the pool and the history database
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Warn("failed to close history", zap.Error(err))
		}
	}
}
