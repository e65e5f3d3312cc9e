package container

import (
	"context"
	"fmt"

	"luxcheck/adapters/postgres"
	"luxcheck/app"
	"luxcheck/internal"
	"luxcheck/internal/alias"
	"luxcheck/internal/api"
	"luxcheck/internal/batch"
	"luxcheck/internal/catalog"
	"luxcheck/internal/compliance"
	"luxcheck/internal/config"
	"luxcheck/internal/errors"
	"luxcheck/internal/evaluator"
	"luxcheck/internal/resolver"
	"luxcheck/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Compliance core
	Normalizer *alias.Normalizer
	Catalog    catalog.LoadOutcome
	Resolver   *resolver.Resolver
	Evaluator  *evaluator.Evaluator
	Checker    *compliance.Checker

	// Repositories (data access layer)
	RunRepo ports.ComplianceRunRepository

	Service *app.ComplianceService
}

// New creates a new dependency injection container. The standards catalog is loaded
// here; a broken catalog is logged and leaves the container with an empty one.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	level, _ := internal.ParseLogLevel(cfg.LogLevel)
	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(level),
	}

	if err := c.initCore(); err != nil {
		return nil, err
	}
	c.initService()
	return c, nil
}

// initCore builds the alias table, catalog, resolver, evaluator and checker
func (c *Container) initCore() error {
	table := alias.DefaultTable()
	if path := c.Config.Standards.AliasesPath; path != "" {
		loaded, err := alias.LoadTable(path)
		if err != nil {
			return errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "failed to load alias table")
		}
		table = loaded
		c.Logger.Info("alias table loaded from %s", path)
	}
	c.Normalizer = alias.New(table)

	loader := catalog.NewLoader(c.Normalizer, catalog.WithLogger(c.Logger.WithPrefix("catalog")))
	c.Catalog = loader.LoadFile(c.Config.Standards.Path)
	if !c.Catalog.OK() {
		c.Logger.Warn("standards catalog %s not usable (%s); every room will report NO_STANDARD_FOUND",
			c.Catalog.Source, c.Catalog.Status)
	}

	c.Resolver = resolver.New(c.Catalog.Catalog)
	c.Evaluator = evaluator.New(table)
	c.Checker = compliance.NewChecker(c.Resolver, c.Evaluator,
		compliance.WithLogger(c.Logger.WithPrefix("compliance")))
	return nil
}

func (c *Container) initService() {
	opts := []app.ServiceOption{
		app.WithCatalogSource(c.Catalog.Source, c.Catalog.Catalog.Fingerprint),
		app.WithServiceLogger(c.Logger.WithPrefix("service")),
	}
	if c.RunRepo != nil {
		opts = append(opts, app.WithRunRepository(c.RunRepo))
	}
	c.Service = app.NewComplianceService(c.Checker, opts...)
}

// Connect opens the configured database and enables run history. Without DATABASE_URL
// it does nothing.
func (c *Container) Connect(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		c.Logger.Info("DATABASE_URL not set, run history disabled")
		return nil
	}

	db, err := sqlx.Open("postgres", c.Config.Database.URL)
	if err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeDatabaseError, err), "failed to open database")
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)

	if err := c.InitWithDatabase(ctx, db); err != nil {
		db.Close()
		return err
	}
	return nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeDatabaseError, err), "database connection test failed")
	}

	c.DB = db
	c.RunRepo = postgres.NewComplianceRunRepository(db)
	c.initService()

	c.Logger.Info("container initialized with database connection, run history enabled")
	return nil
}

// APIServer builds the HTTP server over the container's components
func (c *Container) APIServer() *api.Server {
	return api.NewServer(api.Deps{
		Service:    c.Service,
		Resolver:   c.Resolver,
		Normalizer: c.Normalizer,
		Catalog:    c.Catalog,
	},
		api.WithMaxBodyBytes(c.Config.Server.MaxReportBytes),
		api.WithRequestTimeout(c.Config.Server.RequestTimeout),
		api.WithLogger(c.Logger.WithPrefix("api")),
	)
}

// BatchProcessor builds a folder processor. workers <= 0 uses BATCH_WORKERS.
func (c *Container) BatchProcessor(outDir string, workers int) *batch.Processor {
	if workers <= 0 {
		workers = c.Config.Batch.Workers
	}
	return batch.NewProcessor(c.Service,
		batch.WithWorkers(workers),
		batch.WithOutputDir(outDir),
		batch.WithLogger(c.Logger.WithPrefix("batch")),
	)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
