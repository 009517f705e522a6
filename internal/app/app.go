// Package app wires storage, services and the seed fixture into a running board.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gepes/criagil/internal/domain/activity"
	"github.com/gepes/criagil/internal/domain/demand"
	"github.com/gepes/criagil/internal/domain/project"
	"github.com/gepes/criagil/internal/domain/user"
	"github.com/gepes/criagil/internal/fixture"
	"github.com/gepes/criagil/internal/logging"
	"github.com/gepes/criagil/internal/mcp"
	"github.com/gepes/criagil/internal/sqlite"
)

// Options configures Open.
type Options struct {
	DBPath   string
	Seed     bool
	SeedPath string
	Logger   *slog.Logger

	// Board and Registry override the in-memory stores, mainly to pin IDs and clocks in tests.
	Board    *demand.Board
	Registry *project.Registry
}

// App holds the services backing every surface.
type App struct {
	DB       *sqlite.DB
	Users    *user.Service
	Projects *project.Service
	Demands  *demand.Service
	Activity *activity.Service

	logger *slog.Logger
}

// Open opens the database, loads persisted state and seeds an empty board when asked to.
func Open(ctx context.Context, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	if err := ensureDBDir(opts.DBPath); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.Open(opts.DBPath)
	if err != nil {
		return nil, err
	}

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	userSvc := user.NewService(sqlite.NewUserRepository(db), logger)
	projectSvc := project.NewService(opts.Registry, sqlite.NewProjectRepository(db), activitySvc, logger)
	demandSvc := demand.NewService(opts.Board, sqlite.NewDemandRepository(db), projectSvc, userSvc, activitySvc, logger)

	a := &App{
		DB:       db,
		Users:    userSvc,
		Projects: projectSvc,
		Demands:  demandSvc,
		Activity: activitySvc,
		logger:   logger,
	}

	if err := a.load(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if opts.Seed {
		if err := a.seedIfEmpty(ctx, opts.SeedPath); err != nil {
			db.Close()
			return nil, err
		}
	}
	return a, nil
}

// Services exposes the app to the MCP and JSON-RPC surfaces.
func (a *App) Services() mcp.Services {
	return mcp.Services{
		Projects: a.Projects,
		Users:    a.Users,
		Demands:  a.Demands,
		Activity: a.Activity,
	}
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// Users must load before demands so assignees resolve.
func (a *App) load(ctx context.Context) error {
	if err := a.Users.Load(ctx); err != nil {
		return err
	}
	if err := a.Projects.Load(ctx); err != nil {
		return err
	}
	return a.Demands.Load(ctx)
}

func (a *App) seedIfEmpty(ctx context.Context, path string) error {
	empty, err := a.isEmpty(ctx)
	if err != nil || !empty {
		return err
	}

	fx, err := fixture.Load(path)
	if err != nil {
		return fmt.Errorf("load seed fixture: %w", err)
	}
	if err := a.Users.Seed(ctx, fx.Users); err != nil {
		return err
	}
	if err := a.Projects.Seed(ctx, fx.Projects); err != nil {
		return err
	}
	if err := a.Demands.Seed(ctx, fx.Demands); err != nil {
		return err
	}
	a.logger.Info("board seeded", "users", len(fx.Users), "projects", len(fx.Projects), "demands", len(fx.Demands))
	return nil
}

func (a *App) isEmpty(ctx context.Context) (bool, error) {
	users, err := a.Users.List(ctx)
	if err != nil {
		return false, err
	}
	projects, err := a.Projects.List(ctx)
	if err != nil {
		return false, err
	}
	demands, err := a.Demands.List(ctx)
	if err != nil {
		return false, err
	}
	return len(users) == 0 && len(projects) == 0 && len(demands) == 0, nil
}

func ensureDBDir(path string) error {
	if path == sqlite.MemoryDSN || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
