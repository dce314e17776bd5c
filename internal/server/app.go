// Package server wires the habitkeeper API: it opens PostgreSQL, applies
// migrations, builds the services and runs the HTTP server together with a
// refresh-token janitor until the context is cancelled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/habitkeeper/internal/logging"
	"github.com/dmitrijs2005/habitkeeper/internal/server/config"
	"github.com/dmitrijs2005/habitkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/habitkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/habitkeeper/internal/server/services"
)

const janitorInterval = time.Hour

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	userService  *services.UserService
	habitService *services.HabitService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	logger := logging.NewJSONLogger(os.Stdout, level)

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		userService:  services.NewUserService(db, rm, c),
		habitService: services.NewHabitService(db, rm),
	}, nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.Addr, app.logger, app.userService, app.habitService, app.config.AllowedOrigins)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// startJanitor purges expired refresh tokens once per interval.
func (app *App) startJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.userService.PurgeExpiredTokens(ctx)
			if err != nil {
				app.logger.Warn(ctx, "refresh token purge failed", "error", err)
				continue
			}
			app.logger.Debug(ctx, "refresh tokens purged", "count", n)
		}
	}
}

// Run blocks until ctx is cancelled or the HTTP server fails, then closes
// the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startJanitor(ctx, janitorInterval)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
