// Package server initializes and runs the TaskPulse API server.
// It selects the store backend, runs migrations, handles graceful shutdown
// and starts the HTTP server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskpulse/internal/logging"
	"github.com/dmitrijs2005/taskpulse/internal/server/config"
	"github.com/dmitrijs2005/taskpulse/internal/server/httpapi"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/redisstore"
	"github.com/dmitrijs2005/taskpulse/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskpulse/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	repomanager    repomanager.RepositoryManager
	sessionService *services.SessionService
	taskService    *services.TaskService
	closers        []io.Closer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewJSONLogger(logOut, c.LogLevel)
	app := &App{config: c, logger: logger}

	rm, err := app.initRepositoryManager(ctx)
	if err != nil {
		app.close()
		return nil, err
	}
	app.repomanager = rm

	ss, err := services.NewSessionService(rm, c, logger.With("module", "sessions"))
	if err != nil {
		app.close()
		return nil, fmt.Errorf("session service init error: %w", err)
	}
	app.sessionService = ss
	app.taskService = services.NewTaskService(rm, logger.With("module", "tasks"))

	return app, nil
}

// initRepositoryManager opens the configured store and, when a Redis URL is
// set, moves refresh records to Redis.
func (app *App) initRepositoryManager(ctx context.Context) (repomanager.RepositoryManager, error) {
	var rm repomanager.RepositoryManager

	switch app.config.StoreBackend {
	case config.BackendMemory:
		app.logger.Warn(ctx, "using in-memory store; data is lost on restart")
		rm = repomanager.NewInMemoryRepositoryManager()

	default:
		db, err := sql.Open("pgx", app.config.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		app.closers = append(app.closers, db)

		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("db ping error: %w", err)
		}

		pm := repomanager.NewPostgresRepositoryManager(db)
		if err := pm.RunMigrations(ctx); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}
		rm = pm
	}

	if app.config.RedisURL != "" {
		client, err := redisstore.Connect(ctx, app.config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.closers = append(app.closers, client)
		rm = repomanager.NewRedisRefreshManager(rm, client)
		app.logger.Info(ctx, "refresh records stored in redis")
	}

	return rm, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.sessionService, app.taskService, app.config.RequestTimeout, app.config.Env)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "backend", app.config.StoreBackend, "env", app.config.Env)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn(context.Background(), "close error", "error", err)
		}
	}
	app.closers = nil
}
