// Package server initializes and runs the linkfeed API server. It selects
// the storage backend, runs migrations, wires services and handles graceful
// shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/linkfeed/internal/logging"
	"github.com/dmitrijs2005/linkfeed/internal/server/auth"
	"github.com/dmitrijs2005/linkfeed/internal/server/config"
	"github.com/dmitrijs2005/linkfeed/internal/server/httpserver"
	"github.com/dmitrijs2005/linkfeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkfeed/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	userService *services.UserService
	linkService *services.LinkService
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "No database DSN configured, using in-memory store")
		app.repomanager = repomanager.NewInMemoryRepositoryManager(nil)
	} else {
		db, err := openDB(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db ping error: %w", err)
		}
		app.db = db

		rm, err := repomanager.NewPostgresRepositoryManager(db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.repomanager = rm
	}

	if err := app.repomanager.RunMigrations(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app.tokens = auth.NewTokenService([]byte(c.SecretKey), c.TokenValidityDuration)
	app.userService = services.NewUserService(app.repomanager, auth.NewPasswordHasher(c.BcryptCost), app.tokens)
	app.linkService = services.NewLinkService(app.repomanager, c.EnforceLinkOwnership)

	return app, nil
}

// Close releases the database pool, if any.
func (app *App) Close() {
	if app.db != nil {
		_ = app.db.Close()
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) httpServer() *httpserver.HTTPServer {
	return httpserver.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.userService, app.linkService, auth.NewResolver(app.tokens), app.config.ShutdownTimeout)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer().Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"address", app.config.EndpointAddrHTTP,
		"persistent", app.db != nil,
		"enforce_link_ownership", app.config.EnforceLinkOwnership,
	)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.Close()

	app.logger.Info(context.Background(), "App stopped")
}
