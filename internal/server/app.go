// Package server initializes and runs the CodeQuest backend: it loads config,
// opens the database, runs migrations, wires services, and starts the HTTP
// server with graceful shutdown on OS signals.
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
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"

	"github.com/codequest-dev/codequest/internal/logging"
	"github.com/codequest-dev/codequest/internal/server/agents"
	"github.com/codequest-dev/codequest/internal/server/config"
	"github.com/codequest-dev/codequest/internal/server/httpapi"
	"github.com/codequest-dev/codequest/internal/server/problemcache"
	"github.com/codequest-dev/codequest/internal/server/repositories/repomanager"
	"github.com/codequest-dev/codequest/internal/server/services"
)

// sweepInterval is how often the problem cache drops expired entries.
const sweepInterval = 5 * time.Minute

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	cache  *problemcache.Cache
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	// the database container may still be starting; ping with backoff
	backoff := retry.WithMaxRetries(5, retry.NewExponential(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			logger.Warn(ctx, "db not ready, retrying", "error", err.Error())
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	agentClient := agents.NewHTTPClient(cfg.AgentBaseURL)
	cache := problemcache.New(cfg.ProblemCacheTTL)

	us := services.NewUserService(db, rm, cfg, logger)
	qs := services.NewQuestService(agentClient, agentClient, cache, logger)
	ps := services.NewProfileService(db, rm, agentClient, cfg, logger)

	srv := httpapi.NewServer(cfg.EndpointAddr, db, us, qs, ps, logger)

	return &App{config: cfg, logger: logger, db: db, cache: cache, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	app.cache.StartSweeper(ctx, sweepInterval)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
