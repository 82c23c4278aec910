// Package server initializes and runs the punch server: configuration,
// database, migrations, services, the HTTP endpoint, and graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"

	"github.com/pontodigital/pontod/internal/logging"
	"github.com/pontodigital/pontod/internal/server/config"
	"github.com/pontodigital/pontod/internal/server/httpapi"
	"github.com/pontodigital/pontod/internal/server/repositories/repomanager"
	"github.com/pontodigital/pontod/internal/server/services"
	"github.com/pontodigital/pontod/internal/syncx"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	// The database container may still be starting; ping with backoff
	// before giving up.
	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(db.PingContext(ctx))
	}); err != nil {
		return nil, fmt.Errorf("db unreachable: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	locks := syncx.NewKeyedMutex()

	reconciler := services.NewReconcileService(db, repos, cfg.ReconcileWindowDays, logger)
	registrar := services.NewRegisterService(db, repos, locks, logger)
	corrector := services.NewCorrectionService(db, repos, locks, logger)
	syncer := services.NewSyncService(db, repos, cfg.SyncWindowDays, logger)
	login := services.NewLoginService(db, repos, cfg, logger)
	attachments := services.NewAttachmentService(cfg)

	api := httpapi.NewServer(cfg, logger, reconciler, registrar, corrector, syncer, login, attachments, db.PingContext)

	return &App{config: cfg, logger: logger, db: db, api: api}, nil
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

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.HTTPAddr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.HTTPAddr,
		Handler: app.api.Handler(),
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "http server", "err", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown", "err", err)
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "closing db", "err", err)
	}

	app.logger.Info(context.Background(), "Server stopped")
}
