package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/okian/matchup/internal/adapters/http/api"
	app "github.com/okian/matchup/internal/app"
	"github.com/okian/matchup/internal/config"
	"github.com/okian/matchup/pkg/logger"
	"github.com/okian/matchup/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "matchup service exited", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logger.Get()

	// A .env file is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn(ctx, "ignoring unreadable .env", logger.Error(err))
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	srv, cleanup, err := newServer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Warn(ctx, "close store", logger.Error(err))
		}
	}()

	go metrics.CollectRuntime(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("store_driver", cfg.StoreDriver),
			logger.Bool("seeded", cfg.Seed != 0),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newServer wires the store, service and router described by cfg.
func newServer(ctx context.Context, cfg *config.Config) (*http.Server, func() error, error) {
	log := logger.Get()

	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if n, err := store.Count(ctx); err == nil {
		metrics.UpdateStoreRecords(n)
		log.Info(ctx, "lookup store ready", logger.String("driver", cfg.StoreDriver), logger.Int("records", n))
	}

	svc, err := app.NewFromConfig(cfg, store, log.Named("service"))
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	apiServer := api.NewServer(svc,
		api.WithCORSOrigins(cfg.CORSOrigins),
		api.WithRequestTimeout(app.RequestTimeout(cfg)),
		api.WithLogger(log.Named("api")),
	)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Router(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}, closeStore, nil
}
