package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/heartmarshall/pantau-subsidi/internal/adapter/postgres"
	"github.com/heartmarshall/pantau-subsidi/internal/config"
	"github.com/heartmarshall/pantau-subsidi/internal/metrics"
)

// Run is the application entry point. It loads configuration, initializes
// the logger, wires the dual-path storage and serves HTTP until ctx ends.
// An unreachable database does not prevent startup.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.RunMigrations {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
			logger.Warn("migrations skipped, primary store unavailable",
				slog.String("error", err.Error()))
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer pool.Close()

	dataset, err := NewDataset(*cfg)
	if err != nil {
		return err
	}

	api := NewAPI(*cfg, logger, Backend{
		DB:       pool,
		Dataset:  dataset,
		Recorder: metrics.New(),
	})
	defer api.Close()

	return Serve(ctx, cfg.Server, api.Handler, logger)
}

// Serve runs an HTTP server until ctx ends, then shuts it down within the
// configured timeout so in-flight requests drain.
func Serve(ctx context.Context, cfg config.ServerConfig, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
