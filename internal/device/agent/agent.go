// Package agent assembles the field device runtime: durable storage, the
// cache router, the API client, the connectivity monitor and the syncer.
// In agent mode it also serves the control socket.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/pantau-subsidi/internal/device/api"
	"github.com/heartmarshall/pantau-subsidi/internal/device/cacherouter"
	"github.com/heartmarshall/pantau-subsidi/internal/device/config"
	"github.com/heartmarshall/pantau-subsidi/internal/device/connectivity"
	"github.com/heartmarshall/pantau-subsidi/internal/device/control"
	"github.com/heartmarshall/pantau-subsidi/internal/device/session"
	"github.com/heartmarshall/pantau-subsidi/internal/device/storage"
	"github.com/heartmarshall/pantau-subsidi/internal/device/syncer"
	"github.com/heartmarshall/pantau-subsidi/internal/device/syncqueue"
)

// Agent is an opened device runtime.
type Agent struct {
	cfg    config.Config
	log    *slog.Logger
	logger *slog.Logger

	DB       *storage.DB
	Queue    *syncqueue.Queue
	Sessions *session.Store
	Router   *cacherouter.Router
	Client   *api.Client
	Monitor  *connectivity.Monitor
	Syncer   *syncer.Syncer

	// Purged lists the cache partitions removed when the runtime opened.
	Purged []string
}

// Open builds the runtime. network is the transport beneath the cache
// router; nil means http.DefaultTransport.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger, network http.RoundTripper) (*Agent, error) {
	if network == nil {
		network = http.DefaultTransport
	}

	db, err := storage.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}

	router := cacherouter.New(network, db, cacherouter.Options{
		Version:   cfg.ClientVersion,
		APIPrefix: cfg.APIPrefix,
		ShellPath: cfg.ShellPath,
		Logger:    logger,
	})
	purged, err := router.Activate(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	queue := syncqueue.New(db, syncqueue.WithLogger(logger))
	sessions := session.Open(db, logger)

	client, err := api.New(ctx, api.Options{
		HTTPClient: &http.Client{Transport: router, Timeout: cfg.RequestTimeout},
		BaseURL:    cfg.APIURL(),
		Queue:      queue,
		Sessions:   sessions,
		DB:         db,
		Cache:      router,
		Logger:     logger,
	})
	if err != nil {
		_ = sessions.Close()
		_ = db.Close()
		return nil, err
	}

	prober := connectivity.NewProber(&http.Client{Transport: network}, cfg.APIURL(), cfg.RequestTimeout)

	return &Agent{
		cfg:      cfg,
		log:      logger.With("component", "agent"),
		logger:   logger,
		DB:       db,
		Queue:    queue,
		Sessions: sessions,
		Router:   router,
		Client:   client,
		Monitor:  connectivity.NewMonitor(prober, cfg.ProbeInterval, logger),
		Syncer:   syncer.New(queue, client, cfg.SyncConcurrency, logger),
		Purged:   purged,
	}, nil
}

// Close flushes the session writer, waits for cache refreshes and closes
// the database.
func (a *Agent) Close() error {
	sessErr := a.Sessions.Close()
	a.Router.Wait()
	dbErr := a.DB.Close()
	return errors.Join(sessErr, dbErr)
}

// Run is agent mode: it watches connectivity, keeps the background sync
// registration and answers messages and control requests until ctx is done.
func (a *Agent) Run(ctx context.Context) error {
	if err := a.Syncer.Register(syncer.TagSyncLaporan, a.cfg.SyncSchedule); err != nil {
		return fmt.Errorf("agent.Run: %w", err)
	}
	events := a.Monitor.Subscribe()

	a.log.InfoContext(ctx, "agent started",
		slog.String("api", a.cfg.APIURL()),
		slog.String("schedule", a.cfg.SyncSchedule),
		slog.String("socket", a.cfg.SocketPath()),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Monitor.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return a.Syncer.Run(ctx, events)
	})
	g.Go(func() error {
		srv := control.NewServer(a.Client, a.Syncer, a.Queue, a.logger)
		return srv.Serve(ctx, a.cfg.SocketPath())
	})
	return g.Wait()
}
