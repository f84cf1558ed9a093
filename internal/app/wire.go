package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/pantau-subsidi/internal/adapter/postgres"
	pgaccount "github.com/heartmarshall/pantau-subsidi/internal/adapter/postgres/account"
	pgreport "github.com/heartmarshall/pantau-subsidi/internal/adapter/postgres/report"
	pgtask "github.com/heartmarshall/pantau-subsidi/internal/adapter/postgres/task"
	pgupload "github.com/heartmarshall/pantau-subsidi/internal/adapter/postgres/upload"
	pgverification "github.com/heartmarshall/pantau-subsidi/internal/adapter/postgres/verification"
	"github.com/heartmarshall/pantau-subsidi/internal/adapter/resilient"
	"github.com/heartmarshall/pantau-subsidi/internal/auth"
	"github.com/heartmarshall/pantau-subsidi/internal/config"
	"github.com/heartmarshall/pantau-subsidi/internal/fallback"
	"github.com/heartmarshall/pantau-subsidi/internal/metrics"
	"github.com/heartmarshall/pantau-subsidi/internal/service/account"
	"github.com/heartmarshall/pantau-subsidi/internal/service/report"
	"github.com/heartmarshall/pantau-subsidi/internal/service/task"
	"github.com/heartmarshall/pantau-subsidi/internal/service/upload"
	"github.com/heartmarshall/pantau-subsidi/internal/service/verification"
	"github.com/heartmarshall/pantau-subsidi/internal/transport/middleware"
	"github.com/heartmarshall/pantau-subsidi/internal/transport/rest"
)

// Database is the primary store handle. *pgxpool.Pool satisfies it.
type Database interface {
	postgres.Querier
	postgres.Beginner
	postgres.Pinger
}

// Backend is the storage the HTTP API runs on.
type Backend struct {
	// DB is the primary store. Nil disables it: every operation is served
	// by the fallback dataset.
	DB       Database
	Dataset  *fallback.Dataset
	Recorder *metrics.Recorder
}

// NewDataset builds the fallback dataset, seeded from the embedded baseline
// unless seeding is disabled.
func NewDataset(cfg config.Config) (*fallback.Dataset, error) {
	ds := fallback.NewDataset()
	if cfg.Fallback.SeedDisabled {
		return ds, nil
	}

	baseline, err := fallback.LoadBaseline(func(pw string) (string, error) {
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), cfg.Auth.BcryptCost)
		return string(hash), err
	})
	if err != nil {
		return nil, fmt.Errorf("load fallback baseline: %w", err)
	}
	if err := ds.Load(baseline); err != nil {
		return nil, fmt.Errorf("seed fallback dataset: %w", err)
	}
	return ds, nil
}

// API is the assembled HTTP surface.
type API struct {
	Handler http.Handler
	limiter *middleware.RateLimiter
}

// Close stops background work owned by the API.
func (a *API) Close() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
}

// NewAPI wires repositories, services and handlers on top of b.
func NewAPI(cfg config.Config, logger *slog.Logger, b Backend) *API {
	var (
		pinger   postgres.Pinger
		querier  postgres.Querier
		beginner postgres.Beginner
	)
	if b.DB != nil {
		pinger, querier, beginner = b.DB, b.DB, b.DB
	}

	prober := postgres.NewProber(pinger, cfg.Database.ProbeTimeout)
	exec := resilient.NewExecutor(prober, b.Recorder, logger)
	tx := postgres.NewTxManager(beginner)
	ds := b.Dataset

	reports := resilient.NewReportRepo(exec, pgreport.New(querier), ds.Reports)
	tasks := resilient.NewTaskRepo(exec, tx, pgtask.New(querier), ds.Tasks)
	verifications := resilient.NewVerificationRepo(exec, tx, pgverification.New(querier), reports, ds.Verifications)
	uploads := resilient.NewUploadRepo(exec, pgupload.New(querier), ds.Uploads)
	accounts := resilient.NewAccountRepo(exec, pgaccount.New(querier), ds.Accounts, ds.Directory)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	handlers := rest.Handlers{
		Health:        rest.NewHealthHandler(prober, BuildVersion()),
		Auth:          rest.NewAuthHandler(account.NewService(logger, accounts, jwtManager, cfg.Auth), logger),
		Reports:       rest.NewReportHandler(report.NewService(logger, reports), logger),
		Tasks:         rest.NewTaskHandler(task.NewService(logger, tasks), logger),
		Verifications: rest.NewVerificationHandler(verification.NewService(logger, verifications), logger),
		Uploads:       rest.NewUploadHandler(upload.NewService(logger, uploads), logger),
	}
	if b.Recorder != nil {
		handlers.Metrics = b.Recorder.Handler()
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	router := rest.NewRouter(handlers, limiter.Limit("auth", cfg.RateLimit.AuthPerMinute))

	chain := middleware.Standard(logger, cfg.CORS, jwtManager)

	return &API{Handler: chain(mount(cfg.Server.BasePath, router)), limiter: limiter}
}

// mount serves h at the root and, when base is set, under base as well.
func mount(base string, h http.Handler) http.Handler {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return h
	}
	mux := http.NewServeMux()
	mux.Handle(base+"/", http.StripPrefix(base, h))
	mux.Handle("/", h)
	return mux
}
