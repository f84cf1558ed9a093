// Package resilient implements the dual-path repositories: every operation
// tries the primary store when it is reachable and otherwise, or on any
// infrastructure failure, serves the same operation from the in-process
// fallback dataset.
//
// Each call makes at most one primary attempt. There is no retry loop and
// no backoff: the next caller-initiated operation is the retry, which keeps
// the latency of a single call bounded by the probe timeout plus one query.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// Prober reports whether the primary store is reachable.
type Prober interface {
	Reachable(ctx context.Context) bool
}

// Recorder receives path-selection events. *metrics.Recorder satisfies it.
type Recorder interface {
	Fallback(entity, op string)
	PrimaryFailure(entity, op string)
}

// TxRunner runs fn in a primary-store transaction. *postgres.TxManager satisfies it.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Path identifies which store served an operation.
type Path int

const (
	PathPrimary Path = iota + 1
	PathFallback
)

func (p Path) String() string {
	switch p {
	case PathPrimary:
		return "primary"
	case PathFallback:
		return "fallback"
	}
	return "unknown"
}

// Op names an operation for logs and metrics.
type Op struct {
	Entity string
	Name   string
}

// Executor selects the path for each repository operation.
type Executor struct {
	prober   Prober
	recorder Recorder
	log      *slog.Logger
}

// NewExecutor creates an Executor. recorder may be nil.
func NewExecutor(prober Prober, recorder Recorder, logger *slog.Logger) *Executor {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Executor{
		prober:   prober,
		recorder: recorder,
		log:      logger.With("component", "resilient"),
	}
}

// Do runs one repository operation.
//
// If the prober reports the primary reachable, primary runs inside a failure
// boundary that converts panics to errors. Domain errors other than
// domain.ErrNotFound are returned to the caller unchanged, so uniqueness and
// validation are decided by the primary when it answers. ErrNotFound and every
// infrastructure error fall through to fallback, whose result is returned.
func Do[T any](ctx context.Context, e *Executor, op Op, primary func(ctx context.Context) (T, error), fallback func() (T, error)) (T, Path, error) {
	if e.prober.Reachable(ctx) {
		v, err := runPrimary(ctx, primary)
		switch {
		case err == nil:
			return v, PathPrimary, nil
		case propagates(err):
			return v, PathPrimary, err
		case errors.Is(err, domain.ErrNotFound):
			e.log.WarnContext(ctx, "primary store has no record, trying fallback",
				slog.String("entity", op.Entity),
				slog.String("op", op.Name),
				slog.String("error", err.Error()),
			)
		default:
			e.recorder.PrimaryFailure(op.Entity, op.Name)
			e.log.WarnContext(ctx, "primary store failed, using fallback",
				slog.String("entity", op.Entity),
				slog.String("op", op.Name),
				slog.String("error", err.Error()),
			)
		}
	} else {
		e.log.DebugContext(ctx, "primary store unreachable, using fallback",
			slog.String("entity", op.Entity),
			slog.String("op", op.Name),
		)
	}

	e.recorder.Fallback(op.Entity, op.Name)
	v, err := fallback()
	return v, PathFallback, err
}

func runPrimary[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("primary panic: %v", r)
		}
	}()
	return fn(ctx)
}

// propagates reports whether a primary error is a decision the caller must see.
func propagates(err error) bool {
	return domain.IsDomainError(err) && !errors.Is(err, domain.ErrNotFound)
}

type nopRecorder struct{}

func (nopRecorder) Fallback(string, string)       {}
func (nopRecorder) PrimaryFailure(string, string) {}
