package postgres

import (
	"context"
	"time"
)

// DefaultProbeTimeout bounds a single reachability check.
const DefaultProbeTimeout = 500 * time.Millisecond

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Prober answers whether the primary store is reachable right now.
// Every call performs a fresh ping; no state is kept between calls.
type Prober struct {
	db      Pinger
	timeout time.Duration
}

// NewProber creates a Prober. A nil db is always unreachable.
func NewProber(db Pinger, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{db: db, timeout: timeout}
}

// Reachable pings the database under the probe timeout.
func (p *Prober) Reachable(ctx context.Context) bool {
	if p == nil || p.db == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.db.Ping(ctx) == nil
}
