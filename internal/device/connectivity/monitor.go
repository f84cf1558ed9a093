package connectivity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const subscriberBuffer = 4

// Checker reports reachability. *Prober satisfies it.
type Checker interface {
	Reachable(ctx context.Context) bool
}

// Event is a connectivity transition.
type Event struct {
	Online bool
	At     time.Time
}

// Monitor re-probes on an interval and publishes transitions. The device
// starts out assumed offline, so the first successful probe is reported as
// an offline to online transition.
type Monitor struct {
	checker  Checker
	interval time.Duration
	log      *slog.Logger

	mu     sync.Mutex
	online bool
	subs   []chan Event
}

// NewMonitor creates a Monitor.
func NewMonitor(checker Checker, interval time.Duration, logger *slog.Logger) *Monitor {
	return &Monitor{
		checker:  checker,
		interval: interval,
		log:      logger.With("component", "connectivity"),
	}
}

// Subscribe returns a channel of transitions. Events are dropped for a
// subscriber whose buffer is full.
func (m *Monitor) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// Online returns the last observed state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Check probes once, publishes a transition if the state changed and
// returns the observed state.
func (m *Monitor) Check(ctx context.Context) bool {
	online := m.checker.Reachable(ctx)

	m.mu.Lock()
	changed := online != m.online
	m.online = online
	subs := m.subs
	m.mu.Unlock()

	if changed {
		m.log.InfoContext(ctx, "connectivity changed", slog.Bool("online", online))
		m.publish(Event{Online: online, At: time.Now()}, subs)
	}
	return online
}

// Run probes until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

func (m *Monitor) publish(ev Event, subs []chan Event) {
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			m.log.Debug("dropping connectivity event for slow subscriber")
		}
	}
}
