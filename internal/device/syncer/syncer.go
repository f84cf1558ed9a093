// Package syncer replays queued device writes against the API. A drain is
// triggered by connectivity returning, by the "force-sync" message and by a
// cron-scheduled background registration.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/pantau-subsidi/internal/device/connectivity"
	"github.com/heartmarshall/pantau-subsidi/internal/device/syncqueue"
)

// MessageForceSync asks a running syncer to drain now.
const MessageForceSync = "force-sync"

// TagSyncLaporan is the background registration that drains pending reports.
const TagSyncLaporan = "sync-laporan"

const (
	defaultConcurrency = 4
	messageBuffer      = 8
)

type queue interface {
	ListPending(ctx context.Context) ([]syncqueue.Item, error)
	Remove(ctx context.Context, id string) error
}

type replayer interface {
	Replay(ctx context.Context, item syncqueue.Item) error
}

// Result summarises one drain.
type Result struct {
	Attempted int `json:"attempted"`
	Synced    int `json:"synced"`
	Failed    int `json:"failed"`
}

// Syncer drains the queue.
type Syncer struct {
	queue    queue
	replayer replayer
	limit    int
	log      *slog.Logger

	messages chan string
	fired    chan string

	mu   sync.Mutex
	cron *cron.Cron
	regs map[string]cron.EntryID
}

// New creates a Syncer replaying at most concurrency items at a time.
func New(q queue, r replayer, concurrency int, logger *slog.Logger) *Syncer {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Syncer{
		queue:    q,
		replayer: r,
		limit:    concurrency,
		log:      logger.With("component", "syncer"),
		messages: make(chan string, messageBuffer),
		fired:    make(chan string, messageBuffer),
		cron:     cron.New(),
		regs:     make(map[string]cron.EntryID),
	}
}

// Drain replays every pending item once. Items are independent: a failure
// leaves that item queued and does not stop the others. Only a failure to
// list the queue is returned as an error.
func (s *Syncer) Drain(ctx context.Context) (Result, error) {
	items, err := s.queue.ListPending(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("syncer.Drain: %w", err)
	}
	if len(items) == 0 {
		return Result{}, nil
	}

	var synced, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.limit)

	for _, item := range items {
		g.Go(func() error {
			if err := s.replayer.Replay(ctx, item); err != nil {
				failed.Add(1)
				s.log.WarnContext(ctx, "replay failed, item stays queued",
					slog.String("id", item.ID),
					slog.String("endpoint", item.Endpoint),
					slog.String("error", err.Error()),
				)
				return nil
			}
			if err := s.queue.Remove(ctx, item.ID); err != nil {
				// Acknowledged but still queued: the next drain replays it
				// and the server answers it as a replay.
				s.log.WarnContext(ctx, "remove synced item failed",
					slog.String("id", item.ID),
					slog.String("error", err.Error()),
				)
			}
			synced.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Attempted: len(items), Synced: int(synced.Load()), Failed: int(failed.Load())}
	s.log.InfoContext(ctx, "drain finished",
		slog.Int("attempted", res.Attempted),
		slog.Int("synced", res.Synced),
		slog.Int("failed", res.Failed),
	)
	return res, nil
}

// Post delivers a message to a running syncer. It reports false when the
// message buffer is full.
func (s *Syncer) Post(msg string) bool {
	select {
	case s.messages <- msg:
		return true
	default:
		return false
	}
}

// Run handles triggers until ctx is done. events may be nil.
func (s *Syncer) Run(ctx context.Context, events <-chan connectivity.Event) error {
	s.cron.Start()
	defer func() { <-s.cron.Stop().Done() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Online {
				s.drain(ctx, "connectivity")
			}
		case msg := <-s.messages:
			if msg != MessageForceSync {
				s.log.WarnContext(ctx, "ignoring unknown message", slog.String("message", msg))
				continue
			}
			s.drain(ctx, msg)
		case tag := <-s.fired:
			s.drain(ctx, tag)
		}
	}
}

func (s *Syncer) drain(ctx context.Context, trigger string) {
	s.log.DebugContext(ctx, "drain triggered", slog.String("trigger", trigger))
	if _, err := s.Drain(ctx); err != nil {
		s.log.ErrorContext(ctx, "drain failed", slog.String("trigger", trigger), slog.String("error", err.Error()))
	}
}
