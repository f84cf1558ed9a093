// Package syncqueue is the durable queue of writes made while the device
// could not reach the API. Items survive restarts and leave the queue only
// when the server acknowledges them.
package syncqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/heartmarshall/pantau-subsidi/internal/device/storage"
)

// ErrDuplicate is returned when an item with the same id is already queued.
var ErrDuplicate = errors.New("syncqueue: item already queued")

// Item is one pending write. Endpoint names the API collection the payload
// is posted to, Payload is the exact request body.
type Item struct {
	ID        string          `json:"id"`
	Endpoint  string          `json:"endpoint"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Queue is backed by the pendingWrites bucket.
type Queue struct {
	db  *storage.DB
	log *slog.Logger
}

// Option configures a Queue.
type Option func(*Queue)

// WithLogger sets the logger used to report quarantined items.
func WithLogger(log *slog.Logger) Option {
	return func(q *Queue) { q.log = log.With("component", "syncqueue") }
}

// New creates a Queue on db.
func New(db *storage.DB, opts ...Option) *Queue {
	q := &Queue{db: db, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue stores item. Items are never overwritten.
func (q *Queue) Enqueue(ctx context.Context, item Item) error {
	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("syncqueue: item id is required")
	}
	if strings.TrimSpace(item.Endpoint) == "" {
		return fmt.Errorf("syncqueue: item endpoint is required")
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	return q.db.Update(ctx, func(tx *bbolt.Tx) error {
		b, err := storage.Bucket(tx, storage.BucketPendingWrites)
		if err != nil {
			return err
		}
		if b.Get([]byte(item.ID)) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicate, item.ID)
		}
		return storage.PutJSON(b, item.ID, item)
	})
}

// ListPending returns every queued item ordered by CreatedAt, then ID.
// Entries that no longer decode are moved to the quarantine bucket and left
// out, so one bad entry does not hold back the rest.
func (q *Queue) ListPending(ctx context.Context) ([]Item, error) {
	var (
		items []Item
		bad   []string
	)
	err := q.db.View(ctx, func(tx *bbolt.Tx) error {
		b, err := storage.Bucket(tx, storage.BucketPendingWrites)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				q.log.WarnContext(ctx, "undecodable pending item quarantined",
					slog.String("key", string(k)),
					slog.String("error", err.Error()),
				)
				bad = append(bad, string(k))
				return nil
			}
			items = append(items, item)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("syncqueue.ListPending: %w", err)
	}
	if len(bad) > 0 {
		if err := q.quarantine(ctx, bad); err != nil {
			return nil, fmt.Errorf("syncqueue.ListPending: %w", err)
		}
	}

	slices.SortFunc(items, func(a, b Item) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return items, nil
}

// quarantine moves the raw entries under keys out of pendingWrites.
func (q *Queue) quarantine(ctx context.Context, keys []string) error {
	return q.db.Update(ctx, func(tx *bbolt.Tx) error {
		pending, err := storage.Bucket(tx, storage.BucketPendingWrites)
		if err != nil {
			return err
		}
		held, err := storage.Bucket(tx, storage.BucketQuarantine)
		if err != nil {
			return err
		}
		for _, k := range keys {
			raw := pending.Get([]byte(k))
			if raw == nil {
				continue
			}
			if err := held.Put([]byte(k), slices.Clone(raw)); err != nil {
				return fmt.Errorf("quarantine %s: %w", k, err)
			}
			if err := pending.Delete([]byte(k)); err != nil {
				return fmt.Errorf("quarantine %s: %w", k, err)
			}
		}
		return nil
	})
}

// Quarantined returns the keys of entries moved out of the queue.
func (q *Queue) Quarantined(ctx context.Context) ([]string, error) {
	var keys []string
	err := q.db.View(ctx, func(tx *bbolt.Tx) error {
		b, err := storage.Bucket(tx, storage.BucketQuarantine)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

// Remove deletes the item with id. Removing an absent id is a no-op.
func (q *Queue) Remove(ctx context.Context, id string) error {
	return q.db.Update(ctx, func(tx *bbolt.Tx) error {
		b, err := storage.Bucket(tx, storage.BucketPendingWrites)
		if err != nil {
			return err
		}
		return b.Delete([]byte(id))
	})
}

// Len returns the number of queued items.
func (q *Queue) Len(ctx context.Context) (int, error) {
	var n int
	err := q.db.View(ctx, func(tx *bbolt.Tx) error {
		b, err := storage.Bucket(tx, storage.BucketPendingWrites)
		if err != nil {
			return err
		}
		n = b.Stats().KeyN
		return nil
	})
	return n, err
}
