// Package session keeps the signed-in principal across process restarts.
// Reads are served from memory; durable writes are applied in order by a
// single writer goroutine so callers never wait on disk.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.etcd.io/bbolt"

	"github.com/heartmarshall/pantau-subsidi/internal/device/storage"
)

const (
	currentKey  = "current"
	writeBuffer = 32
)

// Session is the signed-in principal and its bearer token.
type Session struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"`
	Agency    string `json:"agency,omitempty"`
	Token     string `json:"token"`
}

// write is a durable mutation; a nil session clears.
type write struct {
	session *Session
}

// Store is the two-tier session store.
type Store struct {
	db  *storage.DB
	log *slog.Logger

	mu      sync.RWMutex
	known   bool // memory tier is authoritative
	current *Session
	closed  bool

	writes chan write
	done   chan struct{}
}

// Open starts the durable writer.
func Open(db *storage.DB, logger *slog.Logger) *Store {
	s := &Store{
		db:     db,
		log:    logger.With("component", "session"),
		writes: make(chan write, writeBuffer),
		done:   make(chan struct{}),
	}
	go s.writer()
	return s
}

// Persist records sess. The memory tier is updated before Persist returns.
func (s *Store) Persist(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.known = true
	s.current = &sess
	s.writes <- write{session: &sess}
}

// Clear forgets the session.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.known = true
	s.current = nil
	s.writes <- write{}
}

// Read returns the current session, loading it from durable storage the
// first time.
func (s *Store) Read(ctx context.Context) (Session, bool, error) {
	s.mu.RLock()
	if s.known {
		defer s.mu.RUnlock()
		if s.current == nil {
			return Session{}, false, nil
		}
		return *s.current, true, nil
	}
	s.mu.RUnlock()

	var (
		sess  Session
		found bool
	)
	err := s.db.View(ctx, func(tx *bbolt.Tx) error {
		b, err := storage.Bucket(tx, storage.BucketSession)
		if err != nil {
			return err
		}
		found, err = storage.GetJSON(b, currentKey, &sess)
		return err
	})
	if err != nil {
		return Session{}, false, fmt.Errorf("session.Read: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A Persist or Clear that won the race is newer than what was on disk.
	if s.known {
		if s.current == nil {
			return Session{}, false, nil
		}
		return *s.current, true, nil
	}
	s.known = true
	if found {
		s.current = &sess
	}
	return sess, found, nil
}

// Close flushes queued writes and stops the writer.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return nil
	}
	s.closed = true
	close(s.writes)
	s.mu.Unlock()

	<-s.done
	return nil
}

func (s *Store) writer() {
	defer close(s.done)
	for w := range s.writes {
		if err := s.apply(w); err != nil {
			s.log.Warn("session write failed", slog.String("error", err.Error()))
		}
	}
}

func (s *Store) apply(w write) error {
	return s.db.Update(context.Background(), func(tx *bbolt.Tx) error {
		b, err := storage.Bucket(tx, storage.BucketSession)
		if err != nil {
			return err
		}
		if w.session == nil {
			return b.Delete([]byte(currentKey))
		}
		return storage.PutJSON(b, currentKey, w.session)
	})
}
