package fallback

import (
	"fmt"
	"sync"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// Table is the in-memory Store implementation.
type Table[T any] struct {
	name   string
	idOf   func(T) string
	unique []*uniqueIndex[T]

	mu      sync.RWMutex
	rows    map[string]T
	order   []string
	retired map[string]struct{} // removed ids, never accepted again
}

type uniqueIndex[T any] struct {
	name  string
	keyOf func(T) string
	ids   map[string]string // key -> record id
}

// TableOption configures a Table.
type TableOption[T any] func(*Table[T])

// WithUnique adds a uniqueness constraint on keyOf. Empty keys are not indexed.
func WithUnique[T any](name string, keyOf func(T) string) TableOption[T] {
	return func(t *Table[T]) {
		t.unique = append(t.unique, &uniqueIndex[T]{name: name, keyOf: keyOf, ids: make(map[string]string)})
	}
}

// NewTable creates an empty table. name is used in error messages.
func NewTable[T any](name string, idOf func(T) string, opts ...TableOption[T]) *Table[T] {
	t := &Table[T]{
		name: name,
		idOf: idOf,
		rows:    make(map[string]T),
		retired: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var _ Store[domain.Report] = (*Table[domain.Report])(nil)

// List returns the records accepted by match in insertion order.
func (t *Table[T]) List(match func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		rec := t.rows[id]
		if match == nil || match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Get returns the record with the given id.
func (t *Table[T]) Get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", t.name, id, domain.ErrNotFound)
	}
	return rec, nil
}

// Lookup returns the record whose unique key named index equals key.
func (t *Table[T]) Lookup(index, key string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var zero T
	for _, idx := range t.unique {
		if idx.name != index {
			continue
		}
		id, ok := idx.ids[key]
		if !ok {
			return zero, fmt.Errorf("%s %s=%s: %w", t.name, index, key, domain.ErrNotFound)
		}
		return t.rows[id], nil
	}
	return zero, fmt.Errorf("%s: unknown index %q", t.name, index)
}

// Create inserts rec. An id that was ever removed stays taken.
func (t *Table[T]) Create(rec T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	id := t.idOf(rec)
	if id == "" {
		return zero, fmt.Errorf("%s: %w", t.name, domain.NewValidationError("id", "required"))
	}
	if _, exists := t.rows[id]; exists {
		return zero, fmt.Errorf("%s %s: %w", t.name, id, domain.ErrAlreadyExists)
	}
	if _, gone := t.retired[id]; gone {
		return zero, fmt.Errorf("%s %s (removed): %w", t.name, id, domain.ErrAlreadyExists)
	}
	if err := t.checkUnique(rec, ""); err != nil {
		return zero, err
	}

	t.rows[id] = rec
	t.order = append(t.order, id)
	t.index(rec)
	return rec, nil
}

// Update replaces the record with the result of fn.
func (t *Table[T]) Update(id string, fn func(T) (T, error)) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	cur, ok := t.rows[id]
	if !ok {
		return zero, fmt.Errorf("%s %s: %w", t.name, id, domain.ErrNotFound)
	}

	next, err := fn(cur)
	if err != nil {
		return zero, err
	}
	if t.idOf(next) != id {
		return zero, fmt.Errorf("%s %s: %w", t.name, id, domain.NewValidationError("id", "cannot be changed"))
	}
	if err := t.checkUnique(next, id); err != nil {
		return zero, err
	}

	t.unindex(cur)
	t.rows[id] = next
	t.index(next)
	return next, nil
}

// Remove deletes the record with the given id and retires the id.
func (t *Table[T]) Remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.drop(id); err != nil {
		return err
	}
	t.retired[id] = struct{}{}
	return nil
}

// Discard undoes a Create made earlier in the same operation. Unlike Remove
// the id is not retired: the write never happened as far as callers know.
func (t *Table[T]) Discard(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.drop(id)
}

// drop must be called with t.mu held.
func (t *Table[T]) drop(id string) error {
	cur, ok := t.rows[id]
	if !ok {
		return fmt.Errorf("%s %s: %w", t.name, id, domain.ErrNotFound)
	}

	t.unindex(cur)
	delete(t.rows, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of records.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// checkUnique must be called with t.mu held. self is the id allowed to own
// the keys already (the record being updated).
func (t *Table[T]) checkUnique(rec T, self string) error {
	for _, idx := range t.unique {
		key := idx.keyOf(rec)
		if key == "" {
			continue
		}
		if owner, taken := idx.ids[key]; taken && owner != self {
			return fmt.Errorf("%s %s=%s: %w", t.name, idx.name, key, domain.ErrAlreadyExists)
		}
	}
	return nil
}

func (t *Table[T]) index(rec T) {
	id := t.idOf(rec)
	for _, idx := range t.unique {
		if key := idx.keyOf(rec); key != "" {
			idx.ids[key] = id
		}
	}
}

func (t *Table[T]) unindex(rec T) {
	for _, idx := range t.unique {
		if key := idx.keyOf(rec); key != "" {
			delete(idx.ids, key)
		}
	}
}
