// Package fallback holds the in-process datasets that repositories degrade to
// while the primary store is unreachable.
//
// Every table is an arena keyed by record id and guarded by a single
// RWMutex: writers are serialized, readers run concurrently and only ever see
// fully written values. Records are stored and returned by value, so T must
// be a value type whose reference fields are never mutated after insertion.
// A table only grows through Create and shrinks through an explicit Remove;
// nothing is evicted while the process lives. Removed ids are retired and a
// later Create with the same id is rejected, so an at-least-once replay of an
// old write cannot bring a deleted record back.
package fallback

// Store is the fallback persistence contract for one entity type.
type Store[T any] interface {
	// List returns the records accepted by match in insertion order.
	// A nil match returns every record.
	List(match func(T) bool) []T
	// Get returns the record with the given id or domain.ErrNotFound.
	Get(id string) (T, error)
	// Create inserts rec. It returns domain.ErrAlreadyExists if the id or any
	// unique key is already taken.
	Create(rec T) (T, error)
	// Update replaces the record with the result of fn, atomically with
	// respect to other writers. The id must not change.
	Update(id string, fn func(T) (T, error)) (T, error)
	// Remove deletes the record and retires its id, or returns
	// domain.ErrNotFound.
	Remove(id string) error
	// Discard rolls back a Create from the same operation without retiring
	// the id.
	Discard(id string) error
}
