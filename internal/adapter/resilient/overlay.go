package resilient

import (
	"slices"
	"sync"
	"time"
)

// overlay remembers the ids of records accepted by the fallback path since
// process start. Those records stay visible after the primary store comes
// back: lists merge them in and creates treat their ids as taken. Repos that
// delete keep a second overlay of removed ids so those are never issued again.
type overlay struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func newOverlay() *overlay {
	return &overlay{ids: make(map[string]struct{})}
}

func (o *overlay) mark(id string) {
	o.mu.Lock()
	o.ids[id] = struct{}{}
	o.mu.Unlock()
}

func (o *overlay) has(id string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.ids[id]
	return ok
}

func (o *overlay) empty() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.ids) == 0
}

// mergeByCreation appends the extra records whose id is not already in base
// and restores creation order. base is assumed sorted.
func mergeByCreation[T any](base, extra []T, idOf func(T) string, createdAt func(T) time.Time) []T {
	if len(extra) == 0 {
		return base
	}

	seen := make(map[string]struct{}, len(base))
	for _, rec := range base {
		seen[idOf(rec)] = struct{}{}
	}

	out := slices.Clone(base)
	added := false
	for _, rec := range extra {
		if _, dup := seen[idOf(rec)]; dup {
			continue
		}
		out = append(out, rec)
		added = true
	}
	if !added {
		return base
	}

	slices.SortStableFunc(out, func(a, b T) int {
		return createdAt(a).Compare(createdAt(b))
	})
	return out
}
