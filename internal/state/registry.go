package state

import (
	"sync"
	"time"
)

type registryEntry[V any] struct {
	value    V
	lastUsed time.Time
}

// Registry hands out one value per user id, creating it on first use.
type Registry[V any] struct {
	mu      sync.Mutex
	factory func(userID string) V
	entries map[string]*registryEntry[V]
	now     func() time.Time
}

func NewRegistry[V any](factory func(userID string) V) *Registry[V] {
	return &Registry[V]{
		factory: factory,
		entries: make(map[string]*registryEntry[V]),
		now:     time.Now,
	}
}

// For returns the value scoped to userID.
func (r *Registry[V]) For(userID string) V {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[userID]
	if !ok {
		e = &registryEntry[V]{value: r.factory(userID)}
		r.entries[userID] = e
	}
	e.lastUsed = r.now()
	return e.value
}

func (r *Registry[V]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Prune drops values not requested for longer than idle and reports how many
// were removed. The next For call rebuilds them from the store.
func (r *Registry[V]) Prune(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for id, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}
