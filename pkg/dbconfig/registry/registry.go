package registry

import (
	"cmp"
	"slices"
	"sync"
)

// Registry is a thread-safe table of values indexed by an ordered key.
type Registry[K cmp.Ordered, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// New creates a new empty registry.
func New[K cmp.Ordered, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]V),
	}
}

// Register adds or updates a value in the registry.
func (r *Registry[K, V]) Register(key K, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = value
}

// LoadOrStore returns the existing value for key if present. Otherwise it
// stores value and returns it. loaded is true if the value was already there.
func (r *Registry[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.entries[key]; ok {
		return v, true
	}
	r.entries[key] = value
	return value, false
}

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Has returns true if the key exists in the registry.
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Keys returns all keys in ascending order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	slices.Sort(keys)
	return keys
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
