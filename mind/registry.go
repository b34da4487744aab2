package mind

import (
	"fmt"
	"sort"
	"sync"
)

// Registry tracks live minds by id.
type Registry struct {
	mu    sync.RWMutex
	minds map[string]*Mind
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{minds: make(map[string]*Mind)}
}

// Add registers a mind; it fails if the id is already taken.
func (r *Registry) Add(m *Mind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.minds[m.ID()]; exists {
		return fmt.Errorf("mind %s already exists", m.ID())
	}
	r.minds[m.ID()] = m
	return nil
}

// Get returns the mind with the given id.
func (r *Registry) Get(id string) (*Mind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.minds[id]
	return m, ok
}

// Remove deletes a mind; it reports whether the mind was present.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.minds[id]
	delete(r.minds, id)
	return ok
}

// IDs returns the registered mind ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.minds))
	for id := range r.minds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered minds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.minds)
}
