package fleet

import (
	"sync"
	"time"
)

// Registry provides thread-safe lookup of the loaded fleet. The reloader
// swaps its contents wholesale; request handlers only read.
type Registry struct {
	mu         sync.RWMutex
	vessels    map[string]Vessel
	order      []string
	lastReload time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{vessels: make(map[string]Vessel)}
}

// Update replaces the registry contents with vessels.
func (r *Registry) Update(vessels []Vessel) {
	bySlug := make(map[string]Vessel, len(vessels))
	order := make([]string, 0, len(vessels))
	for _, v := range vessels {
		bySlug[v.Slug] = v
		order = append(order, v.Slug)
	}

	r.mu.Lock()
	r.vessels = bySlug
	r.order = order
	r.lastReload = time.Now()
	r.mu.Unlock()
}

// Get returns the vessel registered under slug.
func (r *Registry) Get(slug string) (Vessel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vessels[slug]
	return v, ok
}

// All returns the vessels in file order.
func (r *Registry) All() []Vessel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Vessel, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.vessels[slug])
	}
	return out
}

// Count returns the number of registered vessels.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.vessels)
}

// LastReload returns when the registry was last updated.
func (r *Registry) LastReload() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastReload
}
