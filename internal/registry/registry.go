// Package registry tracks the loaded detection models and which one is
// active. The active name is the only shared mutable state in the
// service; every mutation goes through SetActive.
package registry

import (
	"sync"

	"detection-service/internal/domain"
)

// Entry is one registered model. Immutable after registration.
type Entry struct {
	Name        string
	WeightsPath string
	Detector    domain.Detector
}

type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*Entry
	active  string
}

// New builds a registry over the loaded models. The first entry becomes
// the active model.
func New(entries ...Entry) *Registry {
	r := &Registry{entries: make(map[string]*Entry, len(entries))}
	for i := range entries {
		e := entries[i]
		if _, dup := r.entries[e.Name]; dup {
			continue
		}
		r.entries[e.Name] = &e
		r.order = append(r.order, e.Name)
	}
	if len(r.order) > 0 {
		r.active = r.order[0]
	}
	return r
}

// Names lists registered model names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Active returns the name of the active model, or "" when the registry
// is empty.
func (r *Registry) Active() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Entry looks up a model by name.
func (r *Registry) Entry(name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, domain.ErrModelNotFound
	}
	return e, nil
}

// ActiveEntry returns the active model's entry.
func (r *Registry) ActiveEntry() (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == "" {
		return nil, domain.ErrNoModelsLoaded
	}
	return r.entries[r.active], nil
}

// SetActive switches the active model. Unknown names fail with
// ErrModelNotFound and leave the active model unchanged. Concurrent
// switches serialize; the result is always one of the requested names.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		return domain.ErrModelNotFound
	}
	r.active = name
	return nil
}

// Entries returns all entries in registration order.
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

// Len reports the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
