package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/chart/sink"
	"github.com/matzehuels/waterfall/pkg/errors"
)

// entry is one registered chart. mu serializes every call on the session.
type entry struct {
	mu      sync.Mutex
	id      string
	session *chart.Session
	surface *sink.SVGSurface
	created time.Time
}

// Registry maps chart ids to sessions.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// add registers a session under a fresh id.
func (r *Registry) add(s *chart.Session, surf *sink.SVGSurface) *entry {
	e := &entry{id: uuid.NewString(), session: s, surface: surf, created: time.Now()}
	r.mu.Lock()
	r.entries[e.id] = e
	r.mu.Unlock()
	return e
}

// with runs fn with the entry locked.
func (r *Registry) with(id string, fn func(*entry) error) error {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "chart %q not found", id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e)
}

// remove unregisters and disposes a session.
func (r *Registry) remove(id string) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "chart %q not found", id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Dispose()
	return nil
}

// Len returns the number of registered charts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Close disposes every registered session.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*entry)
	r.mu.Unlock()
	for _, e := range entries {
		e.mu.Lock()
		e.session.Dispose()
		e.mu.Unlock()
	}
}
