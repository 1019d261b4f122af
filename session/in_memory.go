package session

import (
	"errors"
	"sort"
	"sync"
)

// ErrSessionNotFound is returned for handles the registry does not know.
var ErrSessionNotFound = errors.New("session not found")

// InMemoryRegistry maps handles to independent sessions in a process local
// map. It is safe for concurrent access. Sessions share no model state; the
// registry only lets boundary surfaces refer to them by ID.
type InMemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	defaults []func(o *Options)
}

// NewInMemoryRegistry constructs an empty registry. defaults are applied to
// every session it creates, before per-call options.
func NewInMemoryRegistry(defaults ...func(o *Options)) *InMemoryRegistry {
	return &InMemoryRegistry{sessions: make(map[string]*Session), defaults: defaults}
}

// Create opens a new session and stores it under its ID.
func (r *InMemoryRegistry) Create(optFns ...func(o *Options)) *Session {
	sess := New(append(append([]func(o *Options){}, r.defaults...), optFns...)...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID()] = sess
	return sess
}

// Add stores an existing session.
func (r *InMemoryRegistry) Add(sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID()] = sess
}

// Get returns the session stored under id.
func (r *InMemoryRegistry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Remove unloads the session stored under id and forgets it.
func (r *InMemoryRegistry) Remove(id string) error {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	return sess.Unload()
}

// IDs returns the stored handles in sorted order.
func (r *InMemoryRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close unloads every stored session and empties the registry.
func (r *InMemoryRegistry) Close() error {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	var errs []error
	for _, sess := range sessions {
		if err := sess.Unload(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
