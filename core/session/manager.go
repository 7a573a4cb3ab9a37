// ABOUTME: Registry of reading sessions keyed by uuid
// ABOUTME: Idle sessions expire from an in-memory go-cache store

package session

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"smart-reader-api/core/errors"
)

// DefaultIdleTimeout is how long an untouched session is kept
const DefaultIdleTimeout = 2 * time.Hour

// Manager creates and looks up sessions
type Manager struct {
	sessions    *gocache.Cache
	idleTimeout time.Duration
	opts        Options
	services    Services
}

// NewManager creates a session registry. Sessions unused for idleTimeout are dropped.
func NewManager(opts Options, services Services, idleTimeout time.Duration) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Manager{
		sessions:    gocache.New(idleTimeout, idleTimeout/2),
		idleTimeout: idleTimeout,
		opts:        opts,
		services:    services,
	}
}

// Create starts a new idle session
func (m *Manager) Create() *Session {
	s := New(uuid.NewString(), m.opts, m.services)
	m.sessions.Set(s.ID(), s, m.idleTimeout)
	return s
}

// Get returns the session with the given id and refreshes its idle timer
func (m *Manager) Get(id string) (*Session, error) {
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, &errors.NotFoundError{Resource: "session", ID: id}
	}
	s := v.(*Session)
	m.sessions.Set(id, s, m.idleTimeout)
	return s, nil
}

// Delete ends a session
func (m *Manager) Delete(id string) {
	m.sessions.Delete(id)
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	return m.sessions.ItemCount()
}
