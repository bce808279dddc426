package cart

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

var ErrItemNotFound = errors.New("item not found in cart")

// Manager hands out one Store per session. The first access for a session
// loads the persisted cart; singleflight collapses concurrent first
// requests so the load happens once.
type Manager struct {
	mu      sync.RWMutex
	stores  map[string]*Store
	persist Persistence
	sfg     singleflight.Group
}

func NewManager(persist Persistence) *Manager {
	return &Manager{
		stores:  make(map[string]*Store),
		persist: persist,
	}
}

// Session returns the store for the given session id, loading it from
// persistence on first use.
func (m *Manager) Session(ctx context.Context, sessionID string) (*Store, error) {
	m.mu.RLock()
	s, ok := m.stores[sessionID]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	v, err, _ := m.sfg.Do(sessionID, func() (interface{}, error) {
		m.mu.RLock()
		existing, ok := m.stores[sessionID]
		m.mu.RUnlock()
		if ok {
			return existing, nil
		}

		loaded, err := Load(ctx, sessionID, m.persist)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.stores[sessionID] = loaded
		m.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

// Evict drops the in-memory store for a session; the durable copy remains.
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	delete(m.stores, sessionID)
	m.mu.Unlock()
}
