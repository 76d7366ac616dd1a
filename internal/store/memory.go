// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used for development, tests, and single-process deployments where session
// durability is not required.
//
// Characteristics:
//   - Stores deep copies of *game.State keyed by session id.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Load of an unknown id returns (nil, nil).

package store

import (
	"context"
	"sync"

	"github.com/robalobadob/binword/internal/game"
)

// Store persists full session snapshots between requests.
// Implementations may be backed by memory (this file), Redis, etc.
type Store interface {
	// Load returns the state saved under id, or nil if there is none.
	Load(ctx context.Context, id string) (*game.State, error)

	// Save replaces the state saved under id.
	Save(ctx context.Context, id string, st *game.State) error

	// Clear removes any state saved under id.
	Clear(ctx context.Context, id string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex           // guards sessions map
	sessions map[string]*game.State // keyed by session id
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.State)}
}

// Load returns a copy so callers cannot mutate stored snapshots.
func (m *memory) Load(ctx context.Context, id string) (*game.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id].Clone(), nil
}

// Save stores a copy of st. Saving nil is equivalent to Clear.
func (m *memory) Save(ctx context.Context, id string, st *game.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st == nil {
		delete(m.sessions, id)
		return nil
	}
	m.sessions[id] = st.Clone()
	return nil
}

func (m *memory) Clear(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
