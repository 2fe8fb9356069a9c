package game

import (
	"sync"

	"github.com/BibaPutt/vibeathon-arena/internal/models"
)

// Store holds the authoritative in-memory game state for this device.
// Reads and writes go through the reducer so state only ever changes via
// actions, in dispatch order.
type Store struct {
	mu    sync.RWMutex
	state models.GameStore
}

// NewStore creates a store seeded with the given initial state.
func NewStore(initial models.GameStore) *Store {
	return &Store{state: initial}
}

// Snapshot returns a copy of the current state. The roster slice is cloned
// so callers can't mutate store internals.
func (s *Store) Snapshot() models.GameStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state
	snap.Players = models.ClonePlayers(s.state.Players)
	return snap
}

// Apply runs the reducer over the current state and installs the result,
// returning the new state.
func (s *Store) Apply(action Action) models.GameStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
	snap := s.state
	snap.Players = models.ClonePlayers(s.state.Players)
	return snap
}
