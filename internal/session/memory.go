package session

import (
	"context"
	"sync"

	"github.com/BibaPutt/vibeathon-arena/internal/models"
)

// MemoryStore is an in-memory Store used by tests and by runs that opt out
// of durable device state.
type MemoryStore struct {
	mu           sync.Mutex
	session      models.LocalSession
	arrangements map[string]models.Arrangement
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{arrangements: make(map[string]models.Arrangement)}
}

func (s *MemoryStore) LoadSession(ctx context.Context) models.LocalSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *MemoryStore) SaveSession(ctx context.Context, sess models.LocalSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
	return nil
}

func (s *MemoryStore) LoadArrangement(ctx context.Context, playerID string) (*models.Arrangement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	arr, ok := s.arrangements[playerID]
	if !ok {
		return nil, nil
	}
	return &arr, nil
}

func (s *MemoryStore) SaveArrangement(ctx context.Context, playerID string, arr models.Arrangement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arrangements[playerID] = arr
	return nil
}

func (s *MemoryStore) ClearArrangement(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.arrangements, playerID)
	return nil
}
