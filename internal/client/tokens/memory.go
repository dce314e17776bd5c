package tokens

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
)

// MemoryStore keeps tokens for the lifetime of the process only.
type MemoryStore struct {
	mu   sync.Mutex
	pair models.TokenPair
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair, nil
}

func (s *MemoryStore) Save(_ context.Context, pair models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = models.TokenPair{}
	return nil
}
