package stores

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/labforge/labauth/refresh"
)

// MemoryRefreshStore keeps refresh tokens in process memory. Expired records
// linger until PurgeExpired runs; FindByTokenID still returns them, leaving
// the expiry decision to the refresh manager.
type MemoryRefreshStore struct {
	mu     sync.RWMutex
	tokens map[string]refresh.Token
}

func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{
		tokens: make(map[string]refresh.Token),
	}
}

func (s *MemoryRefreshStore) Save(_ context.Context, token *refresh.Token) error {
	if token == nil || token.ID == "" {
		return errors.New("invalid refresh token record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token.ID] = *token
	return nil
}

func (s *MemoryRefreshStore) FindByTokenID(_ context.Context, id string) (*refresh.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[id]
	if !ok {
		return nil, nil
	}
	return &token, nil
}

func (s *MemoryRefreshStore) DeleteByTokenID(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tokens[id]
	delete(s.tokens, id)
	return ok, nil
}

func (s *MemoryRefreshStore) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, token := range s.tokens {
		if now.After(token.ExpiresAt) {
			delete(s.tokens, id)
			purged++
		}
	}
	return purged, nil
}

// Len reports the number of stored records, expired or not.
func (s *MemoryRefreshStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tokens)
}
