package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps tokens in process memory. Everything is lost on restart
// and tokens are not shared between processes; use the Redis store when
// running more than one replica.
type MemoryStore struct {
	mu         sync.Mutex
	tokens     map[string]uuid.UUID
	userTokens map[uuid.UUID]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens:     make(map[string]uuid.UUID),
		userTokens: make(map[uuid.UUID]string),
	}
}

func (s *MemoryStore) Issue(_ context.Context, userID uuid.UUID, mint func() (string, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token, ok := s.userTokens[userID]; ok {
		return token, nil
	}

	token, err := mint()
	if err != nil {
		return "", err
	}
	s.tokens[token] = userID
	s.userTokens[userID] = token
	return token, nil
}

func (s *MemoryStore) Lookup(_ context.Context, token string) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.tokens[token]
	return userID, ok, nil
}

func (s *MemoryStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.tokens[token]
	if !ok {
		return nil
	}
	delete(s.tokens, token)
	if s.userTokens[userID] == token {
		delete(s.userTokens, userID)
	}
	return nil
}

func (s *MemoryStore) RevokeUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.userTokens[userID]
	if !ok {
		return nil
	}
	delete(s.userTokens, userID)
	delete(s.tokens, token)
	return nil
}

func (s *MemoryStore) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.tokens), nil
}
