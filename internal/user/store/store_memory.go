package store

import (
	"context"
	"sync"

	"sharebite/internal/user/models"
	id "sharebite/pkg/domain"
)

// InMemoryStore keeps users in a map. Used by tests and local development.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[id.UserID]models.User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[id.UserID]models.User)}
}

func (s *InMemoryStore) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *InMemoryStore) UpdateIntegrityScore(_ context.Context, userID id.UserID, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.IntegrityScore = score
	s.users[userID] = user
	return nil
}
