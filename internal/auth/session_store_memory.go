package auth

import (
	"context"
	"sync"

	"github.com/teamhub/backend/internal/domain"
)

// NewInMemorySessionStore returns a SessionStore backed by an in-memory map.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]domain.SessionRecord)}
}

// InMemorySessionStore implements SessionStore for tests and local development.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionRecord
}

// Save persists the provided session record, keyed by session id.
func (s *InMemorySessionStore) Save(_ context.Context, record domain.SessionRecord) error {
	s.mu.Lock()
	s.sessions[record.ID] = record
	s.mu.Unlock()
	return nil
}

// FindByRefreshToken retrieves a session by its refresh token.
func (s *InMemorySessionStore) FindByRefreshToken(_ context.Context, refreshToken string) (domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.sessions {
		if record.RefreshToken == refreshToken {
			return record, nil
		}
	}
	return domain.SessionRecord{}, ErrSessionNotFound
}

// Update overwrites the stored record for the session id.
func (s *InMemorySessionStore) Update(_ context.Context, record domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[record.ID]; !ok {
		return ErrSessionNotFound
	}
	s.sessions[record.ID] = record
	return nil
}

// Get returns the stored record for a session id. Useful for tests.
func (s *InMemorySessionStore) Get(id string) (domain.SessionRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.sessions[id]
	return record, ok
}
