// Package memory is an in-process session store for single-instance
// deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
	"github.com/vncsmyrnk/elearning/internal/core/ports"
)

type entry struct {
	user      *domain.User
	expiresAt time.Time
}

type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{entries: make(map[string]entry), now: time.Now}
}

var _ ports.SessionStore = (*Store)(nil)

func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Put(_ context.Context, userID string, snapshot *domain.User, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = entry{user: snapshot.Snapshot(), expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *Store) Get(_ context.Context, userID string) (*domain.User, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.entries[userID]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, userID)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.user.Snapshot(), true, nil
}

func (s *Store) Replace(_ context.Context, userID string, snapshot *domain.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok || !s.now().Before(e.expiresAt) {
		return false, nil
	}
	s.entries[userID] = entry{user: snapshot.Snapshot(), expiresAt: e.expiresAt}
	return true, nil
}

func (s *Store) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}

// TTL reports the remaining lifetime of an entry, or zero when absent.
func (s *Store) TTL(userID string) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[userID]
	if !ok {
		return 0
	}
	if d := e.expiresAt.Sub(s.now()); d > 0 {
		return d
	}
	return 0
}
