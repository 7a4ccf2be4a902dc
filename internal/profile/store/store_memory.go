package store

import (
	"context"
	"sync"

	"pulseboard/internal/profile/models"
	id "pulseboard/pkg/domain"
	"pulseboard/pkg/platform/sentinel"
)

// InMemory keeps profiles in a map guarded by a mutex. The one-profile-per-user
// constraint is enforced under the same lock that performs the insert, which is
// the memory equivalent of the postgres unique index.
type InMemory struct {
	mu     sync.RWMutex
	byUser map[id.UserID]*models.Profile
}

func NewInMemory() *InMemory {
	return &InMemory{byUser: make(map[id.UserID]*models.Profile)}
}

// Create inserts a new profile. Returns sentinel.ErrConflict when the user
// already has one; the caller decides whether that is an error.
func (s *InMemory) Create(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byUser[profile.UserID]; exists {
		return sentinel.ErrConflict
	}
	cloned := *profile
	s.byUser[profile.UserID] = &cloned
	return nil
}

// FindByUser returns the profile owned by userID.
func (s *InMemory) FindByUser(_ context.Context, userID id.UserID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if profile, ok := s.byUser[userID]; ok {
		cloned := *profile
		return &cloned, nil
	}
	return nil, sentinel.ErrNotFound
}

// Update persists changes to an existing profile.
func (s *InMemory) Update(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byUser[profile.UserID]
	if !ok || existing.ID != profile.ID {
		return sentinel.ErrNotFound
	}
	cloned := *profile
	cloned.CreatedAt = existing.CreatedAt // immutable
	s.byUser[profile.UserID] = &cloned
	return nil
}

// DeleteByUser removes the profile owned by userID.
func (s *InMemory) DeleteByUser(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUser[userID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byUser, userID)
	return nil
}
