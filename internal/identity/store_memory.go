package identity

import (
	"context"
	"sync"

	id "pulseboard/pkg/domain"
	"pulseboard/pkg/platform/sentinel"
)

// InMemoryStore is a stand-in identity provider for development and tests.
// It keeps user records in a map and fires lifecycle events through the
// embedded Emitter exactly the way the real provider does: a create fires
// both Created and Saved, a later save fires Saved only.
type InMemoryStore struct {
	*Emitter

	mu    sync.RWMutex
	users map[id.UserID]User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		Emitter: NewEmitter(),
		users:   make(map[id.UserID]User),
	}
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		return user, nil
	}
	return User{}, sentinel.ErrNotFound
}

// CreateUser stores a new user and fires Created followed by Saved.
func (s *InMemoryStore) CreateUser(ctx context.Context, user User) error {
	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()

	if err := s.Emit(ctx, Event{Kind: EventCreated, UserID: user.ID}); err != nil {
		return err
	}
	return s.Emit(ctx, Event{Kind: EventSaved, UserID: user.ID})
}

// SaveUser updates an existing user and fires Saved.
func (s *InMemoryStore) SaveUser(ctx context.Context, user User) error {
	s.mu.Lock()
	if _, ok := s.users[user.ID]; !ok {
		s.mu.Unlock()
		return sentinel.ErrNotFound
	}
	s.users[user.ID] = user
	s.mu.Unlock()

	return s.Emit(ctx, Event{Kind: EventSaved, UserID: user.ID})
}

// DeleteUser removes a user and fires Deleted.
func (s *InMemoryStore) DeleteUser(ctx context.Context, userID id.UserID) error {
	s.mu.Lock()
	if _, ok := s.users[userID]; !ok {
		s.mu.Unlock()
		return sentinel.ErrNotFound
	}
	delete(s.users, userID)
	s.mu.Unlock()

	return s.Emit(ctx, Event{Kind: EventDeleted, UserID: userID})
}
