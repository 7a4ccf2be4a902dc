package store

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"pulseboard/internal/notification/models"
	id "pulseboard/pkg/domain"
	"pulseboard/pkg/platform/sentinel"
)

// InMemory keeps notifications in maps guarded by a mutex. Only read-flag
// mutation is exposed; the rest of the record is write-once.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[id.NotificationID]*models.Notification
	byUser map[id.UserID][]id.NotificationID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[id.NotificationID]*models.Notification),
		byUser: make(map[id.UserID][]id.NotificationID),
	}
}

func (s *InMemory) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := *n
	s.byID[n.ID] = &cloned
	s.byUser[n.UserID] = append(s.byUser[n.UserID], n.ID)
	return nil
}

// ListByUser returns the user's notifications newest-first.
func (s *InMemory) ListByUser(_ context.Context, userID id.UserID) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	out := make([]*models.Notification, 0, len(ids))
	for _, nid := range ids {
		if n, ok := s.byID[nid]; ok {
			cloned := *n
			out = append(out, &cloned)
		}
	}
	// Same ordering as the SQL store: created_at DESC, id DESC on ties.
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		a, b := uuid.UUID(out[i].ID), uuid.UUID(out[j].ID)
		return bytes.Compare(a[:], b[:]) > 0
	})
	return out, nil
}

func (s *InMemory) FindByID(_ context.Context, notificationID id.NotificationID) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.byID[notificationID]; ok {
		cloned := *n
		return &cloned, nil
	}
	return nil, sentinel.ErrNotFound
}

// MarkRead flips the read flag. Already-read notifications are a no-op, not
// an error.
func (s *InMemory) MarkRead(_ context.Context, notificationID id.NotificationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[notificationID]
	if !ok {
		return sentinel.ErrNotFound
	}
	n.IsRead = true
	return nil
}

// MarkAllRead flips the read flag on every unread notification for the user.
func (s *InMemory) MarkAllRead(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, nid := range s.byUser[userID] {
		if n, ok := s.byID[nid]; ok {
			n.IsRead = true
		}
	}
	return nil
}

func (s *InMemory) Delete(_ context.Context, notificationID id.NotificationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[notificationID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, notificationID)

	ids := s.byUser[n.UserID]
	for i, nid := range ids {
		if nid == notificationID {
			s.byUser[n.UserID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// DeleteByUser removes every notification owned by the user (deletion cascade).
func (s *InMemory) DeleteByUser(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, nid := range s.byUser[userID] {
		delete(s.byID, nid)
	}
	delete(s.byUser, userID)
	return nil
}

// CountUnread returns the number of unread notifications for the user.
func (s *InMemory) CountUnread(_ context.Context, userID id.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, nid := range s.byUser[userID] {
		if n, ok := s.byID[nid]; ok && !n.IsRead {
			count++
		}
	}
	return count, nil
}
