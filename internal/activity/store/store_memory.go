package store

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"pulseboard/internal/activity/models"
	id "pulseboard/pkg/domain"
)

// InMemory keeps activity records in per-user slices. Append and list are the
// only public shapes; the store exposes no way to modify a stored record.
type InMemory struct {
	mu     sync.RWMutex
	byUser map[id.UserID][]*models.Activity
}

func NewInMemory() *InMemory {
	return &InMemory{byUser: make(map[id.UserID][]*models.Activity)}
}

func (s *InMemory) Append(_ context.Context, a *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := cloneActivity(a)
	s.byUser[a.UserID] = append(s.byUser[a.UserID], cloned)
	return nil
}

// ListByUser returns the user's activity newest-first.
func (s *InMemory) ListByUser(_ context.Context, userID id.UserID) ([]*models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.byUser[userID]
	out := make([]*models.Activity, 0, len(records))
	for _, a := range records {
		out = append(out, cloneActivity(a))
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

// PurgeForUser removes every record owned by the user. Exists only for the
// user-deletion cascade; it is not reachable from any HTTP route.
func (s *InMemory) PurgeForUser(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
	return nil
}

func cloneActivity(a *models.Activity) *models.Activity {
	cloned := *a
	if a.Details != nil {
		cloned.Details = make(map[string]any, len(a.Details))
		for k, v := range a.Details {
			cloned.Details[k] = v
		}
	}
	return &cloned
}
