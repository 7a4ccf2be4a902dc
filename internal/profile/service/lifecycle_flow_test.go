package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	activityModels "pulseboard/internal/activity/models"
	activityStore "pulseboard/internal/activity/store"
	"pulseboard/internal/identity"
	notificationModels "pulseboard/internal/notification/models"
	notificationStore "pulseboard/internal/notification/store"
	profileModels "pulseboard/internal/profile/models"
	profileStore "pulseboard/internal/profile/store"
	id "pulseboard/pkg/domain"
	"pulseboard/pkg/platform/sentinel"
)

// fixture wires the coordinator to real in-memory stores and the in-memory
// identity provider, so whole lifecycle flows run exactly as they do in dev.
type fixture struct {
	identities    *identity.InMemoryStore
	profiles      *profileStore.InMemory
	notifications *notificationStore.InMemory
	activities    *activityStore.InMemory
	coordinator   *Service
	now           time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		identities:    identity.NewInMemoryStore(),
		profiles:      profileStore.NewInMemory(),
		notifications: notificationStore.NewInMemory(),
		activities:    activityStore.NewInMemory(),
		now:           time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	f.coordinator = New(f.profiles, f.identities,
		WithClock(func() time.Time { return f.now }),
		WithCascade(f.notifications, f.activities),
	)
	f.coordinator.Subscribe(f.identities)
	return f
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func TestLifecycleFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("creating a user creates exactly one empty profile", func(t *testing.T) {
		f := newFixture(t)
		userID := id.UserID(uuid.New())

		require.NoError(t, f.identities.CreateUser(ctx, identity.User{ID: userID, Username: "alice"}))

		profile, err := f.profiles.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, profile.UserID)
		assert.Empty(t, profile.Phone)
		assert.Empty(t, profile.AboutMe)
	})

	t.Run("saving bumps updated_at and keeps created_at", func(t *testing.T) {
		f := newFixture(t)
		userID := id.UserID(uuid.New())
		user := identity.User{ID: userID, Username: "alice"}

		require.NoError(t, f.identities.CreateUser(ctx, user))
		before, err := f.profiles.FindByUser(ctx, userID)
		require.NoError(t, err)

		f.advance(time.Hour)
		require.NoError(t, f.identities.SaveUser(ctx, user))

		after, err := f.profiles.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, before.ID, after.ID, "save must not replace the profile")
		assert.Equal(t, before.CreatedAt, after.CreatedAt)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	})

	t.Run("redelivered created event leaves the original profile alone", func(t *testing.T) {
		f := newFixture(t)
		userID := id.UserID(uuid.New())

		require.NoError(t, f.identities.CreateUser(ctx, identity.User{ID: userID, Username: "alice"}))
		original, err := f.profiles.FindByUser(ctx, userID)
		require.NoError(t, err)

		require.NoError(t, f.identities.Emit(ctx, identity.Event{Kind: identity.EventCreated, UserID: userID}))

		after, err := f.profiles.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, original.ID, after.ID)
	})

	t.Run("saved event arriving before created self-heals", func(t *testing.T) {
		f := newFixture(t)
		userID := id.UserID(uuid.New())

		require.NoError(t, f.identities.Emit(ctx, identity.Event{Kind: identity.EventSaved, UserID: userID}))

		profile, err := f.profiles.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, profile.UserID)
	})

	t.Run("deleting a user sweeps profile, notifications and activity", func(t *testing.T) {
		f := newFixture(t)
		userID := id.UserID(uuid.New())
		user := identity.User{ID: userID, Username: "alice"}

		require.NoError(t, f.identities.CreateUser(ctx, user))
		require.NoError(t, f.notifications.Create(ctx, notificationModels.NewNotification(
			id.NewNotificationID(), userID,
			&notificationModels.CreateRequest{Title: "Welcome", Message: "Hello"}, f.now)))
		require.NoError(t, f.activities.Append(ctx, activityModels.NewActivity(
			id.NewActivityID(), userID,
			&activityModels.RecordRequest{ActivityType: "login"}, f.now)))

		require.NoError(t, f.identities.DeleteUser(ctx, userID))

		_, err := f.profiles.FindByUser(ctx, userID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)

		remaining, err := f.notifications.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, remaining)

		trail, err := f.activities.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, trail)
	})

	t.Run("full account lifecycle", func(t *testing.T) {
		f := newFixture(t)
		userID := id.UserID(uuid.New())
		user := identity.User{ID: userID, Username: "alice", FirstName: "Alice", LastName: "Larsen"}

		// Sign-up day.
		require.NoError(t, f.identities.CreateUser(ctx, user))
		view, err := f.coordinator.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Alice Larsen", view.FullName)

		// Profile edits the next day.
		f.advance(24 * time.Hour)
		city := "Bergen"
		view, err = f.coordinator.Update(ctx, userID, &profileModels.UpdateRequest{City: &city})
		require.NoError(t, err)
		assert.Equal(t, city, view.City)

		// Identity-side save keeps the edits.
		f.advance(time.Hour)
		require.NoError(t, f.identities.SaveUser(ctx, user))
		view, err = f.coordinator.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, city, view.City)

		// Account removal wipes everything.
		require.NoError(t, f.identities.DeleteUser(ctx, userID))
		_, err = f.profiles.FindByUser(ctx, userID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
