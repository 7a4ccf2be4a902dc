package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pulseboard/internal/identity"
	"pulseboard/internal/profile/models"
	"pulseboard/internal/profile/service/mocks"
	id "pulseboard/pkg/domain"
	dErrors "pulseboard/pkg/domain-errors"
	"pulseboard/pkg/platform/sentinel"
)

// =============================================================================
// Coordinator Test Suite
// =============================================================================
// The coordinator's contract is behavioral: which store calls happen for which
// lifecycle event, and which store failures are absorbed versus surfaced.
// Mocks pin that down call by call; the end-to-end flows against real stores
// live in lifecycle_flow_test.go.

type CoordinatorSuite struct {
	suite.Suite
	ctrl              *gomock.Controller
	mockProfiles      *mocks.MockProfileStore
	mockNotifications *mocks.MockNotificationPurger
	mockActivities    *mocks.MockActivityPurger
	reader            *identity.InMemoryStore
	now               time.Time
	service           *Service
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockProfiles = mocks.NewMockProfileStore(s.ctrl)
	s.mockNotifications = mocks.NewMockNotificationPurger(s.ctrl)
	s.mockActivities = mocks.NewMockActivityPurger(s.ctrl)
	s.reader = identity.NewInMemoryStore()
	s.now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	s.service = New(s.mockProfiles, s.reader,
		WithClock(func() time.Time { return s.now }),
		WithCascade(s.mockNotifications, s.mockActivities),
	)
}

// =============================================================================
// Created Event
// =============================================================================

func (s *CoordinatorSuite) TestOnUserCreated() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	s.Run("creates empty profile stamped with the clock", func() {
		s.mockProfiles.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *models.Profile) error {
				s.Equal(userID, p.UserID)
				s.False(p.ID.IsNil())
				s.Equal(s.now, p.CreatedAt)
				s.Equal(s.now, p.UpdatedAt)
				s.Empty(p.Phone)
				return nil
			})

		s.NoError(s.service.OnUserCreated(ctx, userID))
	})

	s.Run("duplicate delivery is a no-op", func() {
		s.mockProfiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		s.NoError(s.service.OnUserCreated(ctx, userID))
	})

	s.Run("store failure surfaces as internal", func() {
		s.mockProfiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		err := s.service.OnUserCreated(ctx, userID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("nil user id rejected", func() {
		err := s.service.OnUserCreated(ctx, id.UserID(uuid.Nil))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

// =============================================================================
// Saved Event
// =============================================================================

func (s *CoordinatorSuite) TestOnUserSaved() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	created := s.now.Add(-24 * time.Hour)

	existing := func() *models.Profile {
		return &models.Profile{
			ID:        id.NewProfileID(),
			UserID:    userID,
			CreatedAt: created,
			UpdatedAt: created,
		}
	}

	s.Run("touches the existing profile", func() {
		s.mockProfiles.EXPECT().FindByUser(gomock.Any(), userID).Return(existing(), nil)
		s.mockProfiles.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *models.Profile) error {
				s.Equal(created, p.CreatedAt)
				s.Equal(s.now, p.UpdatedAt)
				return nil
			})

		s.NoError(s.service.OnUserSaved(ctx, userID))
	})

	s.Run("missing profile is recreated instead of failing", func() {
		s.mockProfiles.EXPECT().FindByUser(gomock.Any(), userID).Return(nil, sentinel.ErrNotFound)
		s.mockProfiles.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *models.Profile) error {
				s.Equal(userID, p.UserID)
				return nil
			})

		s.NoError(s.service.OnUserSaved(ctx, userID))
	})

	s.Run("losing the recreate race is a no-op", func() {
		s.mockProfiles.EXPECT().FindByUser(gomock.Any(), userID).Return(nil, sentinel.ErrNotFound)
		s.mockProfiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		s.NoError(s.service.OnUserSaved(ctx, userID))
	})

	s.Run("profile deleted between find and update self-heals", func() {
		s.mockProfiles.EXPECT().FindByUser(gomock.Any(), userID).Return(existing(), nil)
		s.mockProfiles.EXPECT().Update(gomock.Any(), gomock.Any()).Return(sentinel.ErrNotFound)
		s.mockProfiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		s.NoError(s.service.OnUserSaved(ctx, userID))
	})

	s.Run("lookup failure surfaces as internal", func() {
		s.mockProfiles.EXPECT().FindByUser(gomock.Any(), userID).Return(nil, errors.New("db down"))

		err := s.service.OnUserSaved(ctx, userID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

// =============================================================================
// Deleted Event (cascade)
// =============================================================================

func (s *CoordinatorSuite) TestOnUserDeleted() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	s.Run("sweeps notifications and activity before the profile", func() {
		gomock.InOrder(
			s.mockNotifications.EXPECT().DeleteByUser(gomock.Any(), userID).Return(nil),
			s.mockActivities.EXPECT().PurgeForUser(gomock.Any(), userID).Return(nil),
			s.mockProfiles.EXPECT().DeleteByUser(gomock.Any(), userID).Return(nil),
		)

		s.NoError(s.service.OnUserDeleted(ctx, userID))
	})

	s.Run("redelivery finds nothing and no-ops", func() {
		s.mockNotifications.EXPECT().DeleteByUser(gomock.Any(), userID).Return(nil)
		s.mockActivities.EXPECT().PurgeForUser(gomock.Any(), userID).Return(nil)
		s.mockProfiles.EXPECT().DeleteByUser(gomock.Any(), userID).Return(sentinel.ErrNotFound)

		s.NoError(s.service.OnUserDeleted(ctx, userID))
	})

	s.Run("notification sweep failure stops the cascade", func() {
		s.mockNotifications.EXPECT().DeleteByUser(gomock.Any(), userID).Return(errors.New("db down"))

		err := s.service.OnUserDeleted(ctx, userID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

// =============================================================================
// Read Model
// =============================================================================

func (s *CoordinatorSuite) TestGet() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	profile := &models.Profile{ID: id.NewProfileID(), UserID: userID, City: "Oslo"}

	s.Run("derives full name from the identity record", func() {
		s.Require().NoError(s.reader.CreateUser(ctx, identity.User{
			ID: userID, Username: "alice", FirstName: "Alice", LastName: "Larsen",
		}))
		s.mockProfiles.EXPECT().FindByUser(gomock.Any(), userID).Return(profile, nil)

		view, err := s.service.Get(ctx, userID)
		s.Require().NoError(err)
		s.Equal("alice", view.Username)
		s.Equal("Alice Larsen", view.FullName)
		s.Equal("Oslo", view.City)
	})

	s.Run("falls back to username when name parts are blank", func() {
		bareID := id.UserID(uuid.New())
		s.Require().NoError(s.reader.CreateUser(ctx, identity.User{ID: bareID, Username: "bob"}))
		s.mockProfiles.EXPECT().FindByUser(gomock.Any(), bareID).
			Return(&models.Profile{ID: id.NewProfileID(), UserID: bareID}, nil)

		view, err := s.service.Get(ctx, bareID)
		s.Require().NoError(err)
		s.Equal("bob", view.FullName)
	})

	s.Run("missing profile returns not found", func() {
		s.mockProfiles.EXPECT().FindByUser(gomock.Any(), userID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Get(ctx, userID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown identity returns not found", func() {
		ghostID := id.UserID(uuid.New())
		s.mockProfiles.EXPECT().FindByUser(gomock.Any(), ghostID).
			Return(&models.Profile{ID: id.NewProfileID(), UserID: ghostID}, nil)

		_, err := s.service.Get(ctx, ghostID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *CoordinatorSuite) TestUpdate() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	strPtr := func(v string) *string { return &v }

	s.Run("applies provided fields and returns the fresh view", func() {
		s.Require().NoError(s.reader.CreateUser(ctx, identity.User{ID: userID, Username: "alice"}))
		created := s.now.Add(-48 * time.Hour)
		stored := &models.Profile{ID: id.NewProfileID(), UserID: userID, CreatedAt: created, UpdatedAt: created}

		s.mockProfiles.EXPECT().FindByUser(gomock.Any(), userID).Return(stored, nil)
		var updated models.Profile
		s.mockProfiles.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *models.Profile) error {
				updated = *p
				return nil
			})
		s.mockProfiles.EXPECT().FindByUser(gomock.Any(), userID).
			DoAndReturn(func(context.Context, id.UserID) (*models.Profile, error) {
				clone := updated
				return &clone, nil
			})

		view, err := s.service.Update(ctx, userID, &models.UpdateRequest{
			City:  strPtr("  Bergen "),
			Phone: strPtr("+47 555 0100"),
		})
		s.Require().NoError(err)
		s.Equal("Bergen", view.City)
		s.Equal("+47 555 0100", view.Phone)
		s.Equal(created, view.CreatedAt)
		s.Equal(s.now, view.UpdatedAt)
	})

	s.Run("validation failure touches nothing", func() {
		_, err := s.service.Update(ctx, userID, &models.UpdateRequest{
			PictureURL: strPtr("not a url"),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("future date of birth rejected", func() {
		future := s.now.AddDate(1, 0, 0).Format("2006-01-02")
		_, err := s.service.Update(ctx, userID, &models.UpdateRequest{DateOfBirth: &future})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("missing profile returns not found", func() {
		s.mockProfiles.EXPECT().FindByUser(gomock.Any(), userID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Update(ctx, userID, &models.UpdateRequest{City: strPtr("Oslo")})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// =============================================================================
// Event Dispatch
// =============================================================================

func (s *CoordinatorSuite) TestHandleIdentityEvent() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	s.Run("routes created events", func() {
		s.mockProfiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.NoError(s.service.HandleIdentityEvent(ctx, identity.Event{Kind: identity.EventCreated, UserID: userID}))
	})

	s.Run("unknown kinds are logged and dropped", func() {
		s.NoError(s.service.HandleIdentityEvent(ctx, identity.Event{Kind: "exploded", UserID: userID}))
	})
}
