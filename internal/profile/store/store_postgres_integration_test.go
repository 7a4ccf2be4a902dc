//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	activitymodels "pulseboard/internal/activity/models"
	activitystore "pulseboard/internal/activity/store"
	notificationmodels "pulseboard/internal/notification/models"
	notificationstore "pulseboard/internal/notification/store"
	"pulseboard/internal/profile/models"
	"pulseboard/internal/profile/store"
	id "pulseboard/pkg/domain"
	"pulseboard/pkg/platform/sentinel"
	"pulseboard/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	// profiles cascades to notifications and user_activities
	err := s.postgres.TruncateTables(ctx, "profiles")
	s.Require().NoError(err)
}

func newTestProfile(userID id.UserID) *models.Profile {
	return models.NewProfile(id.NewProfileID(), userID, time.Now().UTC().Truncate(time.Microsecond))
}

// TestCreateAndFind verifies a full round trip through the profiles table.
func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	userID := id.NewUserID()

	dob := time.Date(1991, 6, 2, 0, 0, 0, 0, time.UTC)
	p := newTestProfile(userID)
	p.Phone = "+47 555 0101"
	p.City = "Oslo"
	p.Country = "Norway"
	p.AboutMe = "likes dashboards"
	p.TwitterURL = "https://twitter.com/someone"
	p.DateOfBirth = &dob
	p.Gender = models.GenderFemale

	s.Require().NoError(s.store.Create(ctx, p))

	found, err := s.store.FindByUser(ctx, userID)
	s.Require().NoError(err)
	s.Equal(p.ID, found.ID)
	s.Equal(p.UserID, found.UserID)
	s.Equal("Oslo", found.City)
	s.Equal("Norway", found.Country)
	s.Equal("likes dashboards", found.AboutMe)
	s.Equal("https://twitter.com/someone", found.TwitterURL)
	s.Equal(models.GenderFemale, found.Gender)
	s.Require().NotNil(found.DateOfBirth)
	s.True(dob.Equal(*found.DateOfBirth))
	s.WithinDuration(p.CreatedAt, found.CreatedAt, time.Millisecond)
}

// TestEmptyOptionalColumns verifies NULL date_of_birth and gender survive the
// round trip as zero values.
func (s *PostgresStoreSuite) TestEmptyOptionalColumns() {
	ctx := context.Background()
	userID := id.NewUserID()

	s.Require().NoError(s.store.Create(ctx, newTestProfile(userID)))

	found, err := s.store.FindByUser(ctx, userID)
	s.Require().NoError(err)
	s.Nil(found.DateOfBirth)
	s.Equal(models.Gender(""), found.Gender)
	s.Empty(found.Phone)
}

// TestConcurrentDuplicateCreate verifies that concurrent creation attempts for
// the same user result in exactly one profile. The UNIQUE index on user_id is
// the arbiter.
func (s *PostgresStoreSuite) TestConcurrentDuplicateCreate() {
	ctx := context.Background()
	userID := id.NewUserID()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := s.store.Create(ctx, newTestProfile(userID))
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	// Exactly one should succeed
	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	// All others should get conflict error
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict error")

	found, err := s.store.FindByUser(ctx, userID)
	s.Require().NoError(err)
	s.Equal(userID, found.UserID)
}

// TestUpdate verifies field updates persist and stale profile IDs are rejected.
func (s *PostgresStoreSuite) TestUpdate() {
	ctx := context.Background()
	userID := id.NewUserID()

	p := newTestProfile(userID)
	s.Require().NoError(s.store.Create(ctx, p))

	p.City = "Bergen"
	p.AboutMe = "moved north"
	p.UpdatedAt = p.UpdatedAt.Add(time.Minute)
	s.Require().NoError(s.store.Update(ctx, p))

	found, err := s.store.FindByUser(ctx, userID)
	s.Require().NoError(err)
	s.Equal("Bergen", found.City)
	s.Equal("moved north", found.AboutMe)

	// A profile row that was replaced no longer matches on id
	stale := newTestProfile(userID)
	err = s.store.Update(ctx, stale)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestNotFoundError verifies proper error handling for non-existent users.
func (s *PostgresStoreSuite) TestNotFoundError() {
	ctx := context.Background()

	_, err := s.store.FindByUser(ctx, id.NewUserID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	err = s.store.Update(ctx, newTestProfile(id.NewUserID()))
	s.ErrorIs(err, sentinel.ErrNotFound)

	err = s.store.DeleteByUser(ctx, id.NewUserID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestDeleteCascades verifies the schema-level cascade: removing a profile row
// sweeps the user's notifications and activity trail with it.
func (s *PostgresStoreSuite) TestDeleteCascades() {
	ctx := context.Background()
	userID := id.NewUserID()
	now := time.Now().UTC()

	s.Require().NoError(s.store.Create(ctx, newTestProfile(userID)))

	notifications := notificationstore.NewPostgres(s.postgres.DB)
	req := &notificationmodels.CreateRequest{Title: "Welcome", Message: "hello"}
	s.Require().NoError(req.Validate())
	s.Require().NoError(notifications.Create(ctx,
		notificationmodels.NewNotification(id.NewNotificationID(), userID, req, now)))

	activities := activitystore.NewPostgres(s.postgres.DB)
	record := &activitymodels.RecordRequest{ActivityType: "login"}
	s.Require().NoError(record.Validate())
	s.Require().NoError(activities.Append(ctx,
		activitymodels.NewActivity(id.NewActivityID(), userID, record, now)))

	s.Require().NoError(s.store.DeleteByUser(ctx, userID))

	var notificationRows, activityRows int
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID.String()).Scan(&notificationRows))
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_activities WHERE user_id = $1`, userID.String()).Scan(&activityRows))
	s.Zero(notificationRows)
	s.Zero(activityRows)

	_, err := s.store.FindByUser(ctx, userID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
