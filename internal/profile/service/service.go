package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pulseboard/internal/identity"
	"pulseboard/internal/platform/metrics"
	"pulseboard/internal/profile/models"
	id "pulseboard/pkg/domain"
	dErrors "pulseboard/pkg/domain-errors"
	"pulseboard/pkg/platform/sentinel"
)

// ProfileStore is the persistence the coordinator drives. Create must enforce
// the one-profile-per-user uniqueness constraint and return
// sentinel.ErrConflict when it is violated; that constraint, not application
// locking, is what serializes concurrent lifecycle handlers for one user.
type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByUser(ctx context.Context, userID id.UserID) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	DeleteByUser(ctx context.Context, userID id.UserID) error
}

// NotificationPurger removes a user's notifications during the deletion cascade.
type NotificationPurger interface {
	DeleteByUser(ctx context.Context, userID id.UserID) error
}

// ActivityPurger removes a user's activity records during the deletion cascade.
type ActivityPurger interface {
	PurgeForUser(ctx context.Context, userID id.UserID) error
}

// Service is the consistency coordinator: it subscribes to identity lifecycle
// events and guarantees that every surviving user has exactly one profile,
// regardless of event duplication or ordering. Handlers are written
// get-or-create, never assume-exists.
type Service struct {
	profiles      ProfileStore
	reader        identity.Reader
	notifications NotificationPurger
	activities    ActivityPurger
	logger        *slog.Logger
	metrics       *metrics.Metrics
	clock         func() time.Time
	tracer        trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock sets the time source for testability.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithCascade wires the stores the user-deletion cascade sweeps.
func WithCascade(notifications NotificationPurger, activities ActivityPurger) Option {
	return func(s *Service) {
		s.notifications = notifications
		s.activities = activities
	}
}

// New constructs the coordinator.
func New(profiles ProfileStore, reader identity.Reader, opts ...Option) *Service {
	s := &Service{
		profiles: profiles,
		reader:   reader,
		logger:   slog.Default(),
		clock:    time.Now,
		tracer:   otel.Tracer("pulseboard/internal/profile"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers the lifecycle handlers on an event source. The
// subscription is explicit so tests can inject a fake source that fires
// synchronously.
func (s *Service) Subscribe(source identity.EventSource) {
	source.Subscribe(s)
}

// HandleIdentityEvent dispatches one lifecycle event.
func (s *Service) HandleIdentityEvent(ctx context.Context, event identity.Event) error {
	switch event.Kind {
	case identity.EventCreated:
		return s.OnUserCreated(ctx, event.UserID)
	case identity.EventSaved:
		return s.OnUserSaved(ctx, event.UserID)
	case identity.EventDeleted:
		return s.OnUserDeleted(ctx, event.UserID)
	default:
		s.logger.WarnContext(ctx, "ignoring unknown lifecycle event",
			"event", string(event.Kind),
			"user_id", event.UserID.String(),
		)
		return nil
	}
}

// OnUserCreated creates the empty profile for a new user. Redelivered create
// events hit the uniqueness constraint and are absorbed as no-ops.
func (s *Service) OnUserCreated(ctx context.Context, userID id.UserID) error {
	ctx, span := s.tracer.Start(ctx, "coordinator.on_user_created",
		trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()

	if userID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}

	now := s.clock()
	profile := models.NewProfile(id.NewProfileID(), userID, now)
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Duplicate delivery; the invariant already holds.
			s.logger.DebugContext(ctx, "profile already exists, ignoring duplicate create",
				"user_id", userID.String(),
			)
			s.countDuplicate()
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create profile")
	}

	s.countCreated()
	return nil
}

// OnUserSaved touches the user's profile so derived fields propagate. When the
// profile is missing (create event lost, reordered, or the row removed
// out-of-band) it self-heals by creating one instead of failing.
func (s *Service) OnUserSaved(ctx context.Context, userID id.UserID) error {
	ctx, span := s.tracer.Start(ctx, "coordinator.on_user_saved",
		trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()

	if userID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}

	profile, err := s.profiles.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return s.selfHeal(ctx, userID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}

	profile.Touch(s.clock())
	if err := s.profiles.Update(ctx, profile); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Deleted between find and update; the self-heal path covers it.
			return s.selfHeal(ctx, userID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
	}
	return nil
}

func (s *Service) selfHeal(ctx context.Context, userID id.UserID) error {
	now := s.clock()
	profile := models.NewProfile(id.NewProfileID(), userID, now)
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// A concurrent handler won the create race; invariant holds.
			s.countDuplicate()
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to recreate missing profile")
	}

	s.logger.WarnContext(ctx, "profile missing on save, recreated",
		"user_id", userID.String(),
	)
	s.countSelfHeal()
	return nil
}

// OnUserDeleted cascades the user's removal through notifications, activity
// records, and finally the profile. Redelivery finds nothing and no-ops.
func (s *Service) OnUserDeleted(ctx context.Context, userID id.UserID) error {
	ctx, span := s.tracer.Start(ctx, "coordinator.on_user_deleted",
		trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()

	if userID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}

	if s.notifications != nil {
		if err := s.notifications.DeleteByUser(ctx, userID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user notifications")
		}
	}
	if s.activities != nil {
		if err := s.activities.PurgeForUser(ctx, userID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user activity")
		}
	}

	if err := s.profiles.DeleteByUser(ctx, userID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete profile")
	}

	s.countDeleted()
	s.logger.InfoContext(ctx, "user data cascade completed", "user_id", userID.String())
	return nil
}

// Get returns the profile view for the presentation layer, with FullName
// derived from the identity record.
func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.View, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}

	profile, err := s.profiles.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}

	user, err := s.reader.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity record")
	}

	return &models.View{
		Profile:  *profile,
		Username: user.Username,
		FullName: models.FullName(user.FirstName, user.LastName, user.Username),
	}, nil
}

// Update applies self-service profile edits from the profile page.
func (s *Service) Update(ctx context.Context, userID id.UserID, req *models.UpdateRequest) (*models.View, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}

	now := s.clock()
	req.Normalize()
	if err := req.Validate(now); err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}

	req.Apply(profile, now)
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
	}

	return s.Get(ctx, userID)
}

func (s *Service) countCreated() {
	if s.metrics != nil {
		s.metrics.ProfilesCreated.Inc()
	}
}

func (s *Service) countDuplicate() {
	if s.metrics != nil {
		s.metrics.ProfileCreateDuplicates.Inc()
	}
}

func (s *Service) countSelfHeal() {
	if s.metrics != nil {
		s.metrics.ProfileSelfHeals.Inc()
	}
}

func (s *Service) countDeleted() {
	if s.metrics != nil {
		s.metrics.ProfilesDeleted.Inc()
	}
}
