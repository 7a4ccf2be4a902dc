package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pulseboard/internal/notification/models"
	"pulseboard/internal/platform/metrics"
	id "pulseboard/pkg/domain"
	dErrors "pulseboard/pkg/domain-errors"
	"pulseboard/pkg/platform/sentinel"
)

// Store is the notification persistence contract. MarkRead must be idempotent
// at the row level; no store operation may change title, message, type, icon,
// or url after creation.
type Store interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Notification, error)
	FindByID(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error)
	MarkRead(ctx context.Context, notificationID id.NotificationID) error
	MarkAllRead(ctx context.Context, userID id.UserID) error
	Delete(ctx context.Context, notificationID id.NotificationID) error
	DeleteByUser(ctx context.Context, userID id.UserID) error
	CountUnread(ctx context.Context, userID id.UserID) (int, error)
}

// UnreadCache caches per-user unread counts. A nil cache disables caching.
type UnreadCache interface {
	Get(ctx context.Context, userID id.UserID) (int, error)
	Set(ctx context.Context, userID id.UserID, count int) error
	Invalidate(ctx context.Context, userID id.UserID) error
}

// Service orchestrates notification reads and the only permitted mutations:
// creating, flipping the read flag, and deleting.
type Service struct {
	store   Store
	cache   UnreadCache
	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithUnreadCache(cache UnreadCache) Option {
	return func(s *Service) { s.cache = cache }
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and persists a new notification for the user.
func (s *Service) Create(ctx context.Context, userID id.UserID, req *models.CreateRequest) (*models.Notification, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	n := models.NewNotification(id.NewNotificationID(), userID, req, s.clock())
	if err := s.store.Create(ctx, n); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create notification")
	}

	s.invalidateUnread(ctx, userID)
	if s.metrics != nil {
		s.metrics.NotificationsCreated.Inc()
	}
	return n, nil
}

// ListForUser returns the user's notifications newest-first.
func (s *Service) ListForUser(ctx context.Context, userID id.UserID) ([]*models.Notification, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}
	out, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return out, nil
}

// MarkRead flips the read flag on the user's notification. Calling it on an
// already-read notification succeeds without effect.
func (s *Service) MarkRead(ctx context.Context, userID id.UserID, notificationID id.NotificationID) error {
	if _, err := s.findOwned(ctx, userID, notificationID); err != nil {
		return err
	}
	if err := s.store.MarkRead(ctx, notificationID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark notification read")
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// MarkAllRead flips the read flag on every unread notification for the user.
func (s *Service) MarkAllRead(ctx context.Context, userID id.UserID) error {
	if userID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}
	if err := s.store.MarkAllRead(ctx, userID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark notifications read")
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// Delete removes the user's notification.
func (s *Service) Delete(ctx context.Context, userID id.UserID, notificationID id.NotificationID) error {
	if _, err := s.findOwned(ctx, userID, notificationID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, notificationID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete notification")
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// UnreadCount returns the unread badge count, preferring the cache. Cache
// trouble is logged and absorbed; the store is the source of truth.
func (s *Service) UnreadCount(ctx context.Context, userID id.UserID) (int, error) {
	if userID.IsNil() {
		return 0, dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}

	if s.cache != nil {
		count, err := s.cache.Get(ctx, userID)
		if err == nil {
			return count, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "unread cache read failed", "error", err)
		}
	}

	count, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count unread notifications")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, count); err != nil {
			s.logger.WarnContext(ctx, "unread cache write failed", "error", err)
		}
	}
	return count, nil
}

// findOwned loads the notification and hides other users' records behind
// NotFound rather than Forbidden, so IDs can't be probed.
func (s *Service) findOwned(ctx context.Context, userID id.UserID, notificationID id.NotificationID) (*models.Notification, error) {
	if userID.IsNil() || notificationID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "notification ID required")
	}
	n, err := s.store.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load notification")
	}
	if n.UserID != userID {
		return nil, dErrors.New(dErrors.CodeNotFound, "notification not found")
	}
	return n, nil
}

func (s *Service) invalidateUnread(ctx context.Context, userID id.UserID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "unread cache invalidation failed",
			"user_id", userID.String(),
			"error", err,
		)
	}
}
