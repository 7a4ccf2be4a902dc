package service

import (
	"context"
	"log/slog"
	"time"

	"pulseboard/internal/activity/models"
	"pulseboard/internal/platform/metrics"
	id "pulseboard/pkg/domain"
	dErrors "pulseboard/pkg/domain-errors"
	"pulseboard/pkg/requestcontext"
)

// Store is the append-only persistence contract. There is no update or
// single-record delete; PurgeForUser exists only for the user-deletion
// cascade.
type Store interface {
	Append(ctx context.Context, a *models.Activity) error
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Activity, error)
	PurgeForUser(ctx context.Context, userID id.UserID) error
}

// Service records and lists user activity.
type Service struct {
	store   Store
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

// Record validates and appends one activity record. IP address and user agent
// default from the request context (set by the metadata middleware) when the
// caller leaves them empty.
func (s *Service) Record(ctx context.Context, userID id.UserID, req *models.RecordRequest) (*models.Activity, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}

	if req.IPAddress == "" {
		req.IPAddress = requestcontext.ClientIP(ctx)
	}
	if req.UserAgent == "" {
		req.UserAgent = requestcontext.UserAgent(ctx)
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a := models.NewActivity(id.NewActivityID(), userID, req, s.clock())
	if err := s.store.Append(ctx, a); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record activity")
	}

	if s.metrics != nil {
		s.metrics.ActivitiesRecorded.Inc()
	}
	return a, nil
}

// ListForUser returns the user's activity newest-first, enriched with a
// parsed client description.
func (s *Service) ListForUser(ctx context.Context, userID id.UserID) ([]*models.View, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}

	records, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list activity")
	}

	out := make([]*models.View, 0, len(records))
	for _, a := range records {
		out = append(out, &models.View{
			Activity: *a,
			Client:   models.DescribeClient(a.UserAgent),
		})
	}
	return out, nil
}
