package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ProfilesCreated         prometheus.Counter
	ProfileCreateDuplicates prometheus.Counter
	ProfileSelfHeals        prometheus.Counter
	ProfilesDeleted         prometheus.Counter
	NotificationsCreated    prometheus.Counter
	ActivitiesRecorded      prometheus.Counter
	RequestDuration         *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ProfilesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulseboard_profiles_created_total",
			Help: "Total number of profiles created by the coordinator",
		}),
		ProfileCreateDuplicates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulseboard_profile_create_duplicate_total",
			Help: "Duplicate profile-create attempts absorbed by the uniqueness constraint",
		}),
		ProfileSelfHeals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulseboard_profile_self_heal_total",
			Help: "Profiles recreated by the save handler because the create event was missed",
		}),
		ProfilesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulseboard_profiles_deleted_total",
			Help: "Profiles removed by the user-deletion cascade",
		}),
		NotificationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulseboard_notifications_created_total",
			Help: "Total number of notifications created",
		}),
		ActivitiesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulseboard_activities_recorded_total",
			Help: "Total number of user activity records appended",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pulseboard_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
