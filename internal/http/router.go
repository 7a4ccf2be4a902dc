// Package httpapi composes the HTTP surface: authenticated dashboard routes,
// the token-guarded admin console, and the operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	activityHandler "pulseboard/internal/activity/handler"
	adminHandler "pulseboard/internal/admin"
	notificationHandler "pulseboard/internal/notification/handler"
	"pulseboard/internal/platform/metrics"
	"pulseboard/internal/platform/middleware"
	profileHandler "pulseboard/internal/profile/handler"
)

// Deps carries everything the router composes. Handlers stay ignorant of
// middleware ordering; it is decided here once.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Validator      middleware.TokenValidator
	AdminTokenHash string
	RequestTimeout time.Duration

	Profiles      *profileHandler.Handler
	Notifications *notificationHandler.Handler
	Activities    *activityHandler.Handler
	Admin         *adminHandler.Handler
}

// NewRouter wires all public endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Latency(deps.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Authenticated dashboard surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(deps.Validator, deps.Logger))
		deps.Profiles.Register(r)
		deps.Notifications.Register(r)
		deps.Activities.Register(r)
	})

	// Admin console.
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAdminToken(deps.AdminTokenHash, deps.Logger))
		deps.Admin.Register(r)
	})

	return r
}
