// Package admin serves the admin console endpoints. Notifications can be sent
// and inspected per user; activity is strictly read-only, matching the audit
// contract; user deletion drives the coordinator cascade.
package admin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	activityModels "pulseboard/internal/activity/models"
	notificationModels "pulseboard/internal/notification/models"
	"pulseboard/internal/platform/observability"
	id "pulseboard/pkg/domain"
	dErrors "pulseboard/pkg/domain-errors"
	"pulseboard/pkg/platform/httputil"
)

// NotificationService is the slice of the notification service the admin
// console uses.
type NotificationService interface {
	Create(ctx context.Context, userID id.UserID, req *notificationModels.CreateRequest) (*notificationModels.Notification, error)
	ListForUser(ctx context.Context, userID id.UserID) ([]*notificationModels.Notification, error)
}

// ActivityService lists a user's audit trail. Activity has no write surface
// here; records only enter through the recorder.
type ActivityService interface {
	ListForUser(ctx context.Context, userID id.UserID) ([]*activityModels.View, error)
}

// UserDeleter cascades a user's removal. The coordinator implements it.
type UserDeleter interface {
	OnUserDeleted(ctx context.Context, userID id.UserID) error
}

// Handler wires the admin console routes.
type Handler struct {
	notifications NotificationService
	activities    ActivityService
	users         UserDeleter
	logger        *slog.Logger
}

func New(notifications NotificationService, activities ActivityService, users UserDeleter, logger *slog.Logger) *Handler {
	return &Handler{
		notifications: notifications,
		activities:    activities,
		users:         users,
		logger:        logger,
	}
}

// Register mounts the admin routes. The caller applies the admin token
// middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/users/{userID}/notifications", h.handleSendNotification)
	r.Get("/admin/users/{userID}/notifications", h.handleListNotifications)
	r.Get("/admin/users/{userID}/activity", h.handleListActivity)
	r.Delete("/admin/users/{userID}", h.handleDeleteUser)
}

func (h *Handler) handleSendNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req notificationModels.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	n, err := h.notifications.Create(ctx, userID, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	observability.LogAudit(ctx, h.logger, "admin_notification_sent",
		"user_id", userID.String(),
		"notification_id", n.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, n)
}

func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out, err := h.notifications.ListForUser(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if out == nil {
		out = []*notificationModels.Notification{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"notifications": out})
}

func (h *Handler) handleListActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out, err := h.activities.ListForUser(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if out == nil {
		out = []*activityModels.View{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"activities": out})
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.users.OnUserDeleted(ctx, userID); err != nil {
		h.logger.ErrorContext(ctx, "user deletion cascade failed",
			"user_id", userID.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	observability.LogAudit(ctx, h.logger, "admin_user_deleted", "user_id", userID.String())
	w.WriteHeader(http.StatusNoContent)
}
