package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/notification/models"
	id "pulseboard/pkg/domain"
	dErrors "pulseboard/pkg/domain-errors"
	"pulseboard/pkg/platform/httputil"
	"pulseboard/pkg/requestcontext"
)

// Service defines the notification operations exposed to the presentation
// layer: list, unread count, read-flag mutation, and delete. Creation happens
// through application logic and the admin console, not here.
type Service interface {
	ListForUser(ctx context.Context, userID id.UserID) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, userID id.UserID) (int, error)
	MarkRead(ctx context.Context, userID id.UserID, notificationID id.NotificationID) error
	MarkAllRead(ctx context.Context, userID id.UserID) error
	Delete(ctx context.Context, userID id.UserID, notificationID id.NotificationID) error
}

// Handler serves the authenticated notification endpoints.
type Handler struct {
	notifications Service
	logger        *slog.Logger
}

func New(notifications Service, logger *slog.Logger) *Handler {
	return &Handler{notifications: notifications, logger: logger}
}

// Register mounts the notification routes. The caller applies auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me/notifications", h.handleList)
	r.Get("/me/notifications/unread-count", h.handleUnreadCount)
	r.Post("/me/notifications/{notificationID}/read", h.handleMarkRead)
	r.Post("/me/notifications/read-all", h.handleMarkAllRead)
	r.Delete("/me/notifications/{notificationID}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)

	out, err := h.notifications.ListForUser(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if out == nil {
		out = []*models.Notification{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"notifications": out})
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	count, err := h.notifications.UnreadCount(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	notificationID, err := id.ParseNotificationID(chi.URLParam(r, "notificationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid notification id"))
		return
	}

	if err := h.notifications.MarkRead(ctx, requestcontext.UserID(ctx), notificationID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.notifications.MarkAllRead(ctx, requestcontext.UserID(ctx)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	notificationID, err := id.ParseNotificationID(chi.URLParam(r, "notificationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid notification id"))
		return
	}

	if err := h.notifications.Delete(ctx, requestcontext.UserID(ctx), notificationID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
