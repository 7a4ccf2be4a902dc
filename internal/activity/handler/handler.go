package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/activity/models"
	id "pulseboard/pkg/domain"
	"pulseboard/pkg/platform/httputil"
	"pulseboard/pkg/requestcontext"
)

// Service exposes the activity log to the presentation layer. Listing only:
// the audit trail has no mutation surface here, and Record stays internal to
// application logic.
type Service interface {
	ListForUser(ctx context.Context, userID id.UserID) ([]*models.View, error)
}

// Handler serves the authenticated activity page.
type Handler struct {
	activities Service
	logger     *slog.Logger
}

func New(activities Service, logger *slog.Logger) *Handler {
	return &Handler{activities: activities, logger: logger}
}

// Register mounts the activity routes. The caller applies auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me/activity", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.activities.ListForUser(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if out == nil {
		out = []*models.View{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"activities": out})
}
