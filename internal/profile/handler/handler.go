package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/profile/models"
	id "pulseboard/pkg/domain"
	dErrors "pulseboard/pkg/domain-errors"
	"pulseboard/pkg/platform/httputil"
	"pulseboard/pkg/requestcontext"
)

// Service defines the profile operations the presentation layer may call.
// Profile creation is deliberately absent: existence is guaranteed by the
// coordinator, never by a request.
type Service interface {
	Get(ctx context.Context, userID id.UserID) (*models.View, error)
	Update(ctx context.Context, userID id.UserID, req *models.UpdateRequest) (*models.View, error)
}

// Handler serves the authenticated profile page endpoints.
type Handler struct {
	profiles Service
	logger   *slog.Logger
}

func New(profiles Service, logger *slog.Logger) *Handler {
	return &Handler{profiles: profiles, logger: logger}
}

// Register mounts the profile routes. The caller applies auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me/profile", h.handleGet)
	r.Put("/me/profile", h.handleUpdate)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	view, err := h.profiles.Get(ctx, userID)
	if err != nil {
		h.logError(ctx, "failed to load profile", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req models.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	view, err := h.profiles.Update(ctx, userID, &req)
	if err != nil {
		h.logError(ctx, "failed to update profile", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.Is(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
