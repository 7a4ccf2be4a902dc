package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pulseboard/internal/identity"
	"pulseboard/internal/platform/middleware"
	"pulseboard/internal/profile/service"
	"pulseboard/internal/profile/store"
	id "pulseboard/pkg/domain"
	"pulseboard/pkg/testutil"
)

// stubValidator accepts the token "valid" and maps it to a fixed user.
type stubValidator struct {
	userID id.UserID
}

func (v stubValidator) ValidateToken(token string) (id.UserID, error) {
	if token != "valid" {
		return id.UserID{}, context.DeadlineExceeded
	}
	return v.userID, nil
}

func newProfileRouter(t *testing.T) (http.Handler, id.UserID) {
	t.Helper()
	userID := id.UserID(uuid.New())
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	identities := identity.NewInMemoryStore()
	profiles := store.NewInMemory()
	coordinator := service.New(profiles, identities)
	coordinator.Subscribe(identities)

	if err := identities.CreateUser(context.Background(), identity.User{
		ID: userID, Username: "alice", FirstName: "Alice", LastName: "Larsen",
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	h := New(coordinator, logger)
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(stubValidator{userID: userID}, logger))
	h.Register(r)
	return r, userID
}

func TestGetProfileRequiresAuth(t *testing.T) {
	router, _ := newProfileRouter(t)

	rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/me/profile"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer token, got %d", rec.Code)
	}

	req := testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/me/profile"), "wrong")
	rec = testutil.DoRequest(router, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}
}

func TestGetProfile(t *testing.T) {
	router, userID := newProfileRouter(t)

	req := testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/me/profile"), "valid")
	rec := testutil.DoRequest(router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	type profileResponse struct {
		UserID   id.UserID `json:"user_id"`
		Username string    `json:"username"`
		FullName string    `json:"full_name"`
	}
	resp := testutil.UnmarshalResponse[profileResponse](t, rec)
	if resp.UserID != userID {
		t.Fatalf("expected profile for %s, got %s", userID, resp.UserID)
	}
	if resp.Username != "alice" || resp.FullName != "Alice Larsen" {
		t.Fatalf("unexpected identity fields: %q %q", resp.Username, resp.FullName)
	}
}

func TestUpdateProfile(t *testing.T) {
	router, _ := newProfileRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/me/profile", map[string]string{
		"city":     "Bergen",
		"about_me": "hello",
	})
	rec := testutil.DoRequest(router, testutil.WithBearer(req, "valid"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	type updateResponse struct {
		City    string `json:"city"`
		AboutMe string `json:"about_me"`
	}
	resp := testutil.UnmarshalResponse[updateResponse](t, rec)
	if resp.City != "Bergen" || resp.AboutMe != "hello" {
		t.Fatalf("update not applied: %+v", resp)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	router, _ := newProfileRouter(t)

	cases := map[string]map[string]string{
		"bad url":    {"picture_url": "not a url"},
		"bad gender": {"gender": "unknown"},
		"bad dob":    {"date_of_birth": "14-03-2026"},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPut, "/me/profile", payload)
			rec := testutil.DoRequest(router, testutil.WithBearer(req, "valid"))
			testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, "validation_failed")
		})
	}
}

func TestUpdateProfileMalformedBody(t *testing.T) {
	router, _ := newProfileRouter(t)

	req := testutil.NewRequestWithBody(t, http.MethodPut, "/me/profile", "{")
	rec := testutil.DoRequest(router, testutil.WithBearer(req, "valid"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}
