package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pulseboard/internal/notification/models"
	"pulseboard/internal/notification/service"
	"pulseboard/internal/notification/store"
	"pulseboard/internal/platform/middleware"
	id "pulseboard/pkg/domain"
	"pulseboard/pkg/testutil"
)

type stubValidator struct {
	userID id.UserID
}

func (v stubValidator) ValidateToken(token string) (id.UserID, error) {
	if token != "valid" {
		return id.UserID{}, context.DeadlineExceeded
	}
	return v.userID, nil
}

type fixture struct {
	router  http.Handler
	service *service.Service
	userID  id.UserID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	userID := id.UserID(uuid.New())
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := service.New(store.NewInMemory())

	h := New(svc, logger)
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(stubValidator{userID: userID}, logger))
	h.Register(r)

	return &fixture{router: r, service: svc, userID: userID}
}

func (f *fixture) seed(t *testing.T, title string) *models.Notification {
	t.Helper()
	n, err := f.service.Create(context.Background(), f.userID, &models.CreateRequest{
		Title:   title,
		Message: "message for " + title,
	})
	if err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	return n
}

func (f *fixture) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.WithBearer(testutil.NewRequest(t, method, path), "valid")
	return testutil.DoRequest(f.router, req)
}

func TestListNotifications(t *testing.T) {
	f := newFixture(t)

	t.Run("empty list is an empty array, not null", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/me/notifications")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if body := rec.Body.String(); !strings.Contains(body, `"notifications":[]`) {
			t.Fatalf("expected empty array in body, got %s", body)
		}
	})

	t.Run("lists seeded notifications", func(t *testing.T) {
		f.seed(t, "first")
		f.seed(t, "second")

		rec := f.do(t, http.MethodGet, "/me/notifications")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		type listResponse struct {
			Notifications []*models.Notification `json:"notifications"`
		}
		resp := testutil.UnmarshalResponse[listResponse](t, rec)
		if len(resp.Notifications) != 2 {
			t.Fatalf("expected 2 notifications, got %d", len(resp.Notifications))
		}
	})
}

type unreadResponse struct {
	Unread int `json:"unread"`
}

func TestUnreadCountEndpoint(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "one")
	f.seed(t, "two")

	rec := f.do(t, http.MethodGet, "/me/notifications/unread-count")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if resp := testutil.UnmarshalResponse[unreadResponse](t, rec); resp.Unread != 2 {
		t.Fatalf("expected unread 2, got %d", resp.Unread)
	}
}

func TestMarkReadEndpoint(t *testing.T) {
	f := newFixture(t)
	n := f.seed(t, "to-read")

	rec := f.do(t, http.MethodPost, "/me/notifications/"+n.ID.String()+"/read")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	// Idempotent at the HTTP surface too.
	rec = f.do(t, http.MethodPost, "/me/notifications/"+n.ID.String()+"/read")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on repeat, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/me/notifications/unread-count")
	if resp := testutil.UnmarshalResponse[unreadResponse](t, rec); resp.Unread != 0 {
		t.Fatalf("expected unread 0 after read, got %d", resp.Unread)
	}
}

func TestMarkAllReadEndpoint(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a")
	f.seed(t, "b")

	rec := f.do(t, http.MethodPost, "/me/notifications/read-all")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestDeleteNotificationEndpoint(t *testing.T) {
	f := newFixture(t)
	n := f.seed(t, "gone")

	rec := f.do(t, http.MethodDelete, "/me/notifications/"+n.ID.String())
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodDelete, "/me/notifications/"+n.ID.String())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", rec.Code)
	}
}

func TestNotificationIDValidation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/me/notifications/not-a-uuid/read")
	testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, "invalid_input")
}

func TestNotificationsRequireAuth(t *testing.T) {
	f := newFixture(t)

	rec := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/me/notifications"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
