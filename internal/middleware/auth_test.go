package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnshRaj112/hubmatch-backend/internal/models"
	"github.com/AnshRaj112/hubmatch-backend/internal/services"
	"github.com/AnshRaj112/hubmatch-backend/internal/store"
	"go.uber.org/zap"
)

type fakeVerifier map[string]services.Claims

func (f fakeVerifier) Verify(token string) (services.Claims, error) {
	c, ok := f[token]
	if !ok {
		return services.Claims{}, services.ErrInvalidToken
	}
	return c, nil
}

type fakeUsers struct {
	users      map[int64]*models.User
	hubs       map[int64]*models.Hub
	hubErr     error
	gotHubHint *int64
}

func (f *fakeUsers) GetUser(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) GetUserHub(_ context.Context, id int64, hint *int64) (*models.Hub, error) {
	f.gotHubHint = hint
	if f.hubErr != nil {
		return nil, f.hubErr
	}
	if h, ok := f.hubs[id]; ok {
		return h, nil
	}
	return nil, store.ErrNotFound
}

func newTestAuth() (*Auth, *fakeUsers) {
	hub := int64(42)
	users := &fakeUsers{
		users: map[int64]*models.User{
			1: {UserID: 1, FirstName: "One"},
			2: {UserID: 2, FirstName: "Two"},
		},
		hubs: map[int64]*models.Hub{1: {HubID: 42, Name: "hub"}},
	}
	tokens := fakeVerifier{
		"t1":    {UserID: 1, HubID: &hub},
		"t2":    {UserID: 2},
		"ghost": {UserID: 99},
	}
	return &Auth{Tokens: tokens, Users: users, Logger: zap.NewNop()}, users
}

func echoUser(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cu, ok := CurrentUserFrom(r.Context())
		if !ok {
			t.Error("current user missing from context")
			return
		}
		if cu.Hub != nil {
			w.Header().Set("X-Hub", cu.Hub.Name)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireUser(t *testing.T) {
	auth, users := newTestAuth()
	h := auth.RequireUser(echoUser(t))

	tests := []struct {
		name   string
		header string
		status int
		hub    string
	}{
		{"member of a hub", "Bearer t1", http.StatusNoContent, "hub"},
		{"lowercase scheme", "bearer t1", http.StatusNoContent, "hub"},
		{"no hub", "Bearer t2", http.StatusNoContent, ""},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic t1", http.StatusUnauthorized, ""},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, ""},
		{"deleted user", "Bearer ghost", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/user", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("missing WWW-Authenticate challenge")
			}
			if got := rec.Header().Get("X-Hub"); got != tt.hub {
				t.Errorf("hub: got %q, want %q", got, tt.hub)
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("Authorization", "Bearer t1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if users.gotHubHint == nil || *users.gotHubHint != 42 {
		t.Errorf("hub claim not passed to GetUserHub: %v", users.gotHubHint)
	}
}

func TestRequireUser_HubLookupFailure(t *testing.T) {
	auth, users := newTestAuth()
	users.hubErr = errors.New("connection reset")

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("Authorization", "Bearer t1")
	rec := httptest.NewRecorder()
	auth.RequireUser(echoUser(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
}

func TestRequireUserOrQuery(t *testing.T) {
	auth, _ := newTestAuth()

	req := httptest.NewRequest(http.MethodGet, "/ws/matches?token=t2", nil)
	rec := httptest.NewRecorder()
	auth.RequireUserOrQuery(echoUser(t)).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("query token: got %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	auth.RequireUser(echoUser(t)).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("query token on header-only route: got %d, want 401", rec.Code)
	}
}
