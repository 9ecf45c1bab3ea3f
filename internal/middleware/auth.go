package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/AnshRaj112/hubmatch-backend/internal/models"
	"github.com/AnshRaj112/hubmatch-backend/internal/services"
	"github.com/AnshRaj112/hubmatch-backend/internal/store"
	"go.uber.org/zap"
)

// CurrentUser is the authenticated caller of a request. Hub is nil when the
// user belongs to no hub.
type CurrentUser struct {
	User *models.User
	Hub  *models.Hub
}

// HubID returns the id of the resolved hub, or nil.
func (cu *CurrentUser) HubID() *int64 {
	if cu.Hub == nil {
		return nil
	}
	id := cu.Hub.HubID
	return &id
}

type currentUserKey struct{}

// WithCurrentUser stores cu in ctx.
func WithCurrentUser(ctx context.Context, cu *CurrentUser) context.Context {
	return context.WithValue(ctx, currentUserKey{}, cu)
}

// CurrentUserFrom returns the user set by RequireUser.
func CurrentUserFrom(ctx context.Context) (*CurrentUser, bool) {
	cu, ok := ctx.Value(currentUserKey{}).(*CurrentUser)
	return cu, ok && cu != nil
}

type TokenVerifier interface {
	Verify(token string) (services.Claims, error)
}

type UserLookup interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	GetUserHub(ctx context.Context, userID int64, hubID *int64) (*models.Hub, error)
}

// Auth resolves session tokens into the current user.
type Auth struct {
	Tokens TokenVerifier
	Users  UserLookup
	Logger *zap.Logger
}

// RequireUser accepts "Authorization: Bearer <token>" only.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return a.require(next, false)
}

// RequireUserOrQuery also accepts ?token=, for browser websocket clients that
// cannot set headers.
func (a *Auth) RequireUserOrQuery(next http.Handler) http.Handler {
	return a.require(next, true)
}

func (a *Auth) require(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" && allowQuery {
			token = strings.TrimSpace(r.URL.Query().Get("token"))
		}
		if token == "" {
			unauthorized(w)
			return
		}

		claims, err := a.Tokens.Verify(token)
		if err != nil {
			unauthorized(w)
			return
		}

		ctx := r.Context()
		user, err := a.Users.GetUser(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				unauthorized(w)
				return
			}
			a.Logger.Error("failed to load current user", zap.Int64("user_id", claims.UserID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		hub, err := a.Users.GetUserHub(ctx, user.UserID, claims.HubID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			a.Logger.Error("failed to resolve hub", zap.Int64("user_id", user.UserID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCurrentUser(ctx, &CurrentUser{User: user, Hub: hub})))
	})
}

// BearerToken extracts the credential of an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "Could not validate credentials")
}
