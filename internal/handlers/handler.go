package handlers

import (
	"context"
	"time"

	"github.com/AnshRaj112/hubmatch-backend/internal/models"
	"github.com/AnshRaj112/hubmatch-backend/internal/services"
	"go.uber.org/zap"
)

// Store is the persistence the handlers need. *store.Store satisfies it.
type Store interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	UpsertUser(ctx context.Context, tu models.TelegramUser, info models.BotInfoResult) (*models.User, error)
	UpdateUser(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error)
	GetUserHub(ctx context.Context, userID int64, hubID *int64) (*models.Hub, error)
	ListOtherUsers(ctx context.Context, userID, hubID int64) ([]models.UserWithLikes, error)
	ToggleLike(ctx context.Context, from, to int64) (bool, error)
	Ping(ctx context.Context) error
}

type BotInfoLoader interface {
	LoadUserInfo(ctx context.Context, userID int64) models.BotInfoResult
}

type TokenIssuer interface {
	Issue(userID int64, hubID *int64) (string, error)
}

// MatchEvents publishes new matches and streams them to websocket clients.
// *services.MatchHub satisfies it.
type MatchEvents interface {
	NotifyMatch(ctx context.Context, a, b int64)
	Register(userID int64, conn services.MatchConn) *services.MatchClient
	Unregister(c *services.MatchClient)
}

// Handler carries the dependencies of every HTTP endpoint.
type Handler struct {
	Store   Store
	Bot     BotInfoLoader
	Tokens  TokenIssuer
	Photos  services.PhotoStorage
	Matches MatchEvents
	Log     *zap.Logger

	BotToken       string
	InitDataMaxAge time.Duration
	// StaticPrefix is prepended to photo URLs, e.g. "api/static".
	StaticPrefix string
}
