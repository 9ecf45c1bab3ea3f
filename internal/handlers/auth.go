package handlers

import (
	"net/http"

	"github.com/AnshRaj112/hubmatch-backend/internal/middleware"
	"github.com/AnshRaj112/hubmatch-backend/internal/services"
	"go.uber.org/zap"
)

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Authenticate handles POST /auth. The Telegram init-data string is sent as
// the bearer credential. The user is created or refreshed, joined to the
// invited hub if any, and receives a session token bound to their hub.
func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	initData := middleware.BearerToken(r)
	if initData == "" {
		h.writeServiceError(w, r, services.ErrAuthentication)
		return
	}

	tu, err := services.VerifyInitData(initData, h.BotToken, services.WithMaxAge(h.InitDataMaxAge))
	if err != nil {
		h.Log.Info("telegram init data rejected", zap.Error(err))
		h.writeServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	info := h.Bot.LoadUserInfo(ctx, tu.ID)

	user, err := h.Store.UpsertUser(ctx, tu, info)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var hubID *int64
	hub, err := h.Store.GetUserHub(ctx, user.UserID, tu.StartParam)
	switch {
	case err == nil:
		id := hub.HubID
		hubID = &id
	case isNotFound(err):
	default:
		h.writeServiceError(w, r, err)
		return
	}

	token, err := h.Tokens.Issue(user.UserID, hubID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.Log.Info("user authenticated",
		zap.Int64("user_id", user.UserID),
		zap.Bool("enriched", info.Enriched),
		zap.Int64p("hub_id", hubID))

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}
