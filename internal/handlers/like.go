package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/AnshRaj112/hubmatch-backend/internal/middleware"
	"github.com/AnshRaj112/hubmatch-backend/internal/services"
)

type LikeResponse struct {
	Mutual bool `json:"mutual"`
}

// Like handles POST /like?id=<user id>. It toggles the caller's like of the
// target and reports whether the two now like each other. A new mutual
// match is announced to both users.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	cu, ok := middleware.CurrentUserFrom(r.Context())
	if !ok {
		h.writeServiceError(w, r, services.ErrInvalidToken)
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("id"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	target, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	mutual, err := h.Store.ToggleLike(r.Context(), cu.User.UserID, target)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if mutual && h.Matches != nil {
		h.Matches.NotifyMatch(r.Context(), cu.User.UserID, target)
	}

	writeJSON(w, http.StatusOK, LikeResponse{Mutual: mutual})
}
