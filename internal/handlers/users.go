package handlers

import (
	"net/http"

	"github.com/AnshRaj112/hubmatch-backend/internal/middleware"
	"github.com/AnshRaj112/hubmatch-backend/internal/services"
)

// UsersResponseItem is one co-member in GET /users.
type UsersResponseItem struct {
	ID          int64   `json:"id"`
	About       *string `json:"about"`
	Age         *int    `json:"age"`
	FirstName   string  `json:"firstName"`
	LastName    *string `json:"lastName"`
	Photo       *string `json:"photo"`
	Nickname    string  `json:"nickname"`
	Like        bool    `json:"like"`
	LikesYou    bool    `json:"likesYou"`
	WorkingName *string `json:"workingName"`
}

// ListUsers handles GET /users: every other member of the caller's hub.
// A caller without a hub gets an empty list.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	cu, ok := middleware.CurrentUserFrom(r.Context())
	if !ok {
		h.writeServiceError(w, r, services.ErrInvalidToken)
		return
	}

	items := []UsersResponseItem{}
	if cu.Hub == nil {
		writeJSON(w, http.StatusOK, items)
		return
	}

	users, err := h.Store.ListOtherUsers(r.Context(), cu.User.UserID, cu.Hub.HubID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	for _, u := range users {
		if u.UserID == cu.User.UserID {
			continue
		}
		items = append(items, UsersResponseItem{
			ID:          u.UserID,
			About:       optional(u.About),
			Age:         u.Age,
			FirstName:   u.FirstName,
			LastName:    optional(u.LastName),
			Photo:       h.photoURL(u.TelegramPhoto),
			Nickname:    u.Username,
			Like:        u.Like,
			LikesYou:    u.LikesYou,
			WorkingName: optional(u.WorkingName),
		})
	}

	writeJSON(w, http.StatusOK, items)
}
