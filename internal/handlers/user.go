package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AnshRaj112/hubmatch-backend/internal/middleware"
	"github.com/AnshRaj112/hubmatch-backend/internal/models"
	"github.com/AnshRaj112/hubmatch-backend/internal/services"
	"github.com/AnshRaj112/hubmatch-backend/internal/store"
)

// HubResponse identifies the hub a user acts in.
type HubResponse struct {
	HubID   int64  `json:"hubId"`
	HubName string `json:"hubName"`
}

// UserResponse is the profile of the current user.
type UserResponse struct {
	ID          int64        `json:"id"`
	About       *string      `json:"about"`
	Age         *int         `json:"age"`
	FirstName   string       `json:"firstName"`
	LastName    *string      `json:"lastName"`
	WorkingName *string      `json:"workingName"`
	Photo       *string      `json:"photo"`
	Hub         *HubResponse `json:"hub"`
	Nickname    string       `json:"nickname"`
}

// UpdateUserRequest is the body of PATCH /user. Absent fields are left as is.
type UpdateUserRequest struct {
	About *string `json:"about"`
	Age   *int    `json:"age"`
	Name  *string `json:"name"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// photoURL builds the public URL of a stored photo reference, nil without one.
func (h *Handler) photoURL(ref string) *string {
	if ref == "" {
		return nil
	}
	u := h.StaticPrefix + "/images/" + services.PhotoFileName(ref)
	return &u
}

func (h *Handler) userResponse(u *models.User, hub *models.Hub) UserResponse {
	resp := UserResponse{
		ID:          u.UserID,
		About:       optional(u.About),
		Age:         u.Age,
		FirstName:   u.FirstName,
		LastName:    optional(u.LastName),
		WorkingName: optional(u.WorkingName),
		Photo:       h.photoURL(u.TelegramPhoto),
		Nickname:    u.Username,
	}
	if hub != nil {
		resp.Hub = &HubResponse{HubID: hub.HubID, HubName: hub.Name}
	}
	return resp
}

// GetUser handles GET /user.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	cu, ok := middleware.CurrentUserFrom(r.Context())
	if !ok {
		h.writeServiceError(w, r, services.ErrInvalidToken)
		return
	}
	writeJSON(w, http.StatusOK, h.userResponse(cu.User, cu.Hub))
}

// UpdateUser handles PATCH /user.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	cu, ok := middleware.CurrentUserFrom(r.Context())
	if !ok {
		h.writeServiceError(w, r, services.ErrInvalidToken)
		return
	}

	var req UpdateUserRequest
	r.Body = http.MaxBytesReader(w, r.Body, 16<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.Store.UpdateUser(r.Context(), cu.User.UserID, models.ProfileUpdate{
		About: req.About,
		Age:   req.Age,
		Name:  req.Name,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.userResponse(user, cu.Hub))
}
