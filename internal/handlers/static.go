package handlers

import (
	"errors"
	"net/http"

	"github.com/AnshRaj112/hubmatch-backend/internal/services"
	"github.com/go-chi/chi/v5"
)

// ServeImage handles GET /static/images/{filename}.
func (h *Handler) ServeImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	err := h.Photos.ServeImage(w, r, name)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrPhotoNotFound), errors.Is(err, services.ErrInvalidPhotoName):
		writeError(w, http.StatusNotFound, "Image not found")
	default:
		h.writeServiceError(w, r, err)
	}
}
