package routes

import (
	"net/http"

	"github.com/AnshRaj112/hubmatch-backend/internal/handlers"
	"github.com/AnshRaj112/hubmatch-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// Options carries the per-route middleware. Nil limiters are skipped.
type Options struct {
	Auth      *middleware.Auth
	AuthLimit func(http.Handler) http.Handler
	LikeLimit func(http.Handler) http.Handler
}

func with(r chi.Router, mw func(http.Handler) http.Handler) chi.Router {
	if mw == nil {
		return r
	}
	return r.With(mw)
}

func SetupRoutes(r chi.Router, h *handlers.Handler, opts Options) {
	// Public
	r.Get("/health", h.Health)
	r.Get("/static/images/{filename}", h.ServeImage)
	with(r, opts.AuthLimit).Post("/auth", h.Authenticate)

	// Session token required
	r.Group(func(r chi.Router) {
		r.Use(opts.Auth.RequireUser)

		r.Get("/user", h.GetUser)
		r.Patch("/user", h.UpdateUser)
		r.Get("/users", h.ListUsers)
		with(r, opts.LikeLimit).Post("/like", h.Like)
	})

	// Browser websocket clients pass the token as ?token=
	r.With(opts.Auth.RequireUserOrQuery).Get("/ws/matches", h.MatchWebSocket)
}
