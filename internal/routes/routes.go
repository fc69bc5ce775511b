package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/unimate-app/unimate-backend/internal/handlers"
	"github.com/unimate-app/unimate-backend/internal/middleware"
)

// SetupRoutes mounts the public and token-protected route trees.
func SetupRoutes(r *chi.Mux, auth *handlers.AuthHandler, users *handlers.UserHandler, announcements *handlers.AnnouncementHandler, tokens middleware.TokenResolver) {
	requireAuth := middleware.RequireAuth(tokens)

	r.Route("/user", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
		r.Get("/", users.List)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", auth.Logout)
			r.Get("/profile", users.GetProfile)
			r.Put("/profile", users.UpdateProfile)
		})
	})

	r.Route("/announcement", func(r chi.Router) {
		r.Get("/", announcements.List)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/create", announcements.Create)
		})
	})
}
