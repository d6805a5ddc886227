package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func MountRoutes(r chi.Router, h *Handler, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/ui", func(r chi.Router) {
		r.Get("/login", h.LoginPage)
		r.Post("/login", h.LoginSubmit)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.CookieHeaderBridge)
			r.Use(authMiddleware)
			r.Get("/", h.Home)
			r.Get("/customers", h.Customers)
			r.Get("/pipeline", h.Pipeline)
			r.Get("/users", h.Users)
			r.Get("/settings", h.Settings)
			r.Post("/settings", h.SettingsSubmit)
			r.Post("/act-as", h.ActAsSubmit)
		})
	})

	// Convenience redirect from the bare root.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/ui", http.StatusSeeOther)
	})
}
