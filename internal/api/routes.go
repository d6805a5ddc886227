package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches the /v1 API. Auth endpoints are public; everything
// else runs behind the authenticator.
func MountRoutes(r chi.Router, h *Handler, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/signup", h.Signup)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/verify", h.Verify)
		r.Get("/auth/verify", h.VerifyLink)
		r.Post("/auth/resend", h.ResendVerification)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/me", h.Me)
			r.Patch("/me", h.UpdateMe)

			r.Get("/users", h.ListUsers)
			r.Get("/users/{id}", h.GetUser)
			r.Put("/users/{id}/role", h.ChangeUserRole)
			r.Put("/users/{id}/restricted", h.SetUserRestricted)
			r.Delete("/users/{id}", h.DeleteUser)

			r.Post("/invitations", h.CreateInvitation)
			r.Get("/invitations", h.ListInvitations)
			r.Delete("/invitations/{email}", h.DeleteInvitation)

			r.Post("/customers", h.CreateCustomer)
			r.Get("/customers", h.ListCustomers)
			r.Get("/customers/{id}", h.GetCustomer)
			r.Put("/customers/{id}", h.UpdateCustomer)
			r.Delete("/customers/{id}", h.DeleteCustomer)

			r.Post("/employees", h.CreateEmployee)
			r.Get("/employees", h.ListEmployees)
			r.Get("/employees/{id}", h.GetEmployee)
			r.Put("/employees/{id}", h.UpdateEmployee)
			r.Delete("/employees/{id}", h.DeleteEmployee)

			r.Post("/leads", h.CaptureLead)
			r.Get("/leads", h.ListLeads)
			r.Get("/leads/{id}", h.GetLead)
			r.Post("/leads/{id}/transition", h.TransitionLead)
			r.Put("/leads/{id}/proposal", h.SaveProposal)
			r.Delete("/leads/{id}", h.DeleteLead)

			r.Get("/pipeline", h.Pipeline)
			r.Get("/dashboard", h.Dashboard)
			r.Get("/activities", h.ListActivities)
		})
	})
}
