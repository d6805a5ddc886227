package ui

import (
	"errors"
	"net/http"

	"apexcrm/internal/domain"
	"apexcrm/internal/service/identity"
)

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ident := identityFromRequest(r)
	dashboard, err := h.services.Dashboard.Overview(r.Context(), nil)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderHTML(w, http.StatusOK, overviewPage(ident, dashboard))
}

func (h *Handler) Customers(w http.ResponseWriter, r *http.Request) {
	ident := identityFromRequest(r)
	customers, _, err := h.services.Customers.List(r.Context(), pageFromRequest(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderHTML(w, http.StatusOK, customersPage(ident, customers))
}

func (h *Handler) Pipeline(w http.ResponseWriter, r *http.Request) {
	ident := identityFromRequest(r)
	leadType := domain.LeadScaffolding
	if parsed, err := domain.ParseLeadType(r.URL.Query().Get("type")); err == nil {
		leadType = parsed
	}
	board, err := h.services.Leads.Pipeline(r.Context(), leadType)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderHTML(w, http.StatusOK, pipelinePage(ident, leadType, board))
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	ident := identityFromRequest(r)
	users, _, err := h.services.Users.List(r.Context(), pageFromRequest(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	invites, _, err := h.services.Invitations.List(r.Context(), domain.PageRequest{MaxResults: 100})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderHTML(w, http.StatusOK, usersPage(ident, users, invites))
}

func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	ident := identityFromRequest(r)
	user, err := h.services.Users.Profile(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderHTML(w, http.StatusOK, settingsPage(ident, user, r.URL.Query().Get("saved") == "1"))
}

func (h *Handler) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/ui/settings", http.StatusSeeOther)
		return
	}
	name := r.Form.Get("name")
	readme := r.Form.Get("readme")
	_, err := h.services.Users.UpdateProfile(r.Context(), domain.UpdateProfileRequest{
		Name:   &name,
		Readme: &readme,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/ui/settings?saved=1", http.StatusSeeOther)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("ui request failed", "path", r.URL.Path, "error", err)
	ident := identityFromRequest(r)
	renderHTML(w, http.StatusOK, layout("Error", ident,
		errorBody(safeErrorMessage(err)),
	))
}

// safeErrorMessage picks the text shown on the error page. Domain errors
// explain themselves; anything else stays in the log.
func safeErrorMessage(err error) string {
	var notFound *domain.NotFoundError
	var accessDenied *domain.AccessDeniedError
	var validation *domain.ValidationError
	var conflict *domain.ConflictError
	var denial *identity.DenialError

	switch {
	case errors.As(err, &denial):
		return denial.Message
	case errors.As(err, &notFound), errors.As(err, &accessDenied),
		errors.As(err, &validation), errors.As(err, &conflict):
		return err.Error()
	default:
		return "something went wrong; please try again"
	}
}
