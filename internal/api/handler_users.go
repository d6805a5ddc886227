package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"apexcrm/internal/domain"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	users, total, err := h.users.List(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	items := make([]userJSON, 0, len(users))
	for i := range users {
		items = append(items, userToAPI(&users[i]))
	}
	writeJSON(w, http.StatusOK, newListEnvelope(items, total, page))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, userToAPI(user))
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	var req changeRoleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.users.ChangeRole(r.Context(), id, req.Role); err != nil {
		writeError(w, h.logger, err)
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, userToAPI(user))
}

type setRestrictedRequest struct {
	Restricted bool `json:"restricted"`
}

func (h *Handler) SetUserRestricted(w http.ResponseWriter, r *http.Request) {
	var req setRestrictedRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.users.SetRestricted(r.Context(), id, req.Restricted); err != nil {
		writeError(w, h.logger, err)
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, userToAPI(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createInvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	var req createInvitationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	inv, err := h.invitations.Create(r.Context(), domain.CreateInvitationRequest{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, invitationToAPI(inv))
}

func (h *Handler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	invites, total, err := h.invitations.List(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	items := make([]invitationJSON, 0, len(invites))
	for i := range invites {
		items = append(items, invitationToAPI(&invites[i]))
	}
	writeJSON(w, http.StatusOK, newListEnvelope(items, total, page))
}

func (h *Handler) DeleteInvitation(w http.ResponseWriter, r *http.Request) {
	if err := h.invitations.Delete(r.Context(), chi.URLParam(r, "email")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
