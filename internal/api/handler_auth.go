package api

import (
	"net/http"
	"time"

	"apexcrm/internal/domain"
	"apexcrm/internal/service/identity"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	err := h.auth.Signup(r.Context(), identity.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "account created; check your email to verify your address",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Identity  identityJSON `json:"identity"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Identity:  identityToAPI(result.Identity),
	})
}

type verifyRequest struct {
	Token string `json:"token"`
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.auth.Verify(r.Context(), req.Token); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "email verified; you can now sign in"})
}

// VerifyLink handles the GET form of verification, the link sent in mail.
func (h *Handler) VerifyLink(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Verify(r.Context(), r.URL.Query().Get("token")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "email verified; you can now sign in"})
}

type resendRequest struct {
	Email string `json:"email"`
}

func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.auth.ResendVerification(r.Context(), req.Email); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "verification email sent if the account exists"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := domain.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrAccessDenied("not signed in"))
		return
	}
	writeJSON(w, http.StatusOK, identityToAPI(ident))
}

type updateProfileRequest struct {
	Name   *string `json:"name,omitempty"`
	Readme *string `json:"readme,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	user, err := h.users.UpdateProfile(r.Context(), domain.UpdateProfileRequest{
		Name:   req.Name,
		Readme: req.Readme,
		Avatar: req.Avatar,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, userToAPI(user))
}
