package ui

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"apexcrm/internal/domain"
	"apexcrm/internal/middleware"
	"apexcrm/internal/service/identity"
)

const (
	bearerCookieName = "ui_bearer"
	actAsCookieName  = "ui_act_as"
)

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusOK, loginPage(strings.TrimSpace(r.URL.Query().Get("error"))))
}

func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/ui/login?error=invalid+form", http.StatusSeeOther)
		return
	}

	result, err := h.services.Auth.Login(r.Context(), r.Form.Get("email"), r.Form.Get("password"))
	if err != nil {
		msg := "invalid email or password"
		var denial *identity.DenialError
		if errors.As(err, &denial) {
			msg = denial.Message
		}
		http.Redirect(w, r, "/ui/login?error="+url.QueryEscape(msg), http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     bearerCookieName,
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  result.ExpiresAt,
	})
	// A fresh login never carries an impersonation overlay.
	http.SetCookie(w, clearCookie(actAsCookieName))
	http.Redirect(w, r, "/ui", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, clearCookie(bearerCookieName))
	http.SetCookie(w, clearCookie(actAsCookieName))
	http.Redirect(w, r, "/ui/login", http.StatusSeeOther)
}

// ActAsSubmit sets or clears the impersonation cookie. The cookie is only a
// transport; the overlay is applied per request and only for dev accounts.
func (h *Handler) ActAsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/ui", http.StatusSeeOther)
		return
	}
	role := strings.TrimSpace(r.Form.Get("role"))
	if role == "" {
		http.SetCookie(w, clearCookie(actAsCookieName))
	} else if _, err := domain.ParseRole(role); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     actAsCookieName,
			Value:    role,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(24 * time.Hour),
		})
	}
	http.Redirect(w, r, "/ui", http.StatusSeeOther)
}

// CookieHeaderBridge copies the UI cookies onto the headers the API
// middleware reads, so the UI and the JSON API share one auth path.
func (h *Handler) CookieHeaderBridge(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			if cookie, err := r.Cookie(bearerCookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
				r.Header.Set("Authorization", "Bearer "+strings.TrimSpace(cookie.Value))
			}
		}
		if r.Header.Get(middleware.ActAsHeader) == "" {
			if cookie, err := r.Cookie(actAsCookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
				r.Header.Set(middleware.ActAsHeader, strings.TrimSpace(cookie.Value))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func clearCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}
