// Package ui serves the server-rendered management interface.
package ui

import (
	"log/slog"
	"net/http"
	"strconv"

	gomponents "maragu.dev/gomponents"

	"apexcrm/internal/app"
	"apexcrm/internal/domain"
)

type Handler struct {
	services app.Services
	logger   *slog.Logger
}

func NewHandler(services app.Services, logger *slog.Logger) *Handler {
	return &Handler{
		services: services,
		logger:   logger.With("component", "ui"),
	}
}

func pageFromRequest(r *http.Request) domain.PageRequest {
	maxResults := 25
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxResults = parsed
		}
	}
	if maxResults > 200 {
		maxResults = 200
	}
	return domain.PageRequest{
		MaxResults: maxResults,
		PageToken:  r.URL.Query().Get("page_token"),
	}
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func identityFromRequest(r *http.Request) domain.Identity {
	ident, _ := domain.IdentityFromContext(r.Context())
	return ident
}
