// Package api provides the JSON HTTP handlers for the CRM REST API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"apexcrm/internal/domain"
	"apexcrm/internal/service/crm"
	"apexcrm/internal/service/directory"
	"apexcrm/internal/service/identity"
)

type Handler struct {
	auth        *identity.AuthService
	users       *directory.UserService
	invitations *directory.InvitationService
	customers   *crm.CustomerService
	employees   *crm.EmployeeService
	leads       *crm.LeadService
	dashboard   *crm.DashboardService
	logger      *slog.Logger
}

func NewHandler(
	auth *identity.AuthService,
	users *directory.UserService,
	invitations *directory.InvitationService,
	customers *crm.CustomerService,
	employees *crm.EmployeeService,
	leads *crm.LeadService,
	dashboard *crm.DashboardService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:        auth,
		users:       users,
		invitations: invitations,
		customers:   customers,
		employees:   employees,
		leads:       leads,
		dashboard:   dashboard,
		logger:      logger.With("component", "api"),
	}
}

// decode parses the request body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}

// pageFromRequest extracts a PageRequest from max_results/page_token params.
func pageFromRequest(r *http.Request) domain.PageRequest {
	p := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			p.MaxResults = parsed
		}
	}
	return p
}

// listEnvelope is the shared shape of paginated list responses.
type listEnvelope[T any] struct {
	Items         []T    `json:"items"`
	TotalCount    int64  `json:"total_count"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

func newListEnvelope[T any](items []T, total int64, page domain.PageRequest) listEnvelope[T] {
	if items == nil {
		items = []T{}
	}
	return listEnvelope[T]{
		Items:         items,
		TotalCount:    total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	}
}
