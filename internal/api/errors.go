package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"apexcrm/internal/domain"
	"apexcrm/internal/service/identity"
)

// errorResponse is the JSON error envelope. Reason carries a machine-readable
// code for login denials so clients can branch without parsing the message.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var accessDenied *domain.AccessDeniedError
	var validation *domain.ValidationError
	var conflict *domain.ConflictError
	var denial *identity.DenialError

	switch {
	case errors.As(err, &denial):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &accessDenied):
		return http.StatusForbidden
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as the JSON envelope. Internal errors get a generic
// message on the wire; the detail goes to the log.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := httpStatusFromDomainError(err)
	resp := errorResponse{Code: status, Message: err.Error()}

	var denial *identity.DenialError
	if errors.As(err, &denial) {
		resp.Reason = denial.Reason
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		resp.Message = "internal error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
