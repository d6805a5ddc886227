package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"apexcrm/internal/domain"
	"apexcrm/internal/service/identity"
)

func TestSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", domain.ErrNotFound("lead %s not found", "x"), "lead x not found"},
		{"validation", domain.ErrValidation("name cannot be empty"), "name cannot be empty"},
		{"access denied", domain.ErrAccessDenied("sales may not manage users"), "sales may not manage users"},
		{"login denial", identity.ErrRestricted(), identity.ErrRestricted().Message},
		{"infrastructure detail is hidden", errors.New("sql: database is locked"), "something went wrong; please try again"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, safeErrorMessage(tt.err))
		})
	}
}
