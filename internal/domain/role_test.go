package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, role := range Roles {
		parsed, err := ParseRole(string(role))
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	_, err := ParseRole("superuser")
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestParseAssignableRole_RejectsDev(t *testing.T) {
	_, err := ParseAssignableRole("dev")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	parsed, err := ParseAssignableRole("proposal")
	require.NoError(t, err)
	assert.Equal(t, RoleProposal, parsed)
}

func TestNextPageToken(t *testing.T) {
	token := NextPageToken(0, 50, 120)
	assert.NotEmpty(t, token)

	p := PageRequest{PageToken: token}
	assert.Equal(t, 50, p.Offset())

	assert.Empty(t, NextPageToken(100, 50, 120))
}
