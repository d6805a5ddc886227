package domain

import (
	"strings"
	"time"
)

// User is an account record: the persisted profile for a provisioned account,
// keyed by the identity provider's stable account identifier.
type User struct {
	ID            string
	Name          string
	Email         string
	Role          Role
	Disabled      bool
	EmailVerified bool
	Avatar        *string
	Readme        *string
	CreatedAt     time.Time
}

// Initials returns the two-letter initials rendered next to the user's name.
func (u *User) Initials() string {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		name = u.Email
	}
	runes := []rune(name)
	if len(runes) < 2 {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(string(runes[:2]))
}

// Invitation is a role registry entry: an email pre-registered to a role by an
// administrator (or a role-specific sign-up form) before the account's first
// login. Consumed once at first-login materialization, then kept as history.
type Invitation struct {
	Email     string
	Role      Role
	CreatedAt time.Time
}

// CreateInvitationRequest holds parameters for pre-registering a role.
type CreateInvitationRequest struct {
	Email string
	Role  string
}

// Validate checks that the request is well-formed.
func (r *CreateInvitationRequest) Validate() (Role, error) {
	if !strings.Contains(r.Email, "@") {
		return "", ErrValidation("a valid email address is required")
	}
	return ParseAssignableRole(r.Role)
}

// UpdateProfileRequest holds self-service profile edits. Nil fields are left
// unchanged.
type UpdateProfileRequest struct {
	Name   *string
	Readme *string
	Avatar *string
}

// Validate checks that the request is well-formed.
func (r *UpdateProfileRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return ErrValidation("name cannot be empty")
	}
	return nil
}
