package domain

// Identity is the resolved, in-memory view of the signed-in account. It is
// recomputed from the account record on every request and never persisted.
//
// Role is always the real role from the account record. An impersonation
// overlay, when present, substitutes only the effective role: email and name
// keep identifying the real account so audit attribution stays accurate.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Role   Role

	// impersonated is set through Impersonate and only honored for dev.
	impersonated Role
}

// EffectiveRole returns the role presentation and authorization checks must
// use: the overlay when a developer is impersonating, the real role otherwise.
func (id Identity) EffectiveRole() Role {
	if id.Role == RoleDev && id.impersonated != "" {
		return id.impersonated
	}
	return id.Role
}

// Impersonating reports whether an overlay is active.
func (id Identity) Impersonating() bool {
	return id.Role == RoleDev && id.impersonated != "" && id.impersonated != RoleDev
}

// Impersonate returns a copy of the identity with the effective role overlaid.
// A no-op unless the real role is dev. An empty role clears the overlay.
func (id Identity) Impersonate(role Role) Identity {
	if id.Role != RoleDev {
		return id
	}
	if role != "" && !role.Valid() {
		return id
	}
	id.impersonated = role
	return id
}

// Can reports whether the effective role permits the action.
func (id Identity) Can(a Action) bool {
	return id.EffectiveRole().Can(a)
}
