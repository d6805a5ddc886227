package domain

// Role is the closed set of application roles. The string values are part of
// the wire contract shared with external provisioning tooling and must match
// the stored documents exactly.
type Role string

const (
	RoleSales    Role = "sales"
	RoleAdmin    Role = "admin"
	RoleProposal Role = "proposal"
	RoleHR       Role = "hr"
	// RoleDev is granted exclusively through the developer allow-list and is
	// never stored in the role registry.
	RoleDev Role = "dev"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleSales, RoleAdmin, RoleProposal, RoleHR, RoleDev}

// AssignableRoles lists the roles an administrator may place in the role
// registry. dev is excluded: it comes only from the allow-list.
var AssignableRoles = []Role{RoleSales, RoleAdmin, RoleProposal, RoleHR}

// ParseRole validates a wire-format role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSales, RoleAdmin, RoleProposal, RoleHR, RoleDev:
		return Role(s), nil
	}
	return "", ErrValidation("unknown role %q", s)
}

// ParseAssignableRole validates a role string that may be written to the role
// registry. Rejects dev.
func ParseAssignableRole(s string) (Role, error) {
	r, err := ParseRole(s)
	if err != nil {
		return "", err
	}
	if r == RoleDev {
		return "", ErrValidation("role dev cannot be assigned; it is allow-list only")
	}
	return r, nil
}

// DisplayName returns the human-readable role name used in activity messages.
func (r Role) DisplayName() string {
	switch r {
	case RoleSales:
		return "Sales"
	case RoleAdmin:
		return "Admin"
	case RoleProposal:
		return "Proposal Engineer"
	case RoleHR:
		return "HR"
	case RoleDev:
		return "Developer"
	}
	return string(r)
}

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }
