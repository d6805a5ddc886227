package domain

// Action enumerates the privileged operations gated by role. Authorization
// decisions go through Role.Can at the service boundary instead of scattering
// role string comparisons through handlers.
type Action string

const (
	ActionManageUsers     Action = "manage_users"
	ActionInviteUser      Action = "invite_user"
	ActionManageEmployees Action = "manage_employees"
	ActionManageCustomers Action = "manage_customers"
	ActionCaptureLead     Action = "capture_lead"
	ActionQualifyLead     Action = "qualify_lead"
	ActionDecideProposal  Action = "decide_proposal"
	ActionCloseLead       Action = "close_lead"
	ActionEditProposal    Action = "edit_proposal"
	ActionDeleteLead      Action = "delete_lead"
	ActionViewDashboard   Action = "view_dashboard"
	ActionEditOwnProfile  Action = "edit_own_profile"
)

// capabilities is the single role→action table. dev holds every capability.
var capabilities = map[Action][]Role{
	ActionManageUsers:     {RoleAdmin, RoleDev},
	ActionInviteUser:      {RoleAdmin, RoleDev},
	ActionManageEmployees: {RoleHR, RoleAdmin, RoleDev},
	ActionManageCustomers: {RoleSales, RoleAdmin, RoleDev},
	ActionCaptureLead:     {RoleSales, RoleAdmin, RoleDev},
	ActionQualifyLead:     {RoleSales, RoleAdmin, RoleDev},
	ActionDecideProposal:  {RoleAdmin, RoleDev},
	ActionCloseLead:       {RoleAdmin, RoleDev},
	ActionEditProposal:    {RoleProposal, RoleAdmin, RoleDev},
	ActionDeleteLead:      {RoleAdmin, RoleDev},
	ActionViewDashboard:   {RoleSales, RoleAdmin, RoleProposal, RoleHR, RoleDev},
	ActionEditOwnProfile:  {RoleSales, RoleAdmin, RoleProposal, RoleHR, RoleDev},
}

// Can reports whether the role is permitted to perform the action.
// Unknown actions are always denied.
func (r Role) Can(a Action) bool {
	for _, allowed := range capabilities[a] {
		if r == allowed {
			return true
		}
	}
	return false
}
