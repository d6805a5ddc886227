package domain

import "time"

// Activity types recorded by the audit trail. The values are wire-visible and
// shared with external reporting tooling.
const (
	ActivityLeadCreated      = "Lead Created"
	ActivityLeadDeleted      = "Lead Deleted"
	ActivityStatusChange     = "Status Change"
	ActivityProposalSaved    = "Proposal Saved"
	ActivityProposalSent     = "Proposal Sent"
	ActivityCustomerCreated  = "Customer Created"
	ActivityCustomerUpdated  = "Customer Updated"
	ActivityCustomerDeleted  = "Customer Deleted"
	ActivityEmployeeCreated  = "Employee Created"
	ActivityEmployeeUpdated  = "Employee Updated"
	ActivityEmployeeDeleted  = "Employee Deleted"
	ActivityRoleChange       = "Role Change"
	ActivityUserDeleted      = "User Deleted"
	ActivityUserStatusChange = "User Status Change"
	ActivityUserInvited      = "User Invited"
	ActivityProfileUpdated   = "Profile Updated"
)

// Activity is a single audit record. ActorEmail and ActorName always identify
// the real signed-in account, never an impersonated role.
type Activity struct {
	ID          string
	Type        string
	Description string
	ActorEmail  string
	ActorName   string
	CreatedAt   time.Time
}

// ActivityFilter narrows an activity listing.
type ActivityFilter struct {
	Type       *string
	ActorEmail *string
	Page       PageRequest
}
