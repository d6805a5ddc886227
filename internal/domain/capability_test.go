package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan_Table(t *testing.T) {
	tests := []struct {
		role    Role
		action  Action
		allowed bool
	}{
		{RoleSales, ActionManageCustomers, true},
		{RoleSales, ActionCaptureLead, true},
		{RoleSales, ActionQualifyLead, true},
		{RoleSales, ActionDecideProposal, false},
		{RoleSales, ActionCloseLead, false},
		{RoleSales, ActionDeleteLead, false},
		{RoleAdmin, ActionDeleteLead, true},
		{RoleSales, ActionManageUsers, false},
		{RoleSales, ActionManageEmployees, false},
		{RoleAdmin, ActionManageUsers, true},
		{RoleAdmin, ActionDecideProposal, true},
		{RoleAdmin, ActionCloseLead, true},
		{RoleAdmin, ActionEditProposal, true},
		{RoleProposal, ActionEditProposal, true},
		{RoleProposal, ActionManageCustomers, false},
		{RoleProposal, ActionQualifyLead, false},
		{RoleHR, ActionManageEmployees, true},
		{RoleHR, ActionManageCustomers, false},
		{RoleHR, ActionManageUsers, false},
		{RoleDev, ActionManageUsers, true},
		{RoleDev, ActionManageEmployees, true},
		{RoleDev, ActionDecideProposal, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.role.Can(tt.action),
			"%s / %s", tt.role, tt.action)
	}
}

func TestCan_EveryRoleHasBaseline(t *testing.T) {
	for _, role := range Roles {
		assert.True(t, role.Can(ActionViewDashboard), "%s should view dashboard", role)
		assert.True(t, role.Can(ActionEditOwnProfile), "%s should edit own profile", role)
	}
}

func TestCan_UnknownActionDenied(t *testing.T) {
	for _, role := range Roles {
		assert.False(t, role.Can(Action("rm_rf")))
	}
}
