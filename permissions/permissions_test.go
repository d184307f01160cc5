package permissions

import (
	"testing"

	"aquacare-backend/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestRolePredicates(t *testing.T) {
	tests := []struct {
		name  string
		check func(Role) bool
		allow []Role
		deny  []Role
	}{
		{
			name:  "manage customers",
			check: CanManageCustomers,
			allow: []Role{RoleSuperAdmin, RoleManager},
			deny:  []Role{RoleStaff, RoleTechnician},
		},
		{
			name:  "manage staff",
			check: CanManageStaff,
			allow: []Role{RoleSuperAdmin, RoleManager},
			deny:  []Role{RoleStaff, RoleTechnician},
		},
		{
			name:  "manage branches",
			check: CanManageBranches,
			allow: []Role{RoleSuperAdmin, RoleManager},
			deny:  []Role{RoleStaff, RoleTechnician},
		},
		{
			name:  "create or edit",
			check: CanCreateOrEdit,
			allow: []Role{RoleSuperAdmin, RoleManager, RoleStaff, RoleTechnician},
			deny:  []Role{Role("unknown"), Role("")},
		},
		{
			name:  "assign technician",
			check: CanAssignTechnician,
			allow: []Role{RoleSuperAdmin, RoleManager, RoleStaff},
			deny:  []Role{RoleTechnician},
		},
		{
			name:  "delete",
			check: CanDelete,
			allow: []Role{RoleSuperAdmin},
			deny:  []Role{RoleManager, RoleStaff, RoleTechnician},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, r := range tt.allow {
				assert.True(t, tt.check(r), "expected %s allowed for %s", tt.name, r)
			}
			for _, r := range tt.deny {
				assert.False(t, tt.check(r), "expected %s denied for %s", tt.name, r)
			}
		})
	}
}

func TestCheckDelete(t *testing.T) {
	// The disable rule beats the role capability, even for superadmin.
	for _, entity := range []string{"invoice", "service"} {
		for _, r := range []Role{RoleSuperAdmin, RoleManager, RoleStaff, RoleTechnician} {
			assert.ErrorIs(t, CheckDelete(r, entity), apperrors.ErrDeleteDisabled)
		}
	}

	assert.NoError(t, CheckDelete(RoleSuperAdmin, "expense"))
	assert.ErrorIs(t, CheckDelete(RoleManager, "expense"), apperrors.ErrForbidden)
	assert.ErrorIs(t, CheckDelete(RoleTechnician, "customer"), apperrors.ErrForbidden)
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("technician")
	assert.True(t, ok)
	assert.Equal(t, RoleTechnician, r)

	_, ok = ParseRole("admin")
	assert.False(t, ok)
}
