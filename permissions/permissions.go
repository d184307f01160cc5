// Package permissions is the role gate every mutating endpoint passes
// through. All checks are pure functions of (role, action); nothing is
// cached and nothing reads ambient state.
package permissions

import "aquacare-backend/apperrors"

type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleManager    Role = "manager"
	RoleStaff      Role = "staff"
	RoleTechnician Role = "technician"
)

// ParseRole rejects unknown role strings at the boundary.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSuperAdmin, RoleManager, RoleStaff, RoleTechnician:
		return Role(s), true
	}
	return "", false
}

func CanManageCustomers(r Role) bool {
	return r == RoleSuperAdmin || r == RoleManager
}

func CanManageStaff(r Role) bool {
	return r == RoleSuperAdmin || r == RoleManager
}

func CanManageBranches(r Role) bool {
	return r == RoleSuperAdmin || r == RoleManager
}

// CanCreateOrEdit covers services, invoices and expenses. Technicians
// are included because they close out their own work orders in the
// field.
func CanCreateOrEdit(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleManager, RoleStaff, RoleTechnician:
		return true
	}
	return false
}

// Technicians cannot reassign their own or anyone else's work.
func CanAssignTechnician(r Role) bool {
	return r == RoleSuperAdmin || r == RoleManager || r == RoleStaff
}

func CanDelete(r Role) bool {
	return r == RoleSuperAdmin
}

// Entities whose delete endpoints are permanently disabled, for every
// role. This is a business rule, not a role capability.
var deleteDisabled = map[string]bool{
	"invoice": true,
	"service": true,
}

// CheckDelete combines the hard delete-disable rule with the role
// capability. The disable rule wins even for superadmin.
func CheckDelete(r Role, entity string) error {
	if deleteDisabled[entity] {
		return apperrors.ErrDeleteDisabled
	}
	if !CanDelete(r) {
		return apperrors.ErrForbidden
	}
	return nil
}
