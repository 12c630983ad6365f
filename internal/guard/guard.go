package guard

import (
	"strings"

	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

// Role/active policy predicates. Every call site in the service goes through
// these functions; role strings from documents are never compared raw.

// NormalizeRole lowercases and trims a stored role string so that mixed-case
// or padded values ("Admin ", " CARER") compare equal to the canonical
// constants.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// CanLogin reports whether an account may authenticate into the admin
// console: role must be admin or superadmin and the active flag must be
// literally true.
func CanLogin(role string, active bool) bool {
	if !active {
		return false
	}
	switch NormalizeRole(role) {
	case models.RoleAdmin, models.RoleSuperadmin:
		return true
	}
	return false
}

// CanManage reports whether the acting admin may manage (view logs,
// deactivate, reactivate) the target account.
//
//   - nobody manages their own account
//   - a superadmin manages everyone else
//   - an admin manages carers and impaired users only
func CanManage(actingRole, actingID, targetID, targetRole string) bool {
	if actingID == "" || targetID == actingID {
		return false
	}
	switch NormalizeRole(actingRole) {
	case models.RoleSuperadmin:
		return true
	case models.RoleAdmin:
		t := NormalizeRole(targetRole)
		return t == models.RoleCarer || t == models.RoleImpaired
	}
	return false
}

// CanSeeAddAdminControl reports whether the "Add Admin" operation is
// available: superadmins only.
func CanSeeAddAdminControl(role string) bool {
	return NormalizeRole(role) == models.RoleSuperadmin
}
