package auth

import "strings"

// Role is a user's platform role as stored in the user collection.
type Role string

const (
	RoleStaff   Role = "Staff"   // logs check-ins, reads the dashboard
	RoleManager Role = "Manager" // additionally manages patient records and exports
	RoleAdmin   Role = "Admin"   // additionally manages users and roles
)

// Roles lists every valid role, in ascending privilege order.
var Roles = []Role{RoleStaff, RoleManager, RoleAdmin}

// ParseRole resolves a role string to its canonical form. Roles are
// stored capitalized but the UI lower-cases them for checks, so the
// comparison here is case-insensitive.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}

// Is reports whether r names the same role as other, ignoring case.
func (r Role) Is(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

// CanManagePatients reports whether the role may create, update, or
// delete patient records.
func (r Role) CanManagePatients() bool {
	return r.Is(RoleManager) || r.Is(RoleAdmin)
}

// CanManageUsers reports whether the role may administer user accounts.
func (r Role) CanManageUsers() bool {
	return r.Is(RoleAdmin)
}
