package school

// UserRole is the account level role stored on the user record and stamped
// into session claims.
type UserRole string

const (
	// RoleRegular is the role every new registration gets. Registration
	// ignores any client supplied role.
	RoleRegular UserRole = "regular"
	// RoleAdmin unlocks the user directory and the student records routes.
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleRegular, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAtLeast checks if the role grants at least the given role
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	return roleRank(r) >= roleRank(minRole)
}

func roleRank(r UserRole) int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleRegular:
		return 1
	default:
		return 0
	}
}
