package identity

// Role is the closed set of roles a profile can hold.
type Role string

const (
	RoleAdmin             Role = "admin"
	RoleHeadteacher       Role = "headteacher"
	RoleDeputyHeadteacher Role = "deputy_headteacher"
	RoleTeacher           Role = "teacher"
	RoleStudent           Role = "student"
	RoleGuardian          Role = "guardian"
)

// DefaultRole is assigned to profiles synthesized on first sign-in.
const DefaultRole = RoleStudent

// AllRoles lists every role in a stable order.
func AllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleHeadteacher,
		RoleDeputyHeadteacher,
		RoleTeacher,
		RoleStudent,
		RoleGuardian,
	}
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleHeadteacher, RoleDeputyHeadteacher, RoleTeacher, RoleStudent, RoleGuardian:
		return true
	}
	return false
}

// IsStaff reports whether r belongs to school administration.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleHeadteacher, RoleDeputyHeadteacher:
		return true
	}
	return false
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// ParseRole converts s to a Role. ok is false for unknown values.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}
