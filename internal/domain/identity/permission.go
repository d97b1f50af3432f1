package identity

import "sort"

// Permission is a resource:action capability.
type Permission string

const (
	PermFeesViewOwn         Permission = "fees:view_own"
	PermFeesViewChildren    Permission = "fees:view_children"
	PermFeesViewAll         Permission = "fees:view_all"
	PermFeeStructuresView   Permission = "fee_structures:view"
	PermFeeStructuresManage Permission = "fee_structures:manage"
	PermTermsManage         Permission = "terms:manage"
	PermGuardiansManage     Permission = "guardians:manage"
	PermStudentsViewAll     Permission = "students:view_all"
	PermStudentsViewClass   Permission = "students:view_class"
	PermReportsGenerate     Permission = "reports:generate"
)

// AllPermissions lists every permission in a stable order.
func AllPermissions() []Permission {
	return []Permission{
		PermFeesViewOwn,
		PermFeesViewChildren,
		PermFeesViewAll,
		PermFeeStructuresView,
		PermFeeStructuresManage,
		PermTermsManage,
		PermGuardiansManage,
		PermStudentsViewAll,
		PermStudentsViewClass,
		PermReportsGenerate,
	}
}

// IsValid reports whether p is part of the closed permission set.
func (p Permission) IsValid() bool {
	for _, known := range AllPermissions() {
		if p == known {
			return true
		}
	}
	return false
}

// String returns the string representation
func (p Permission) String() string {
	return string(p)
}

// PermissionSet is an unordered set of permissions.
type PermissionSet map[Permission]struct{}

func newPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether p is in the set.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Without returns a copy of s with the given permissions removed.
func (s PermissionSet) Without(perms ...Permission) PermissionSet {
	out := make(PermissionSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	for _, p := range perms {
		delete(out, p)
	}
	return out
}

// Sorted returns the permissions in lexical order.
func (s PermissionSet) Sorted() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PermissionsFor returns the permission set granted to role.
// Unknown roles get the empty set.
func PermissionsFor(role Role) PermissionSet {
	switch role {
	case RoleAdmin:
		return newPermissionSet(AllPermissions()...)
	case RoleHeadteacher:
		return newPermissionSet(
			PermFeesViewAll,
			PermFeeStructuresView,
			PermFeeStructuresManage,
			PermTermsManage,
			PermGuardiansManage,
			PermStudentsViewAll,
			PermReportsGenerate,
		)
	case RoleDeputyHeadteacher:
		return newPermissionSet(
			PermFeesViewAll,
			PermFeeStructuresView,
			PermStudentsViewAll,
			PermReportsGenerate,
		)
	case RoleTeacher:
		return newPermissionSet(
			PermStudentsViewClass,
		)
	case RoleStudent:
		return newPermissionSet(
			PermFeesViewOwn,
		)
	case RoleGuardian:
		return newPermissionSet(
			PermFeesViewChildren,
		)
	}
	return PermissionSet{}
}

// HasPermission reports whether id's role grants p.
func HasPermission(id *Identity, p Permission) bool {
	if id == nil {
		return false
	}
	return PermissionsFor(id.Role).Has(p)
}
