package identity

import "github.com/google/uuid"

// StudentRef identifies a student for an access decision.
type StudentRef struct {
	StudentID uuid.UUID
	ProfileID uuid.UUID
}

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// CanViewStudentFinance decides whether caller may read the finances of student.
// isGuardian must be the result of the guardian link lookup for caller and student.
func CanViewStudentFinance(caller *Identity, student StudentRef, isGuardian bool) Decision {
	if caller == nil {
		return deny("no caller")
	}
	if caller.ProfileID != uuid.Nil && caller.ProfileID == student.ProfileID {
		return allow("self")
	}
	if caller.Role.IsStaff() {
		return allow("staff")
	}
	if caller.Role == RoleGuardian && isGuardian {
		return allow("guardian")
	}
	return deny("you do not have permission to view this student's finances")
}

// CanManageFeeStructures reports whether caller may create fee structures.
func CanManageFeeStructures(caller *Identity) Decision {
	if HasPermission(caller, PermFeeStructuresManage) {
		return allow("fee_structures:manage")
	}
	return deny("only admins and headteachers can create fee structures")
}

// CanViewAllFees reports whether caller may read school-wide ledgers.
func CanViewAllFees(caller *Identity) Decision {
	if HasPermission(caller, PermFeesViewAll) {
		return allow("fees:view_all")
	}
	return deny("you do not have permission to view school-wide fees")
}
