// Package finance implements fee structure authoring, ledger aggregation and receipt
// enrichment on top of the finance domain.
package finance

import (
	"context"

	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/domain/people"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// GuardianChecker answers whether caller is a guardian of a student
type GuardianChecker interface {
	IsGuardianOf(ctx context.Context, caller *identity.Identity, studentID uuid.UUID) (bool, error)
}

// StudentAccess loads a student and applies the finance visibility policy
type StudentAccess struct {
	students  people.StudentRepository
	guardians GuardianChecker
}

// NewStudentAccess creates a new StudentAccess
func NewStudentAccess(students people.StudentRepository, guardians GuardianChecker) *StudentAccess {
	return &StudentAccess{students: students, guardians: guardians}
}

// Authorize returns the student when caller may read its finances.
// Unknown students are NOT_FOUND; denials are FORBIDDEN.
func (a *StudentAccess) Authorize(ctx context.Context, caller *identity.Identity, studentID uuid.UUID) (*people.Student, error) {
	if caller == nil {
		return nil, shared.ErrUnauthenticated
	}

	student, err := a.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, shared.NewAggregationFailed("Failed to load student", err)
	}
	if student == nil {
		return nil, shared.NewNotFound("Student")
	}

	// The guardian link only matters for guardians
	isGuardian := false
	if caller.Role == identity.RoleGuardian {
		isGuardian, err = a.guardians.IsGuardianOf(ctx, caller, student.ID)
		if err != nil {
			return nil, err
		}
	}

	decision := identity.CanViewStudentFinance(caller, identity.StudentRef{
		StudentID: student.ID,
		ProfileID: student.ProfileID,
	}, isGuardian)
	if !decision.Allowed {
		return nil, shared.NewForbidden(decision.Reason)
	}
	return student, nil
}
