package relationship

import (
	"github.com/edusuite/backend/internal/domain/academic"
	"github.com/edusuite/backend/internal/domain/people"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StudentSummary is a student as seen from a guardian, teacher or staff member.
type StudentSummary struct {
	StudentID    uuid.UUID
	ProfileID    uuid.UUID
	Code         string
	FullName     string
	ClassID      *uuid.UUID
	ClassName    string
	Status       people.StudentStatus
	Relationship string
	IsPrimary    bool

	// OutstandingBalance is set only when HasBalance is true.
	OutstandingBalance decimal.Decimal
	HasBalance         bool
}

// TeachingLoad is the distinct classes and subjects a teacher is assigned to.
type TeachingLoad struct {
	Classes  []academic.Class
	Subjects []academic.Subject
}

// LinkGuardianInput links a guardian to a student
type LinkGuardianInput struct {
	StudentID          uuid.UUID `validate:"required"`
	GuardianID         uuid.UUID `validate:"required"`
	Relationship       string    `validate:"omitempty,max=50"`
	IsPrimary          bool
	IsEmergencyContact bool
}

func summaryOf(s *people.Student) StudentSummary {
	return StudentSummary{
		StudentID: s.ID,
		ProfileID: s.ProfileID,
		Code:      s.Code,
		FullName:  s.FullName(),
		ClassID:   s.ClassID,
		ClassName: s.ClassName,
		Status:    s.Status,
	}
}
