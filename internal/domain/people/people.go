// Package people holds students, guardians, teachers and the links between them.
package people

import (
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StudentStatus is the enrollment status of a student.
type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusInactive StudentStatus = "inactive"
	StudentStatusFlagged  StudentStatus = "flagged"
	StudentStatusArchived StudentStatus = "archived"
)

// IsValid checks if the status is valid
func (s StudentStatus) IsValid() bool {
	switch s {
	case StudentStatusActive, StudentStatusInactive, StudentStatusFlagged, StudentStatusArchived:
		return true
	}
	return false
}

// String returns the string representation
func (s StudentStatus) String() string {
	return string(s)
}

// Student is an enrolled learner. Code is the human-facing business identifier.
type Student struct {
	shared.BaseEntity
	ProfileID uuid.UUID
	Code      string
	ClassID   *uuid.UUID
	Status    StudentStatus

	// Read-side fields filled from joins.
	FirstName string
	LastName  string
	ClassName string
}

// FullName returns the student's display name, falling back to the code.
func (s *Student) FullName() string {
	name := joinName(s.FirstName, s.LastName)
	if name == "" {
		return s.Code
	}
	return name
}

// Guardian is a parent or carer linked to one or more students.
type Guardian struct {
	shared.BaseEntity
	ProfileID  uuid.UUID
	Phone      string
	Occupation string
}

// Teacher is a teaching staff member.
type Teacher struct {
	shared.BaseEntity
	ProfileID      uuid.UUID
	EmployeeNumber string
}

// StudentGuardian links a guardian to a student.
type StudentGuardian struct {
	shared.BaseEntity
	StudentID          uuid.UUID
	GuardianID         uuid.UUID
	Relationship       string
	IsPrimary          bool
	IsEmergencyContact bool
}

// NewStudentGuardian validates and creates a link.
func NewStudentGuardian(studentID, guardianID uuid.UUID, relationship string, primary, emergency bool) (*StudentGuardian, error) {
	if studentID == uuid.Nil || guardianID == uuid.Nil {
		return nil, shared.NewInvalidInput("Student and guardian are required")
	}
	if relationship == "" {
		relationship = "guardian"
	}
	return &StudentGuardian{
		BaseEntity:         shared.NewBaseEntity(),
		StudentID:          studentID,
		GuardianID:         guardianID,
		Relationship:       relationship,
		IsPrimary:          primary,
		IsEmergencyContact: emergency,
	}, nil
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
