package people

import (
	"context"

	"github.com/google/uuid"
)

// StudentRepository defines the interface for student persistence
type StudentRepository interface {
	// FindByID finds a student by ID with name and class filled; nil, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Student, error)
	// FindByIDs returns students keyed by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Student, error)
	// FindByClassIDs returns active students of the given classes ordered by name
	FindByClassIDs(ctx context.Context, classIDs []uuid.UUID) ([]Student, error)
	// FindActive returns all active students ordered by name
	FindActive(ctx context.Context) ([]Student, error)
}

// GuardianRepository defines the interface for guardian persistence
type GuardianRepository interface {
	// FindByID finds a guardian by ID; nil, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Guardian, error)
	// FindByProfileID finds the guardian record of a profile; nil, nil when absent
	FindByProfileID(ctx context.Context, profileID uuid.UUID) (*Guardian, error)
	// FindPrimaryPhones returns the primary guardian's phone per student, in one query
	FindPrimaryPhones(ctx context.Context, studentIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

// TeacherRepository defines the interface for teacher persistence
type TeacherRepository interface {
	// FindByProfileID finds the teacher record of a profile; nil, nil when absent
	FindByProfileID(ctx context.Context, profileID uuid.UUID) (*Teacher, error)
}

// StudentGuardianRepository defines the interface for guardian link persistence
type StudentGuardianRepository interface {
	// Exists reports whether the guardian is linked to the student
	Exists(ctx context.Context, guardianID, studentID uuid.UUID) (bool, error)
	// FindByGuardian returns the guardian's links, primary first
	FindByGuardian(ctx context.Context, guardianID uuid.UUID) ([]StudentGuardian, error)
	// Link stores the link; when it is primary, other primary links of the student are demoted
	// in the same transaction
	Link(ctx context.Context, link *StudentGuardian) error
}
