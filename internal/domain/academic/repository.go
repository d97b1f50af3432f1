package academic

import (
	"context"

	"github.com/google/uuid"
)

// AcademicYearRepository defines the interface for academic year persistence
type AcademicYearRepository interface {
	// FindByID finds an academic year by ID; returns nil, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*AcademicYear, error)
	// FindByIDs returns academic years keyed by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*AcademicYear, error)
	// FindAll returns all academic years, newest start first
	FindAll(ctx context.Context) ([]AcademicYear, error)
	// Save creates or updates an academic year
	Save(ctx context.Context, year *AcademicYear) error
}

// TermRepository defines the interface for term persistence
type TermRepository interface {
	// FindByID finds a term by ID; returns nil, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Term, error)
	// FindByIDs returns terms keyed by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Term, error)
	// FindAll returns terms, optionally restricted to one academic year, ordered by start date
	FindAll(ctx context.Context, academicYearID *uuid.UUID) ([]Term, error)
	// FindActive returns the active term; nil, nil when none
	FindActive(ctx context.Context) (*Term, error)
	// Activate makes termID the only active term, atomically
	Activate(ctx context.Context, termID uuid.UUID) error
	// Save creates or updates a term
	Save(ctx context.Context, term *Term) error
}

// TeachingRepository reads teaching structure.
type TeachingRepository interface {
	// FindAssignmentsByTeacher returns the assignments of a teacher
	FindAssignmentsByTeacher(ctx context.Context, teacherID uuid.UUID) ([]TeachingAssignment, error)
	// FindClassesByIDs returns classes ordered by name
	FindClassesByIDs(ctx context.Context, ids []uuid.UUID) ([]Class, error)
	// FindSubjectsByIDs returns subjects ordered by name
	FindSubjectsByIDs(ctx context.Context, ids []uuid.UUID) ([]Subject, error)
}
