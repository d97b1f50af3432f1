// Package academic holds the school calendar and teaching structure.
package academic

import (
	"strings"
	"time"

	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AcademicYear is a named school year such as "2025/2026".
type AcademicYear struct {
	shared.BaseEntity
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsCurrent bool
}

// Term is a period within an academic year. At most one term is active at a time.
type Term struct {
	shared.BaseEntity
	AcademicYearID uuid.UUID
	Name           string
	StartDate      time.Time
	EndDate        time.Time
	IsActive       bool
}

// BelongsTo reports whether the term is part of the given academic year.
func (t *Term) BelongsTo(academicYearID uuid.UUID) bool {
	return t.AcademicYearID == academicYearID
}

// NewAcademicYear validates and creates an academic year.
func NewAcademicYear(name string, start, end time.Time) (*AcademicYear, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewInvalidInput("Academic year name is required")
	}
	if !end.After(start) {
		return nil, shared.NewInvalidInput("Academic year must end after it starts")
	}
	return &AcademicYear{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		StartDate:  start,
		EndDate:    end,
	}, nil
}

// NewTerm validates and creates a term of year.
func NewTerm(year *AcademicYear, name string, start, end time.Time) (*Term, error) {
	if year == nil {
		return nil, shared.NewInvalidInput("Term requires an academic year")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewInvalidInput("Term name is required")
	}
	if !end.After(start) {
		return nil, shared.NewInvalidInput("Term must end after it starts")
	}
	return &Term{
		BaseEntity:     shared.NewBaseEntity(),
		AcademicYearID: year.ID,
		Name:           name,
		StartDate:      start,
		EndDate:        end,
	}, nil
}

// Class is a teaching group such as "Grade 7 Blue".
type Class struct {
	ID         uuid.UUID
	Name       string
	GradeLevel string
}

// Subject is a taught subject.
type Subject struct {
	ID   uuid.UUID
	Name string
	Code string
}

// TeachingAssignment ties a teacher to a subject in a class.
type TeachingAssignment struct {
	ID        uuid.UUID
	TeacherID uuid.UUID
	ClassID   uuid.UUID
	SubjectID uuid.UUID
}

// DistinctClassesAndSubjects collapses assignments into distinct class and subject ID lists,
// preserving first-seen order.
func DistinctClassesAndSubjects(assignments []TeachingAssignment) (classIDs, subjectIDs []uuid.UUID) {
	seenClass := make(map[uuid.UUID]struct{})
	seenSubject := make(map[uuid.UUID]struct{})
	for _, a := range assignments {
		if _, ok := seenClass[a.ClassID]; !ok {
			seenClass[a.ClassID] = struct{}{}
			classIDs = append(classIDs, a.ClassID)
		}
		if _, ok := seenSubject[a.SubjectID]; !ok {
			seenSubject[a.SubjectID] = struct{}{}
			subjectIDs = append(subjectIDs, a.SubjectID)
		}
	}
	return classIDs, subjectIDs
}
