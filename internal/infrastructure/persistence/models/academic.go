package models

import (
	"time"

	"github.com/edusuite/backend/internal/domain/academic"
	"github.com/google/uuid"
)

// AcademicYearModel is the persistence model for academic.AcademicYear
type AcademicYearModel struct {
	BaseModel
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	IsCurrent bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AcademicYearModel) TableName() string {
	return "academic_years"
}

// ToDomain converts the persistence model to a domain AcademicYear
func (m *AcademicYearModel) ToDomain() *academic.AcademicYear {
	return &academic.AcademicYear{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		IsCurrent:  m.IsCurrent,
	}
}

// AcademicYearModelFromDomain creates a new persistence model from a domain AcademicYear
func AcademicYearModelFromDomain(y *academic.AcademicYear) *AcademicYearModel {
	m := &AcademicYearModel{
		Name:      y.Name,
		StartDate: y.StartDate,
		EndDate:   y.EndDate,
		IsCurrent: y.IsCurrent,
	}
	m.FromDomainBaseEntity(y.BaseEntity)
	return m
}

// TermModel is the persistence model for academic.Term
type TermModel struct {
	BaseModel
	AcademicYearID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(50);not null"`
	StartDate      time.Time `gorm:"type:date;not null"`
	EndDate        time.Time `gorm:"type:date;not null"`
	IsActive       bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (TermModel) TableName() string {
	return "terms"
}

// ToDomain converts the persistence model to a domain Term
func (m *TermModel) ToDomain() *academic.Term {
	return &academic.Term{
		BaseEntity:     m.BaseModel.ToDomain(),
		AcademicYearID: m.AcademicYearID,
		Name:           m.Name,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		IsActive:       m.IsActive,
	}
}

// TermModelFromDomain creates a new persistence model from a domain Term
func TermModelFromDomain(t *academic.Term) *TermModel {
	m := &TermModel{
		AcademicYearID: t.AcademicYearID,
		Name:           t.Name,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
		IsActive:       t.IsActive,
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

// ClassModel is the persistence model for academic.Class
type ClassModel struct {
	BaseModel
	Name       string `gorm:"type:varchar(100);not null"`
	GradeLevel string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (ClassModel) TableName() string {
	return "classes"
}

// ToDomain converts the persistence model to a domain Class
func (m *ClassModel) ToDomain() academic.Class {
	return academic.Class{ID: m.ID, Name: m.Name, GradeLevel: m.GradeLevel}
}

// SubjectModel is the persistence model for academic.Subject
type SubjectModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null"`
	Code string `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (SubjectModel) TableName() string {
	return "subjects"
}

// ToDomain converts the persistence model to a domain Subject
func (m *SubjectModel) ToDomain() academic.Subject {
	return academic.Subject{ID: m.ID, Name: m.Name, Code: m.Code}
}

// TeachingAssignmentModel is the persistence model for academic.TeachingAssignment
type TeachingAssignmentModel struct {
	BaseModel
	TeacherID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_teaching_assignment"`
	ClassID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_teaching_assignment"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_teaching_assignment"`
}

// TableName returns the table name for GORM
func (TeachingAssignmentModel) TableName() string {
	return "teaching_assignments"
}

// ToDomain converts the persistence model to a domain TeachingAssignment
func (m *TeachingAssignmentModel) ToDomain() academic.TeachingAssignment {
	return academic.TeachingAssignment{
		ID:        m.ID,
		TeacherID: m.TeacherID,
		ClassID:   m.ClassID,
		SubjectID: m.SubjectID,
	}
}
