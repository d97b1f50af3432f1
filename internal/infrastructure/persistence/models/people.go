package models

import (
	"github.com/edusuite/backend/internal/domain/people"
	"github.com/google/uuid"
)

// StudentModel is the persistence model for people.Student.
// Names live on the linked profile and the class name on classes.
type StudentModel struct {
	BaseModel
	ProfileID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	StudentCode string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClassID     *uuid.UUID `gorm:"type:uuid;index"`
	StudentType string     `gorm:"type:varchar(20);not null;default:'internal'"`
	Status      string     `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (StudentModel) TableName() string {
	return "students"
}

// GuardianModel is the persistence model for people.Guardian
type GuardianModel struct {
	BaseModel
	ProfileID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Phone      string    `gorm:"type:varchar(50)"`
	Occupation string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (GuardianModel) TableName() string {
	return "guardians"
}

// ToDomain converts the persistence model to a domain Guardian
func (m *GuardianModel) ToDomain() *people.Guardian {
	return &people.Guardian{
		BaseEntity: m.BaseModel.ToDomain(),
		ProfileID:  m.ProfileID,
		Phone:      m.Phone,
		Occupation: m.Occupation,
	}
}

// TeacherModel is the persistence model for people.Teacher
type TeacherModel struct {
	BaseModel
	ProfileID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	EmployeeNumber string    `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (TeacherModel) TableName() string {
	return "teachers"
}

// ToDomain converts the persistence model to a domain Teacher
func (m *TeacherModel) ToDomain() *people.Teacher {
	return &people.Teacher{
		BaseEntity:     m.BaseModel.ToDomain(),
		ProfileID:      m.ProfileID,
		EmployeeNumber: m.EmployeeNumber,
	}
}

// AdminModel marks a profile as an administrator record.
type AdminModel struct {
	BaseModel
	ProfileID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (AdminModel) TableName() string {
	return "admins"
}

// StudentGuardianModel is the persistence model for people.StudentGuardian.
// The single-primary rule is backed by a partial unique index created in the SQL migrations.
type StudentGuardianModel struct {
	BaseModel
	StudentID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_student_guardian"`
	GuardianID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_student_guardian;index"`
	Relationship       string    `gorm:"type:varchar(50);not null;default:'guardian'"`
	IsPrimary          bool      `gorm:"not null;default:false"`
	IsEmergencyContact bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (StudentGuardianModel) TableName() string {
	return "student_guardians"
}

// ToDomain converts the persistence model to a domain StudentGuardian
func (m *StudentGuardianModel) ToDomain() *people.StudentGuardian {
	return &people.StudentGuardian{
		BaseEntity:         m.BaseModel.ToDomain(),
		StudentID:          m.StudentID,
		GuardianID:         m.GuardianID,
		Relationship:       m.Relationship,
		IsPrimary:          m.IsPrimary,
		IsEmergencyContact: m.IsEmergencyContact,
	}
}

// StudentGuardianModelFromDomain creates a new persistence model from a domain StudentGuardian
func StudentGuardianModelFromDomain(l *people.StudentGuardian) *StudentGuardianModel {
	m := &StudentGuardianModel{
		StudentID:          l.StudentID,
		GuardianID:         l.GuardianID,
		Relationship:       l.Relationship,
		IsPrimary:          l.IsPrimary,
		IsEmergencyContact: l.IsEmergencyContact,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}
