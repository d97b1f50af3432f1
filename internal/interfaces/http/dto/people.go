package dto

import (
	"time"

	"github.com/edusuite/backend/internal/application/relationship"
	"github.com/edusuite/backend/internal/domain/academic"
	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/domain/people"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MeResponse describes the signed-in caller
type MeResponse struct {
	ProfileID   uuid.UUID `json:"profile_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
}

// ToMeResponse converts a caller identity with its effective permissions
func ToMeResponse(caller *identity.Identity, perms identity.PermissionSet) MeResponse {
	sorted := perms.Sorted()
	names := make([]string, 0, len(sorted))
	for _, p := range sorted {
		names = append(names, p.String())
	}
	return MeResponse{
		ProfileID:   caller.ProfileID,
		Email:       caller.Email,
		DisplayName: caller.DisplayName,
		Role:        caller.Role.String(),
		Permissions: names,
	}
}

// StudentSummaryResponse is a student as seen by a guardian, teacher or staff member
type StudentSummaryResponse struct {
	StudentID          uuid.UUID        `json:"student_id"`
	StudentCode        string           `json:"student_code"`
	FullName           string           `json:"full_name"`
	ClassID            *uuid.UUID       `json:"class_id,omitempty"`
	ClassName          string           `json:"class_name,omitempty"`
	Status             string           `json:"status"`
	Relationship       string           `json:"relationship,omitempty"`
	IsPrimary          bool             `json:"is_primary"`
	OutstandingBalance *decimal.Decimal `json:"outstanding_balance,omitempty"`
}

// ToStudentSummaryResponse converts a student summary; the balance is omitted when unknown
func ToStudentSummaryResponse(s relationship.StudentSummary) StudentSummaryResponse {
	resp := StudentSummaryResponse{
		StudentID:    s.StudentID,
		StudentCode:  s.Code,
		FullName:     s.FullName,
		ClassID:      s.ClassID,
		ClassName:    s.ClassName,
		Status:       string(s.Status),
		Relationship: s.Relationship,
		IsPrimary:    s.IsPrimary,
	}
	if s.HasBalance {
		balance := s.OutstandingBalance
		resp.OutstandingBalance = &balance
	}
	return resp
}

// ToStudentSummaryResponses converts a list of student summaries
func ToStudentSummaryResponses(items []relationship.StudentSummary) []StudentSummaryResponse {
	out := make([]StudentSummaryResponse, 0, len(items))
	for _, s := range items {
		out = append(out, ToStudentSummaryResponse(s))
	}
	return out
}

// ClassResponse is a class reference
type ClassResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	GradeLevel string    `json:"grade_level,omitempty"`
}

// SubjectResponse is a subject reference
type SubjectResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code,omitempty"`
}

// TeachingLoadResponse lists the classes and subjects a teacher is assigned to
type TeachingLoadResponse struct {
	Classes  []ClassResponse   `json:"classes"`
	Subjects []SubjectResponse `json:"subjects"`
}

// ToTeachingLoadResponse converts a teaching load; both lists are never null
func ToTeachingLoadResponse(load *relationship.TeachingLoad) TeachingLoadResponse {
	resp := TeachingLoadResponse{
		Classes:  make([]ClassResponse, 0, len(load.Classes)),
		Subjects: make([]SubjectResponse, 0, len(load.Subjects)),
	}
	for _, c := range load.Classes {
		resp.Classes = append(resp.Classes, ClassResponse{ID: c.ID, Name: c.Name, GradeLevel: c.GradeLevel})
	}
	for _, s := range load.Subjects {
		resp.Subjects = append(resp.Subjects, SubjectResponse{ID: s.ID, Name: s.Name, Code: s.Code})
	}
	return resp
}

// LinkGuardianRequest links a guardian to the student in the path
type LinkGuardianRequest struct {
	GuardianID         uuid.UUID `json:"guardian_id" binding:"required"`
	Relationship       string    `json:"relationship"`
	IsPrimary          bool      `json:"is_primary"`
	IsEmergencyContact bool      `json:"is_emergency_contact"`
}

// StudentGuardianResponse is a guardian link
type StudentGuardianResponse struct {
	ID                 uuid.UUID `json:"id"`
	StudentID          uuid.UUID `json:"student_id"`
	GuardianID         uuid.UUID `json:"guardian_id"`
	Relationship       string    `json:"relationship"`
	IsPrimary          bool      `json:"is_primary"`
	IsEmergencyContact bool      `json:"is_emergency_contact"`
	CreatedAt          time.Time `json:"created_at"`
}

// ToStudentGuardianResponse converts a guardian link
func ToStudentGuardianResponse(l *people.StudentGuardian) StudentGuardianResponse {
	return StudentGuardianResponse{
		ID:                 l.ID,
		StudentID:          l.StudentID,
		GuardianID:         l.GuardianID,
		Relationship:       l.Relationship,
		IsPrimary:          l.IsPrimary,
		IsEmergencyContact: l.IsEmergencyContact,
		CreatedAt:          l.CreatedAt,
	}
}

// AcademicYearResponse is an academic year
type AcademicYearResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsCurrent bool      `json:"is_current"`
}

// ToAcademicYearResponses converts academic years
func ToAcademicYearResponses(years []academic.AcademicYear) []AcademicYearResponse {
	out := make([]AcademicYearResponse, 0, len(years))
	for _, y := range years {
		out = append(out, AcademicYearResponse{
			ID:        y.ID,
			Name:      y.Name,
			StartDate: y.StartDate,
			EndDate:   y.EndDate,
			IsCurrent: y.IsCurrent,
		})
	}
	return out
}

// TermResponse is a term
type TermResponse struct {
	ID             uuid.UUID `json:"id"`
	AcademicYearID uuid.UUID `json:"academic_year_id"`
	Name           string    `json:"name"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	IsActive       bool      `json:"is_active"`
}

// ToTermResponse converts a term
func ToTermResponse(t *academic.Term) TermResponse {
	return TermResponse{
		ID:             t.ID,
		AcademicYearID: t.AcademicYearID,
		Name:           t.Name,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
		IsActive:       t.IsActive,
	}
}

// ToTermResponses converts terms
func ToTermResponses(terms []academic.Term) []TermResponse {
	out := make([]TermResponse, 0, len(terms))
	for i := range terms {
		out = append(out, ToTermResponse(&terms[i]))
	}
	return out
}

// FeatureFlagsResponse exposes the runtime feature switches
type FeatureFlagsResponse struct {
	ReportsEnabled bool `json:"reports_enabled"`
}
