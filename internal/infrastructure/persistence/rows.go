package persistence

import (
	"time"

	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/edusuite/backend/internal/domain/people"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Typed projections of the joined read queries. Joined columns are nullable,
// so every one of them is a pointer and each entity has one normalization helper.

const studentColumns = "s.id, s.profile_id, s.student_code, s.class_id, s.status, s.created_at, s.updated_at, " +
	"p.first_name, p.last_name, c.name AS class_name"

type studentRow struct {
	ID          uuid.UUID
	ProfileID   uuid.UUID
	StudentCode string
	ClassID     *uuid.UUID
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FirstName   *string
	LastName    *string
	ClassName   *string
}

func (r *studentRow) toDomain() *people.Student {
	return &people.Student{
		BaseEntity: shared.BaseEntity{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
		ProfileID:  r.ProfileID,
		Code:       r.StudentCode,
		ClassID:    r.ClassID,
		Status:     people.StudentStatus(r.Status),
		FirstName:  deref(r.FirstName),
		LastName:   deref(r.LastName),
		ClassName:  deref(r.ClassName),
	}
}

type studentFeeRow struct {
	ID               uuid.UUID
	StudentID        uuid.UUID
	AcademicYearID   uuid.UUID
	TermID           uuid.UUID
	TotalAmount      decimal.Decimal
	AmountPaid       decimal.Decimal
	Balance          decimal.Decimal
	CreatedAt        time.Time
	AcademicYearName *string
	TermName         *string
}

func (r *studentFeeRow) toDomain() finance.StudentFee {
	return finance.StudentFee{
		ID:               r.ID,
		StudentID:        r.StudentID,
		AcademicYearID:   r.AcademicYearID,
		TermID:           r.TermID,
		TotalAmount:      r.TotalAmount,
		AmountPaid:       r.AmountPaid,
		Balance:          r.Balance,
		CreatedAt:        r.CreatedAt,
		AcademicYearName: deref(r.AcademicYearName),
		TermName:         deref(r.TermName),
	}
}

type outstandingRow struct {
	InvoiceID   uuid.UUID
	StudentID   uuid.UUID
	StudentCode *string
	FirstName   *string
	LastName    *string
	ClassName   *string
	InvoiceDate time.Time
	Balance     decimal.Decimal
}

func (r *outstandingRow) toDomain() finance.OutstandingInvoice {
	s := people.Student{
		Code:      deref(r.StudentCode),
		FirstName: deref(r.FirstName),
		LastName:  deref(r.LastName),
	}
	return finance.OutstandingInvoice{
		InvoiceID:   r.InvoiceID,
		StudentID:   r.StudentID,
		StudentCode: s.Code,
		StudentName: s.FullName(),
		ClassName:   deref(r.ClassName),
		InvoiceDate: r.InvoiceDate,
		Balance:     r.Balance,
	}
}

type feeStructureRow struct {
	models.FeeStructureModel
	AcademicYearName *string
	TermName         *string
}

func (r *feeStructureRow) toDomain() *finance.FeeStructure {
	fs := r.FeeStructureModel.ToDomain()
	fs.AcademicYearName = deref(r.AcademicYearName)
	fs.TermName = deref(r.TermName)
	return fs
}

type guardianPhoneRow struct {
	StudentID     uuid.UUID
	GuardianPhone *string
	ProfilePhone  *string
}

func (r *guardianPhoneRow) phone() string {
	if p := deref(r.GuardianPhone); p != "" {
		return p
	}
	return deref(r.ProfilePhone)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
