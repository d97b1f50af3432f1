package finance

import (
	"context"

	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeStructureFilter defines filtering options for fee structure queries
type FeeStructureFilter struct {
	shared.Filter
	AcademicYearID *uuid.UUID
	TermID         *uuid.UUID
	StudentType    *StudentType
}

// FeeStructureRepository defines the interface for fee structure persistence
type FeeStructureRepository interface {
	// FindByID finds a fee structure with its items; nil, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*FeeStructure, error)

	// FindByScope finds the structure of an (academic year, term, student type) triple
	FindByScope(ctx context.Context, academicYearID, termID uuid.UUID, studentType StudentType) (*FeeStructure, error)

	// FindAll lists fee structures without items
	FindAll(ctx context.Context, filter FeeStructureFilter) ([]FeeStructure, int64, error)

	// CreateHeader inserts the structure row only
	CreateHeader(ctx context.Context, fs *FeeStructure) error

	// CreateItems inserts the items of a structure
	CreateItems(ctx context.Context, items []FeeStructureItem) error

	// Delete removes a structure and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// CountItems returns the number of items of a structure
	CountItems(ctx context.Context, feeStructureID uuid.UUID) (int64, error)
}

// FeeStructureTxWriter is implemented by stores that can write a structure and its items atomically.
type FeeStructureTxWriter interface {
	// CreateWithItems writes header and items in one transaction
	CreateWithItems(ctx context.Context, fs *FeeStructure) error
}

// StudentFeeRepository defines the interface for student fee reads
type StudentFeeRepository interface {
	// FindByStudent returns the student's fee rows with year and term names
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]StudentFee, error)

	// SumBalancesByStudents returns the summed balance per student; absent students map to zero
	SumBalancesByStudents(ctx context.Context, studentIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// InvoiceRepository defines the interface for invoice reads
type InvoiceRepository interface {
	// FindOutstanding returns invoices with balance > 0 joined with student attributes,
	// ordered by invoice date then creation time
	FindOutstanding(ctx context.Context) ([]OutstandingInvoice, error)

	// FindByIDs returns invoices keyed by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Invoice, error)

	// SumOutstandingByStudent returns the student's open invoice balance
	SumOutstandingByStudent(ctx context.Context, studentID uuid.UUID) (decimal.Decimal, error)
}

// PaymentRepository defines the interface for payment reads
type PaymentRepository interface {
	// FindByIDs returns payments keyed by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Payment, error)
}

// ReceiptRepository defines the interface for receipt reads
type ReceiptRepository interface {
	// FindByStudent returns receipts newest first, applying date bounds and limit
	FindByStudent(ctx context.Context, studentID uuid.UUID, filter ReceiptFilter) ([]Receipt, error)
}
