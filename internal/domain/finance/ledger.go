package finance

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StudentFee is a student's billed, paid and outstanding amounts for one term.
// Balance is written by the billing process and only read here.
type StudentFee struct {
	ID               uuid.UUID
	StudentID        uuid.UUID
	AcademicYearID   uuid.UUID
	TermID           uuid.UUID
	TotalAmount      decimal.Decimal
	AmountPaid       decimal.Decimal
	Balance          decimal.Decimal
	CreatedAt        time.Time
	AcademicYearName string
	TermName         string
}

// FeeSummary is the folded view of a student's StudentFee rows.
type FeeSummary struct {
	StudentID          uuid.UUID
	TotalFees          decimal.Decimal
	TotalPaid          decimal.Decimal
	OutstandingBalance decimal.Decimal
	Breakdown          []StudentFee

	// InvoiceOutstanding is the sum of the student's open invoice balances.
	// Reconciled is true when it matches OutstandingBalance.
	InvoiceOutstanding decimal.Decimal
	Reconciled         bool
}

// SummarizeStudentFees folds rows into totals. The breakdown is ordered newest first.
// An empty input yields zero totals and an empty, non-nil breakdown.
func SummarizeStudentFees(studentID uuid.UUID, rows []StudentFee) FeeSummary {
	summary := FeeSummary{
		StudentID:          studentID,
		TotalFees:          decimal.Zero,
		TotalPaid:          decimal.Zero,
		OutstandingBalance: decimal.Zero,
		InvoiceOutstanding: decimal.Zero,
		Breakdown:          make([]StudentFee, len(rows)),
	}
	copy(summary.Breakdown, rows)
	sort.SliceStable(summary.Breakdown, func(i, j int) bool {
		return summary.Breakdown[i].CreatedAt.After(summary.Breakdown[j].CreatedAt)
	})

	for _, r := range rows {
		summary.TotalFees = summary.TotalFees.Add(r.TotalAmount)
		summary.TotalPaid = summary.TotalPaid.Add(r.AmountPaid)
		summary.OutstandingBalance = summary.OutstandingBalance.Add(r.Balance)
	}
	return summary
}

// Reconcile records the invoice-side outstanding amount on the summary.
func (s *FeeSummary) Reconcile(invoiceOutstanding decimal.Decimal) {
	s.InvoiceOutstanding = invoiceOutstanding
	s.Reconciled = invoiceOutstanding.Equal(s.OutstandingBalance)
}
