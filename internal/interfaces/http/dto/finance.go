package dto

import (
	"time"

	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeStructureItemResponse is one charge of a fee structure
type FeeStructureItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	IsMandatory  bool            `json:"is_mandatory"`
	DisplayOrder int             `json:"display_order"`
}

// FeeStructureResponse is a fee structure; Items is omitted from list results
type FeeStructureResponse struct {
	ID               uuid.UUID                  `json:"id"`
	Name             string                     `json:"name"`
	AcademicYearID   uuid.UUID                  `json:"academic_year_id"`
	AcademicYearName string                     `json:"academic_year_name,omitempty"`
	TermID           uuid.UUID                  `json:"term_id"`
	TermName         string                     `json:"term_name,omitempty"`
	StudentType      string                     `json:"student_type"`
	TotalAmount      decimal.Decimal            `json:"total_amount"`
	DueDate          *time.Time                 `json:"due_date,omitempty"`
	Notes            string                     `json:"notes,omitempty"`
	CreatedBy        uuid.UUID                  `json:"created_by"`
	CreatedAt        time.Time                  `json:"created_at"`
	Items            []FeeStructureItemResponse `json:"items,omitempty"`
}

// ToFeeStructureResponse converts a fee structure
func ToFeeStructureResponse(fs *finance.FeeStructure) FeeStructureResponse {
	resp := FeeStructureResponse{
		ID:               fs.ID,
		Name:             fs.Name,
		AcademicYearID:   fs.AcademicYearID,
		AcademicYearName: fs.AcademicYearName,
		TermID:           fs.TermID,
		TermName:         fs.TermName,
		StudentType:      fs.StudentType.String(),
		TotalAmount:      fs.TotalAmount,
		DueDate:          fs.DueDate,
		Notes:            fs.Notes,
		CreatedBy:        fs.CreatedBy,
		CreatedAt:        fs.CreatedAt,
	}
	if len(fs.Items) > 0 {
		resp.Items = make([]FeeStructureItemResponse, 0, len(fs.Items))
		for _, it := range fs.Items {
			resp.Items = append(resp.Items, FeeStructureItemResponse{
				ID:           it.ID,
				Name:         it.Name,
				Amount:       it.Amount,
				IsMandatory:  it.IsMandatory,
				DisplayOrder: it.DisplayOrder,
			})
		}
	}
	return resp
}

// ToFeeStructureResponses converts a list of fee structures
func ToFeeStructureResponses(items []finance.FeeStructure) []FeeStructureResponse {
	out := make([]FeeStructureResponse, 0, len(items))
	for i := range items {
		out = append(out, ToFeeStructureResponse(&items[i]))
	}
	return out
}

// TermFeeResponse is one row of a fee summary breakdown
type TermFeeResponse struct {
	TermName         string          `json:"term_name"`
	AcademicYearName string          `json:"academic_year_name"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	Balance          decimal.Decimal `json:"balance"`
}

// FeeSummaryResponse is a student's folded fee position
type FeeSummaryResponse struct {
	StudentID          uuid.UUID         `json:"student_id"`
	TotalFees          decimal.Decimal   `json:"total_fees"`
	TotalPaid          decimal.Decimal   `json:"total_paid"`
	OutstandingBalance decimal.Decimal   `json:"outstanding_balance"`
	InvoiceOutstanding decimal.Decimal   `json:"invoice_outstanding"`
	Reconciled         bool              `json:"reconciled"`
	Breakdown          []TermFeeResponse `json:"breakdown"`
}

// ToFeeSummaryResponse converts a fee summary; the breakdown is never null
func ToFeeSummaryResponse(s *finance.FeeSummary) FeeSummaryResponse {
	breakdown := make([]TermFeeResponse, 0, len(s.Breakdown))
	for _, row := range s.Breakdown {
		breakdown = append(breakdown, TermFeeResponse{
			TermName:         row.TermName,
			AcademicYearName: row.AcademicYearName,
			TotalAmount:      row.TotalAmount,
			AmountPaid:       row.AmountPaid,
			Balance:          row.Balance,
		})
	}
	return FeeSummaryResponse{
		StudentID:          s.StudentID,
		TotalFees:          s.TotalFees,
		TotalPaid:          s.TotalPaid,
		OutstandingBalance: s.OutstandingBalance,
		InvoiceOutstanding: s.InvoiceOutstanding,
		Reconciled:         s.Reconciled,
		Breakdown:          breakdown,
	}
}

// OutstandingFeeResponse is one debtor of the school-wide report
type OutstandingFeeResponse struct {
	StudentID         uuid.UUID       `json:"student_id"`
	StudentCode       string          `json:"student_code"`
	StudentName       string          `json:"student_name"`
	ClassName         string          `json:"class_name"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	OldestInvoiceDate time.Time       `json:"oldest_invoice_date"`
	DaysOverdue       int             `json:"days_overdue"`
	InvoiceCount      int             `json:"invoice_count"`
	GuardianPhone     string          `json:"guardian_phone"`
}

// ToOutstandingFeeResponses converts the outstanding report
func ToOutstandingFeeResponses(fees []finance.OutstandingFee) []OutstandingFeeResponse {
	out := make([]OutstandingFeeResponse, 0, len(fees))
	for _, f := range fees {
		out = append(out, OutstandingFeeResponse{
			StudentID:         f.StudentID,
			StudentCode:       f.StudentCode,
			StudentName:       f.StudentName,
			ClassName:         f.ClassName,
			TotalOutstanding:  f.TotalOutstanding,
			OldestInvoiceDate: f.OldestInvoiceDate,
			DaysOverdue:       f.DaysOverdue,
			InvoiceCount:      f.InvoiceCount,
			GuardianPhone:     f.GuardianPhone,
		})
	}
	return out
}

// ReceiptResponse is a receipt with its payment and invoice references
type ReceiptResponse struct {
	ID            uuid.UUID       `json:"id"`
	ReceiptNumber string          `json:"receipt_number"`
	Amount        decimal.Decimal `json:"amount"`
	ReceiptDate   time.Time       `json:"receipt_date"`
	PaymentNumber string          `json:"payment_number"`
	PaymentMethod string          `json:"payment_method"`
	InvoiceNumber string          `json:"invoice_number"`
}

// ToReceiptResponses converts enriched receipts, keeping their order
func ToReceiptResponses(receipts []finance.EnrichedReceipt) []ReceiptResponse {
	out := make([]ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		out = append(out, ReceiptResponse{
			ID:            r.ID,
			ReceiptNumber: r.ReceiptNumber,
			Amount:        r.Amount,
			ReceiptDate:   r.ReceiptDate,
			PaymentNumber: r.PaymentNumber,
			PaymentMethod: r.PaymentMethod,
			InvoiceNumber: r.InvoiceNumber,
		})
	}
	return out
}

// DateLayout is the calendar-date format accepted for date-only fields
const DateLayout = "2006-01-02"

// FeeItemRequest is one line of CreateFeeStructureRequest
type FeeItemRequest struct {
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	IsMandatory  bool            `json:"is_mandatory"`
	DisplayOrder int             `json:"display_order"`
}

// CreateFeeStructureRequest authors a fee structure. The name and total are derived
// server-side; due_date accepts a calendar date or an RFC 3339 timestamp.
type CreateFeeStructureRequest struct {
	AcademicYearID uuid.UUID        `json:"academic_year_id"`
	TermID         uuid.UUID        `json:"term_id"`
	StudentType    string           `json:"student_type"`
	Items          []FeeItemRequest `json:"items"`
	DueDate        string           `json:"due_date"`
	Notes          string           `json:"notes"`
}

// ParseDate reads a calendar date or an RFC 3339 timestamp.
// dateOnly is true when raw carried no time of day.
func ParseDate(raw string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(DateLayout, raw); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, raw)
	return t, false, err
}
