package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is a billable document for a student.
type Invoice struct {
	ID            uuid.UUID
	InvoiceNumber string
	StudentID     uuid.UUID
	InvoiceDate   time.Time
	DueDate       *time.Time
	TotalAmount   decimal.Decimal
	AmountPaid    decimal.Decimal
	Balance       decimal.Decimal
	CreatedAt     time.Time
}

// IsOutstanding returns true if the invoice still has money owed
func (i *Invoice) IsOutstanding() bool {
	return i.Balance.IsPositive()
}

// Payment is a payment recorded against an invoice.
type Payment struct {
	ID            uuid.UUID
	PaymentNumber string
	InvoiceID     uuid.UUID
	StudentID     uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod string
	PaymentDate   time.Time
	CreatedAt     time.Time
}

// Receipt is the proof of exactly one payment.
type Receipt struct {
	ID            uuid.UUID
	ReceiptNumber string
	PaymentID     uuid.UUID
	StudentID     uuid.UUID
	Amount        decimal.Decimal
	ReceiptDate   time.Time
	CreatedAt     time.Time
}
