package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MissingReference is shown in place of a payment or invoice that cannot be found.
const MissingReference = "N/A"

// ReceiptFilter narrows a student's receipts. Date bounds are inclusive.
type ReceiptFilter struct {
	From       *time.Time
	To         *time.Time
	SearchTerm string
	Limit      int
}

// EnrichedReceipt is a receipt with its payment and invoice references resolved.
type EnrichedReceipt struct {
	ID            uuid.UUID
	ReceiptNumber string
	Amount        decimal.Decimal
	ReceiptDate   time.Time
	PaymentID     uuid.UUID
	PaymentNumber string
	PaymentMethod string
	InvoiceNumber string
}

// EnrichReceipts resolves references through the given lookups, keeping input order.
// A missing payment or invoice yields MissingReference instead of dropping the receipt.
func EnrichReceipts(receipts []Receipt, payments map[uuid.UUID]*Payment, invoices map[uuid.UUID]*Invoice) []EnrichedReceipt {
	out := make([]EnrichedReceipt, 0, len(receipts))
	for _, r := range receipts {
		er := EnrichedReceipt{
			ID:            r.ID,
			ReceiptNumber: r.ReceiptNumber,
			Amount:        r.Amount,
			ReceiptDate:   r.ReceiptDate,
			PaymentID:     r.PaymentID,
			PaymentNumber: MissingReference,
			PaymentMethod: MissingReference,
			InvoiceNumber: MissingReference,
		}
		if p, ok := payments[r.PaymentID]; ok && p != nil {
			er.PaymentNumber = p.PaymentNumber
			if p.PaymentMethod != "" {
				er.PaymentMethod = p.PaymentMethod
			}
			if inv, ok := invoices[p.InvoiceID]; ok && inv != nil {
				er.InvoiceNumber = inv.InvoiceNumber
			}
		}
		out = append(out, er)
	}
	return out
}

// FilterByReceiptNumber keeps receipts whose number contains term, ignoring case.
// A blank term keeps everything.
func FilterByReceiptNumber(receipts []EnrichedReceipt, term string) []EnrichedReceipt {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return receipts
	}
	out := make([]EnrichedReceipt, 0, len(receipts))
	for _, r := range receipts {
		if strings.Contains(strings.ToLower(r.ReceiptNumber), term) {
			out = append(out, r)
		}
	}
	return out
}

// PaymentIDs returns the distinct payment IDs of receipts.
func PaymentIDs(receipts []Receipt) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(receipts))
	ids := make([]uuid.UUID, 0, len(receipts))
	for _, r := range receipts {
		if _, ok := seen[r.PaymentID]; ok {
			continue
		}
		seen[r.PaymentID] = struct{}{}
		ids = append(ids, r.PaymentID)
	}
	return ids
}

// InvoiceIDs returns the distinct invoice IDs referenced by payments.
func InvoiceIDs(payments map[uuid.UUID]*Payment) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(payments))
	ids := make([]uuid.UUID, 0, len(payments))
	for _, p := range payments {
		if p == nil {
			continue
		}
		if _, ok := seen[p.InvoiceID]; ok {
			continue
		}
		seen[p.InvoiceID] = struct{}{}
		ids = append(ids, p.InvoiceID)
	}
	return ids
}
