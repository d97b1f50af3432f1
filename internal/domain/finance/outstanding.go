package finance

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OutstandingInvoice is an open invoice row projected with its student's attributes.
type OutstandingInvoice struct {
	InvoiceID   uuid.UUID
	StudentID   uuid.UUID
	StudentCode string
	StudentName string
	ClassName   string
	InvoiceDate time.Time
	Balance     decimal.Decimal
}

// OutstandingFee is one debtor row of the school-wide outstanding report.
type OutstandingFee struct {
	StudentID         uuid.UUID
	StudentCode       string
	StudentName       string
	ClassName         string
	TotalOutstanding  decimal.Decimal
	OldestInvoiceDate time.Time
	DaysOverdue       int
	InvoiceCount      int
	GuardianPhone     string
}

// GroupOutstanding groups open invoices by student in first-seen order.
// The first invoice of a student sets the display attributes; later ones only add to the
// total and replace the oldest date when strictly earlier.
func GroupOutstanding(rows []OutstandingInvoice) []OutstandingFee {
	index := make(map[uuid.UUID]int, len(rows))
	out := make([]OutstandingFee, 0, len(rows))

	for _, r := range rows {
		if !r.Balance.IsPositive() {
			continue
		}
		i, seen := index[r.StudentID]
		if !seen {
			index[r.StudentID] = len(out)
			out = append(out, OutstandingFee{
				StudentID:         r.StudentID,
				StudentCode:       r.StudentCode,
				StudentName:       r.StudentName,
				ClassName:         r.ClassName,
				TotalOutstanding:  r.Balance,
				OldestInvoiceDate: r.InvoiceDate,
				InvoiceCount:      1,
			})
			continue
		}
		fee := &out[i]
		fee.TotalOutstanding = fee.TotalOutstanding.Add(r.Balance)
		fee.InvoiceCount++
		if r.InvoiceDate.Before(fee.OldestInvoiceDate) {
			fee.OldestInvoiceDate = r.InvoiceDate
		}
	}
	return out
}

// DaysBetween returns floor((now - since) / 24h), never negative.
func DaysBetween(since, now time.Time) int {
	d := now.Sub(since)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// FinalizeOutstanding attaches guardian phones, computes days overdue and orders the rows
// by total outstanding, highest first. Equal totals keep their grouped order.
func FinalizeOutstanding(fees []OutstandingFee, phones map[uuid.UUID]string, now time.Time) []OutstandingFee {
	for i := range fees {
		fees[i].GuardianPhone = phones[fees[i].StudentID]
		fees[i].DaysOverdue = DaysBetween(fees[i].OldestInvoiceDate, now)
	}
	sort.SliceStable(fees, func(i, j int) bool {
		return fees[i].TotalOutstanding.GreaterThan(fees[j].TotalOutstanding)
	})
	return fees
}

// StudentIDs returns the student IDs of fees in order.
func StudentIDs(fees []OutstandingFee) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(fees))
	for _, f := range fees {
		ids = append(ids, f.StudentID)
	}
	return ids
}
