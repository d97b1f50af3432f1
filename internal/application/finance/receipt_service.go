package finance

import (
	"context"

	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRecentReceipts is the number of receipts returned when no limit is given
const DefaultRecentReceipts = 5

// ReceiptService lists a student's receipts with their payment and invoice references
type ReceiptService struct {
	access       *StudentAccess
	receipts     finance.ReceiptRepository
	payments     finance.PaymentRepository
	invoices     finance.InvoiceRepository
	defaultLimit int
	logger       *zap.Logger
}

// NewReceiptService creates a new receipt service.
// defaultLimit <= 0 falls back to DefaultRecentReceipts.
func NewReceiptService(
	access *StudentAccess,
	receipts finance.ReceiptRepository,
	payments finance.PaymentRepository,
	invoices finance.InvoiceRepository,
	defaultLimit int,
	logger *zap.Logger,
) *ReceiptService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultRecentReceipts
	}
	return &ReceiptService{
		access:       access,
		receipts:     receipts,
		payments:     payments,
		invoices:     invoices,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// RecentReceipts returns the newest receipts of a student
func (s *ReceiptService) RecentReceipts(ctx context.Context, caller *identity.Identity, studentID uuid.UUID, limit int) ([]finance.EnrichedReceipt, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	return s.list(ctx, caller, studentID, finance.ReceiptFilter{Limit: limit}, "recent_receipts")
}

// AllReceipts returns a student's receipts within the filter's inclusive date bounds,
// narrowed by a case-insensitive receipt number search.
func (s *ReceiptService) AllReceipts(ctx context.Context, caller *identity.Identity, studentID uuid.UUID, filter finance.ReceiptFilter) ([]finance.EnrichedReceipt, error) {
	filter.Limit = 0
	return s.list(ctx, caller, studentID, filter, "all_receipts")
}

func (s *ReceiptService) list(ctx context.Context, caller *identity.Identity, studentID uuid.UUID, filter finance.ReceiptFilter, method string) ([]finance.EnrichedReceipt, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receipts", method, telemetry.AttrStudentID, studentID)
	defer span.End()

	student, err := s.access.Authorize(ctx, caller, studentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	receipts, err := s.receipts.FindByStudent(ctx, student.ID, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewAggregationFailed("Failed to load receipts", err)
	}
	if len(receipts) == 0 {
		return []finance.EnrichedReceipt{}, nil
	}

	payments, err := s.payments.FindByIDs(ctx, finance.PaymentIDs(receipts))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewAggregationFailed("Failed to load payments", err)
	}
	invoices, err := s.invoices.FindByIDs(ctx, finance.InvoiceIDs(payments))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewAggregationFailed("Failed to load invoices", err)
	}

	out := finance.FilterByReceiptNumber(finance.EnrichReceipts(receipts, payments, invoices), filter.SearchTerm)
	telemetry.SetAttributes(span, telemetry.AttrRowCount, len(out))
	return out, nil
}
