package finance

import (
	"context"
	"time"

	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/domain/people"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/infrastructure/logger"
	"github.com/edusuite/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LedgerService folds fee and invoice records into per-student and school-wide views
type LedgerService struct {
	access      *StudentAccess
	studentFees finance.StudentFeeRepository
	invoices    finance.InvoiceRepository
	guardians   people.GuardianRepository
	metrics     *telemetry.FinanceMetrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	access *StudentAccess,
	studentFees finance.StudentFeeRepository,
	invoices finance.InvoiceRepository,
	guardians people.GuardianRepository,
	metrics *telemetry.FinanceMetrics,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		access:      access,
		studentFees: studentFees,
		invoices:    invoices,
		guardians:   guardians,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// StudentFeeSummary returns the totals and per-term breakdown of one student.
// The invoice-side outstanding amount is attached for reconciliation; StudentFee rows stay
// authoritative for the balance.
func (s *LedgerService) StudentFeeSummary(ctx context.Context, caller *identity.Identity, studentID uuid.UUID) (summary *finance.FeeSummary, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "student_fee_summary", telemetry.AttrStudentID, studentID)
	defer span.End()

	student, err := s.access.Authorize(ctx, caller, studentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	started := time.Now()
	defer func() { s.metrics.Aggregation(ctx, "student_fee_summary", started, err) }()

	var (
		rows    []finance.StudentFee
		invoice decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.studentFees.FindByStudent(gctx, student.ID)
		return err
	})
	g.Go(func() error {
		var err error
		invoice, err = s.invoices.SumOutstandingByStudent(gctx, student.ID)
		return err
	})
	if err = g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		logger.Enrich(ctx, s.logger).Error("ledger.student_summary_failed",
			zap.String("student_id", student.ID.String()),
			zap.Error(err))
		return nil, shared.NewAggregationFailed("Failed to load student fees", err)
	}

	folded := finance.SummarizeStudentFees(student.ID, rows)
	folded.Reconcile(invoice)
	if !folded.Reconciled {
		logger.Enrich(ctx, s.logger).Warn("ledger.unreconciled",
			zap.String("student_id", student.ID.String()),
			zap.String("student_fee_balance", folded.OutstandingBalance.StringFixed(2)),
			zap.String("invoice_balance", folded.InvoiceOutstanding.StringFixed(2)))
	}
	telemetry.SetAttributes(span, telemetry.AttrRowCount, len(rows))
	return &folded, nil
}

// SchoolWideOutstanding returns one row per student with open invoices, highest total first.
func (s *LedgerService) SchoolWideOutstanding(ctx context.Context, caller *identity.Identity) (fees []finance.OutstandingFee, err error) {
	if caller == nil {
		return nil, shared.ErrUnauthenticated
	}
	if d := identity.CanViewAllFees(caller); !d.Allowed {
		return nil, shared.NewForbidden(d.Reason)
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "school_wide_outstanding")
	defer span.End()
	started := time.Now()
	defer func() { s.metrics.Aggregation(ctx, "school_wide_outstanding", started, err) }()

	rows, err := s.invoices.FindOutstanding(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewAggregationFailed("Failed to load outstanding invoices", err)
	}

	grouped := finance.GroupOutstanding(rows)
	if len(grouped) == 0 {
		return []finance.OutstandingFee{}, nil
	}

	phones, err := s.guardians.FindPrimaryPhones(ctx, finance.StudentIDs(grouped))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewAggregationFailed("Failed to load guardian contacts", err)
	}

	fees = finance.FinalizeOutstanding(grouped, phones, s.now())
	telemetry.SetAttributes(span, telemetry.AttrRowCount, len(fees))
	return fees, nil
}
