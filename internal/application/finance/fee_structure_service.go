package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/edusuite/backend/internal/application/validation"
	"github.com/edusuite/backend/internal/domain/academic"
	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/infrastructure/cache"
	"github.com/edusuite/backend/internal/infrastructure/logger"
	"github.com/edusuite/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultCurrency is used in confirmation messages when none is configured
const DefaultCurrency = "KES"

// FeeStructureService authors and reads fee structures
type FeeStructureService struct {
	repo        finance.FeeStructureRepository
	years       academic.AcademicYearRepository
	terms       academic.TermRepository
	invalidator cache.Invalidator
	locker      cache.Locker
	metrics     *telemetry.FinanceMetrics
	currency    string
	logger      *zap.Logger
}

// FeeStructureOption is a functional option for FeeStructureService
type FeeStructureOption func(*FeeStructureService)

// WithLocker serializes creation per (academic year, term, student type)
func WithLocker(l cache.Locker) FeeStructureOption {
	return func(s *FeeStructureService) {
		s.locker = l
	}
}

// WithMetrics records created structures and rollbacks
func WithMetrics(m *telemetry.FinanceMetrics) FeeStructureOption {
	return func(s *FeeStructureService) {
		s.metrics = m
	}
}

// WithCurrency sets the currency shown in confirmation messages
func WithCurrency(currency string) FeeStructureOption {
	return func(s *FeeStructureService) {
		if currency != "" {
			s.currency = currency
		}
	}
}

// NewFeeStructureService creates a new fee structure service
func NewFeeStructureService(
	repo finance.FeeStructureRepository,
	years academic.AcademicYearRepository,
	terms academic.TermRepository,
	invalidator cache.Invalidator,
	logger *zap.Logger,
	opts ...FeeStructureOption,
) *FeeStructureService {
	s := &FeeStructureService{
		repo:        repo,
		years:       years,
		terms:       terms,
		invalidator: invalidator,
		currency:    DefaultCurrency,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create authors a fee structure for an (academic year, term, student type) triple.
// Header and items are written atomically: in one transaction when the store supports it,
// otherwise header first with a compensating delete if the items fail.
func (s *FeeStructureService) Create(ctx context.Context, caller *identity.Identity, input CreateFeeStructureInput) (*CreateFeeStructureResult, error) {
	if caller == nil {
		return nil, shared.ErrUnauthenticated
	}
	if d := identity.CanManageFeeStructures(caller); !d.Allowed {
		return nil, shared.NewForbidden(d.Reason)
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "fee_structure", "create",
		telemetry.AttrAcademicYearID, input.AcademicYearID,
		telemetry.AttrTermID, input.TermID,
		"student_type", input.StudentType)
	defer span.End()

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, scopeKey(input))
		if errors.Is(err, cache.ErrLockNotObtained) {
			return nil, shared.NewConflict("A fee structure for this academic year, term and student type is already being created")
		}
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, shared.NewPersistenceFailed("Failed to reserve fee structure scope", err)
		}
		defer release()
	}

	year, term, err := s.loadScope(ctx, input.AcademicYearID, input.TermID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	fs, err := finance.NewFeeStructure(year, term, finance.StudentType(input.StudentType),
		input.itemInputs(), input.DueDate, input.Notes, caller.ProfileID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByScope(ctx, year.ID, term.ID, fs.StudentType)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewAggregationFailed("Failed to check existing fee structures", err)
	}
	if existing != nil {
		return nil, shared.NewConflict(fmt.Sprintf("A fee structure already exists for this academic year, term and student type: %q", existing.Name))
	}

	if err := s.write(ctx, fs); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.AttrFeeStructureID, fs.ID)
	s.metrics.FeeStructureCreated(ctx, fs.StudentType.String())
	cache.Notify(ctx, s.invalidator, s.logger, cache.TopicFeeStructures, fs.ID.String())
	logger.Enrich(ctx, s.logger).Info("fee_structure.created",
		zap.String("fee_structure_id", fs.ID.String()),
		zap.String("name", fs.Name),
		zap.Int("items", fs.ItemCount()),
		zap.String("total", fs.TotalAmount.StringFixed(2)))

	return &CreateFeeStructureResult{
		Structure: fs,
		Message: fmt.Sprintf("Fee structure %q created with %d items totalling %s %s",
			fs.Name, fs.ItemCount(), s.currency, fs.TotalAmount.StringFixed(2)),
	}, nil
}

// loadScope reads the academic year and term concurrently.
// A term of another academic year is reported as not found.
func (s *FeeStructureService) loadScope(ctx context.Context, yearID, termID uuid.UUID) (*academic.AcademicYear, *academic.Term, error) {
	var (
		year *academic.AcademicYear
		term *academic.Term
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		year, err = s.years.FindByID(gctx, yearID)
		return err
	})
	g.Go(func() error {
		var err error
		term, err = s.terms.FindByID(gctx, termID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, shared.NewAggregationFailed("Failed to load academic year and term", err)
	}

	if year == nil {
		return nil, nil, shared.NewNotFound("Academic year")
	}
	if term == nil || !term.BelongsTo(year.ID) {
		return nil, nil, shared.NewNotFound("Term")
	}
	return year, term, nil
}

func (s *FeeStructureService) write(ctx context.Context, fs *finance.FeeStructure) error {
	if tx, ok := s.repo.(finance.FeeStructureTxWriter); ok {
		if err := tx.CreateWithItems(ctx, fs); err != nil {
			return persistError("Failed to save fee structure", err)
		}
		return nil
	}

	if err := s.repo.CreateHeader(ctx, fs); err != nil {
		return persistError("Failed to save fee structure", err)
	}
	itemErr := s.repo.CreateItems(ctx, fs.Items)
	if itemErr == nil {
		return nil
	}

	// Compensate even if the caller has gone away
	if delErr := s.repo.Delete(context.WithoutCancel(ctx), fs.ID); delErr != nil {
		s.metrics.Rollback(ctx, false)
		logger.Enrich(ctx, s.logger).Error("fee_structure.rollback_failed",
			zap.String("fee_structure_id", fs.ID.String()),
			zap.String("name", fs.Name),
			zap.NamedError("item_error", itemErr),
			zap.NamedError("rollback_error", delErr))
		return shared.NewPersistenceFailed("Failed to save fee structure items and the partial structure could not be removed",
			errors.Join(itemErr, delErr))
	}
	s.metrics.Rollback(ctx, true)
	logger.Enrich(ctx, s.logger).Warn("fee_structure.rolled_back",
		zap.String("fee_structure_id", fs.ID.String()),
		zap.Error(itemErr))
	return shared.NewPersistenceFailed("Failed to save fee structure items", itemErr)
}

// List returns fee structures without items
func (s *FeeStructureService) List(ctx context.Context, caller *identity.Identity, filter finance.FeeStructureFilter) ([]finance.FeeStructure, int64, error) {
	if !identity.HasPermission(caller, identity.PermFeeStructuresView) {
		return nil, 0, shared.NewForbidden("you do not have permission to view fee structures")
	}
	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, shared.NewAggregationFailed("Failed to list fee structures", err)
	}
	return items, total, nil
}

// Get returns a fee structure with its items in display order
func (s *FeeStructureService) Get(ctx context.Context, caller *identity.Identity, id uuid.UUID) (*finance.FeeStructure, error) {
	if !identity.HasPermission(caller, identity.PermFeeStructuresView) {
		return nil, shared.NewForbidden("you do not have permission to view fee structures")
	}
	fs, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewAggregationFailed("Failed to load fee structure", err)
	}
	if fs == nil {
		return nil, shared.NewNotFound("Fee structure")
	}
	return fs, nil
}

// persistError keeps conflicts raised by the store and wraps everything else.
func persistError(message string, err error) error {
	if errors.Is(err, shared.ErrConflict) {
		return err
	}
	return shared.NewPersistenceFailed(message, err)
}

func scopeKey(in CreateFeeStructureInput) string {
	return fmt.Sprintf("fee_structure:%s:%s:%s", in.AcademicYearID, in.TermID, in.StudentType)
}
