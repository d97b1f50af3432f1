package academic

import (
	"context"
	"errors"

	"github.com/edusuite/backend/internal/domain/academic"
	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/infrastructure/cache"
	"github.com/edusuite/backend/internal/infrastructure/logger"
	"github.com/edusuite/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CalendarService exposes academic years and terms
type CalendarService struct {
	years       academic.AcademicYearRepository
	terms       academic.TermRepository
	invalidator cache.Invalidator
	logger      *zap.Logger
}

// NewCalendarService creates a new calendar service
func NewCalendarService(
	years academic.AcademicYearRepository,
	terms academic.TermRepository,
	invalidator cache.Invalidator,
	logger *zap.Logger,
) *CalendarService {
	return &CalendarService{
		years:       years,
		terms:       terms,
		invalidator: invalidator,
		logger:      logger,
	}
}

// ListAcademicYears returns all academic years, newest first
func (s *CalendarService) ListAcademicYears(ctx context.Context, caller *identity.Identity) ([]academic.AcademicYear, error) {
	if caller == nil {
		return nil, shared.ErrUnauthenticated
	}
	years, err := s.years.FindAll(ctx)
	if err != nil {
		return nil, shared.NewAggregationFailed("Failed to load academic years", err)
	}
	if years == nil {
		years = []academic.AcademicYear{}
	}
	return years, nil
}

// ListTerms returns terms ordered by start date, optionally for one academic year
func (s *CalendarService) ListTerms(ctx context.Context, caller *identity.Identity, academicYearID *uuid.UUID) ([]academic.Term, error) {
	if caller == nil {
		return nil, shared.ErrUnauthenticated
	}
	terms, err := s.terms.FindAll(ctx, academicYearID)
	if err != nil {
		return nil, shared.NewAggregationFailed("Failed to load terms", err)
	}
	if terms == nil {
		terms = []academic.Term{}
	}
	return terms, nil
}

// ActiveTerm returns the active term, or NotFound when no term is active
func (s *CalendarService) ActiveTerm(ctx context.Context, caller *identity.Identity) (*academic.Term, error) {
	if caller == nil {
		return nil, shared.ErrUnauthenticated
	}
	term, err := s.terms.FindActive(ctx)
	if err != nil {
		return nil, shared.NewAggregationFailed("Failed to load active term", err)
	}
	if term == nil {
		return nil, shared.NewNotFound("Active term")
	}
	return term, nil
}

// ActivateTerm makes termID the only active term.
// Staff holding terms:manage only.
func (s *CalendarService) ActivateTerm(ctx context.Context, caller *identity.Identity, termID uuid.UUID) (*academic.Term, error) {
	if caller == nil {
		return nil, shared.ErrUnauthenticated
	}
	if !identity.HasPermission(caller, identity.PermTermsManage) {
		return nil, shared.NewForbidden("You do not have permission to change the active term")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "calendar", "activate_term", telemetry.AttrTermID, termID)
	defer span.End()

	if err := s.terms.Activate(ctx, termID); err != nil {
		telemetry.RecordError(span, err)
		var de *shared.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, shared.NewPersistenceFailed("Failed to activate term", err)
	}

	term, err := s.terms.FindByID(ctx, termID)
	if err != nil {
		return nil, shared.NewAggregationFailed("Failed to load term", err)
	}
	if term == nil {
		return nil, shared.NewNotFound("Term")
	}

	logger.Enrich(ctx, s.logger).Info("calendar.term_activated",
		zap.String("term_id", termID.String()),
		zap.String("term_name", term.Name),
	)
	cache.Notify(ctx, s.invalidator, s.logger, cache.TopicTerms, termID.String())
	return term, nil
}
