// Package relationship resolves who is linked to whom: guardians to students and
// teachers to classes and subjects.
package relationship

import (
	"context"
	"sort"

	"github.com/edusuite/backend/internal/application/validation"
	"github.com/edusuite/backend/internal/domain/academic"
	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/domain/people"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/infrastructure/cache"
	"github.com/edusuite/backend/internal/infrastructure/logger"
	"github.com/edusuite/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Repositories groups the stores the service reads
type Repositories struct {
	Students         people.StudentRepository
	Guardians        people.GuardianRepository
	Teachers         people.TeacherRepository
	StudentGuardians people.StudentGuardianRepository
	Teaching         academic.TeachingRepository
	StudentFees      finance.StudentFeeRepository
}

// Service answers relationship questions for the access policy and the "me" endpoints
type Service struct {
	repos       Repositories
	invalidator cache.Invalidator
	logger      *zap.Logger
}

// NewService creates a new relationship service
func NewService(repos Repositories, invalidator cache.Invalidator, logger *zap.Logger) *Service {
	return &Service{
		repos:       repos,
		invalidator: invalidator,
		logger:      logger,
	}
}

// IsGuardianOf reports whether caller is linked to studentID as a guardian.
// Link flags are ignored. A caller without a guardian record is never a guardian.
func (s *Service) IsGuardianOf(ctx context.Context, caller *identity.Identity, studentID uuid.UUID) (bool, error) {
	if caller == nil {
		return false, nil
	}
	guardian, err := s.repos.Guardians.FindByProfileID(ctx, caller.ProfileID)
	if err != nil {
		return false, shared.NewAggregationFailed("Failed to load guardian", err)
	}
	if guardian == nil {
		return false, nil
	}
	ok, err := s.repos.StudentGuardians.Exists(ctx, guardian.ID, studentID)
	if err != nil {
		return false, shared.NewAggregationFailed("Failed to load guardian links", err)
	}
	return ok, nil
}

// ChildrenOf returns the students linked to caller, primary link first then by name,
// each with the sum of its StudentFee balances.
func (s *Service) ChildrenOf(ctx context.Context, caller *identity.Identity) ([]StudentSummary, error) {
	if caller == nil {
		return nil, shared.ErrUnauthenticated
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "relationship", "children_of",
		telemetry.AttrCallerRole, caller.Role.String())
	defer span.End()

	guardian, err := s.repos.Guardians.FindByProfileID(ctx, caller.ProfileID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewAggregationFailed("Failed to load guardian", err)
	}
	if guardian == nil {
		return []StudentSummary{}, nil
	}

	links, err := s.repos.StudentGuardians.FindByGuardian(ctx, guardian.ID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewAggregationFailed("Failed to load guardian links", err)
	}
	if len(links) == 0 {
		return []StudentSummary{}, nil
	}

	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.StudentID)
	}

	var (
		students map[uuid.UUID]*people.Student
		balances map[uuid.UUID]decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		students, err = s.repos.Students.FindByIDs(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		balances, err = s.repos.StudentFees.SumBalancesByStudents(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewAggregationFailed("Failed to load children", err)
	}

	out := make([]StudentSummary, 0, len(links))
	for _, l := range links {
		st, ok := students[l.StudentID]
		if !ok || st == nil {
			continue
		}
		sum := summaryOf(st)
		sum.Relationship = l.Relationship
		sum.IsPrimary = l.IsPrimary
		sum.OutstandingBalance = balanceOf(balances, st.ID)
		sum.HasBalance = true
		out = append(out, sum)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].FullName < out[j].FullName
	})

	telemetry.SetAttributes(span, telemetry.AttrRowCount, len(out))
	return out, nil
}

// ChildOf returns one linked student of caller, or NOT_FOUND when there is no link.
// An unlinked student is reported as absent so its existence is not disclosed.
func (s *Service) ChildOf(ctx context.Context, caller *identity.Identity, studentID uuid.UUID) (*StudentSummary, error) {
	children, err := s.ChildrenOf(ctx, caller)
	if err != nil {
		return nil, err
	}
	for i := range children {
		if children[i].StudentID == studentID {
			return &children[i], nil
		}
	}
	return nil, shared.NewNotFound("Student")
}

// ClassesAndSubjectsOf returns the distinct classes and subjects caller teaches.
// A caller without a teacher record teaches nothing.
func (s *Service) ClassesAndSubjectsOf(ctx context.Context, caller *identity.Identity) (*TeachingLoad, error) {
	if caller == nil {
		return nil, shared.ErrUnauthenticated
	}
	load := &TeachingLoad{Classes: []academic.Class{}, Subjects: []academic.Subject{}}

	teacher, err := s.repos.Teachers.FindByProfileID(ctx, caller.ProfileID)
	if err != nil {
		return nil, shared.NewAggregationFailed("Failed to load teacher", err)
	}
	if teacher == nil {
		return load, nil
	}

	assignments, err := s.repos.Teaching.FindAssignmentsByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, shared.NewAggregationFailed("Failed to load teaching assignments", err)
	}
	classIDs, subjectIDs := academic.DistinctClassesAndSubjects(assignments)
	if len(classIDs) == 0 {
		return load, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		classes, err := s.repos.Teaching.FindClassesByIDs(gctx, classIDs)
		load.Classes = classes
		return err
	})
	g.Go(func() error {
		subjects, err := s.repos.Teaching.FindSubjectsByIDs(gctx, subjectIDs)
		load.Subjects = subjects
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, shared.NewAggregationFailed("Failed to load classes and subjects", err)
	}
	return load, nil
}

// VisibleRoster returns the students caller may list: a teacher sees the students of
// their classes, staff see every active student. Balances are attached for callers that
// may view school-wide fees.
func (s *Service) VisibleRoster(ctx context.Context, caller *identity.Identity) ([]StudentSummary, error) {
	if caller == nil {
		return nil, shared.ErrUnauthenticated
	}

	var (
		students []people.Student
		err      error
	)
	switch {
	case identity.HasPermission(caller, identity.PermStudentsViewAll):
		students, err = s.repos.Students.FindActive(ctx)
		if err != nil {
			return nil, shared.NewAggregationFailed("Failed to load students", err)
		}
	case identity.HasPermission(caller, identity.PermStudentsViewClass):
		load, lerr := s.ClassesAndSubjectsOf(ctx, caller)
		if lerr != nil {
			return nil, lerr
		}
		classIDs := make([]uuid.UUID, 0, len(load.Classes))
		for _, c := range load.Classes {
			classIDs = append(classIDs, c.ID)
		}
		if len(classIDs) == 0 {
			return []StudentSummary{}, nil
		}
		students, err = s.repos.Students.FindByClassIDs(ctx, classIDs)
		if err != nil {
			return nil, shared.NewAggregationFailed("Failed to load students", err)
		}
	default:
		return nil, shared.NewForbidden("you do not have permission to view students")
	}

	out := make([]StudentSummary, 0, len(students))
	for i := range students {
		out = append(out, summaryOf(&students[i]))
	}

	if identity.CanViewAllFees(caller).Allowed && len(out) > 0 {
		ids := make([]uuid.UUID, 0, len(out))
		for _, sum := range out {
			ids = append(ids, sum.StudentID)
		}
		balances, err := s.repos.StudentFees.SumBalancesByStudents(ctx, ids)
		if err != nil {
			return nil, shared.NewAggregationFailed("Failed to load balances", err)
		}
		for i := range out {
			out[i].OutstandingBalance = balanceOf(balances, out[i].StudentID)
			out[i].HasBalance = true
		}
	}
	return out, nil
}

// LinkGuardian links a guardian to a student. A primary link demotes the student's
// existing primary link in the same write.
func (s *Service) LinkGuardian(ctx context.Context, caller *identity.Identity, input LinkGuardianInput) (*people.StudentGuardian, error) {
	if !identity.HasPermission(caller, identity.PermGuardiansManage) {
		return nil, shared.NewForbidden("you do not have permission to manage guardians")
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	student, err := s.repos.Students.FindByID(ctx, input.StudentID)
	if err != nil {
		return nil, shared.NewAggregationFailed("Failed to load student", err)
	}
	if student == nil {
		return nil, shared.NewNotFound("Student")
	}
	guardian, err := s.repos.Guardians.FindByID(ctx, input.GuardianID)
	if err != nil {
		return nil, shared.NewAggregationFailed("Failed to load guardian", err)
	}
	if guardian == nil {
		return nil, shared.NewNotFound("Guardian")
	}

	link, err := people.NewStudentGuardian(student.ID, guardian.ID, input.Relationship, input.IsPrimary, input.IsEmergencyContact)
	if err != nil {
		return nil, err
	}
	if err := s.repos.StudentGuardians.Link(ctx, link); err != nil {
		return nil, shared.NewPersistenceFailed("Failed to link guardian", err)
	}

	logger.Enrich(ctx, s.logger).Info("relationship.guardian_linked",
		zap.String("student_id", student.ID.String()),
		zap.String("guardian_id", guardian.ID.String()),
		zap.Bool("is_primary", link.IsPrimary))
	cache.Notify(ctx, s.invalidator, s.logger, cache.TopicStudentGuardians, student.ID.String())
	return link, nil
}

func balanceOf(balances map[uuid.UUID]decimal.Decimal, id uuid.UUID) decimal.Decimal {
	if b, ok := balances[id]; ok {
		return b
	}
	return decimal.Zero
}
