package relationship

import (
	"context"
	"errors"
	"testing"

	"github.com/edusuite/backend/internal/domain/academic"
	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/domain/people"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(m repoMocks) (*Service, *cache.InMemoryInvalidator) {
	inv := cache.NewInMemoryInvalidator()
	return NewService(m.repositories(), inv, zap.NewNop()), inv
}

func caller(role identity.Role) *identity.Identity {
	return &identity.Identity{ProfileID: uuid.New(), Role: role}
}

func student(first, last string) *people.Student {
	return &people.Student{
		BaseEntity: shared.NewBaseEntity(),
		ProfileID:  uuid.New(),
		Code:       "S-" + first,
		FirstName:  first,
		LastName:   last,
		Status:     people.StudentStatusActive,
	}
}

func TestService_IsGuardianOf(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.New()

	t.Run("linked", func(t *testing.T) {
		m := newRepoMocks()
		svc, _ := newTestService(m)
		me := caller(identity.RoleGuardian)
		g := &people.Guardian{BaseEntity: shared.NewBaseEntity(), ProfileID: me.ProfileID}
		m.guardians.On("FindByProfileID", mock.Anything, me.ProfileID).Return(g, nil)
		m.studentGuardians.On("Exists", mock.Anything, g.ID, studentID).Return(true, nil)

		ok, err := svc.IsGuardianOf(ctx, me, studentID)

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no guardian record", func(t *testing.T) {
		m := newRepoMocks()
		svc, _ := newTestService(m)
		me := caller(identity.RoleGuardian)
		m.guardians.On("FindByProfileID", mock.Anything, me.ProfileID).Return(nil, nil)

		ok, err := svc.IsGuardianOf(ctx, me, studentID)

		require.NoError(t, err)
		assert.False(t, ok)
		m.studentGuardians.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nil caller", func(t *testing.T) {
		svc, _ := newTestService(newRepoMocks())
		ok, err := svc.IsGuardianOf(ctx, nil, studentID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("read failure", func(t *testing.T) {
		m := newRepoMocks()
		svc, _ := newTestService(m)
		me := caller(identity.RoleGuardian)
		m.guardians.On("FindByProfileID", mock.Anything, me.ProfileID).Return(nil, errors.New("timeout"))

		_, err := svc.IsGuardianOf(ctx, me, studentID)

		assert.ErrorIs(t, err, shared.ErrAggregationFailed)
	})
}

func TestService_ChildrenOf(t *testing.T) {
	m := newRepoMocks()
	svc, _ := newTestService(m)
	me := caller(identity.RoleGuardian)
	g := &people.Guardian{BaseEntity: shared.NewBaseEntity(), ProfileID: me.ProfileID}

	zed := student("Zed", "Otieno")
	amina := student("Amina", "Otieno")
	baraka := student("Baraka", "Otieno")

	links := []people.StudentGuardian{
		{StudentID: amina.ID, GuardianID: g.ID, Relationship: "mother"},
		{StudentID: zed.ID, GuardianID: g.ID, Relationship: "mother", IsPrimary: true},
		{StudentID: baraka.ID, GuardianID: g.ID, Relationship: "mother"},
	}
	m.guardians.On("FindByProfileID", mock.Anything, me.ProfileID).Return(g, nil)
	m.studentGuardians.On("FindByGuardian", mock.Anything, g.ID).Return(links, nil)
	m.students.On("FindByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*people.Student{
		zed.ID: zed, amina.ID: amina, baraka.ID: baraka,
	}, nil)
	m.studentFees.On("SumBalancesByStudents", mock.Anything, mock.Anything).Return(map[uuid.UUID]decimal.Decimal{
		zed.ID:   decimal.RequireFromString("1200.50"),
		amina.ID: decimal.Zero,
	}, nil)

	children, err := svc.ChildrenOf(context.Background(), me)

	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, zed.ID, children[0].StudentID, "primary first")
	assert.True(t, children[0].IsPrimary)
	assert.Equal(t, "Amina Otieno", children[1].FullName)
	assert.Equal(t, "Baraka Otieno", children[2].FullName)
	assert.True(t, children[0].OutstandingBalance.Equal(decimal.RequireFromString("1200.50")))
	assert.True(t, children[2].OutstandingBalance.IsZero(), "missing balance reads as zero")
	assert.True(t, children[2].HasBalance)
	m.studentFees.AssertNumberOfCalls(t, "SumBalancesByStudents", 1)

	t.Run("child of", func(t *testing.T) {
		child, err := svc.ChildOf(context.Background(), me, amina.ID)
		require.NoError(t, err)
		assert.Equal(t, amina.ID, child.StudentID)

		_, err = svc.ChildOf(context.Background(), me, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_ChildrenOf_Empty(t *testing.T) {
	m := newRepoMocks()
	svc, _ := newTestService(m)
	me := caller(identity.RoleStudent)
	m.guardians.On("FindByProfileID", mock.Anything, me.ProfileID).Return(nil, nil)

	children, err := svc.ChildrenOf(context.Background(), me)

	require.NoError(t, err)
	assert.NotNil(t, children)
	assert.Empty(t, children)
}

func TestService_ChildrenOf_BatchFailure(t *testing.T) {
	m := newRepoMocks()
	svc, _ := newTestService(m)
	me := caller(identity.RoleGuardian)
	g := &people.Guardian{BaseEntity: shared.NewBaseEntity()}
	m.guardians.On("FindByProfileID", mock.Anything, me.ProfileID).Return(g, nil)
	m.studentGuardians.On("FindByGuardian", mock.Anything, g.ID).Return([]people.StudentGuardian{{StudentID: uuid.New()}}, nil)
	m.students.On("FindByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*people.Student{}, nil)
	m.studentFees.On("SumBalancesByStudents", mock.Anything, mock.Anything).Return(nil, errors.New("deadlock"))

	_, err := svc.ChildrenOf(context.Background(), me)

	assert.ErrorIs(t, err, shared.ErrAggregationFailed)
	assert.Equal(t, "Failed to load children", err.Error())
}

func TestService_ClassesAndSubjectsOf(t *testing.T) {
	m := newRepoMocks()
	svc, _ := newTestService(m)
	me := caller(identity.RoleTeacher)
	teacher := &people.Teacher{BaseEntity: shared.NewBaseEntity(), ProfileID: me.ProfileID}

	classA, classB := uuid.New(), uuid.New()
	math, english := uuid.New(), uuid.New()
	m.teachers.On("FindByProfileID", mock.Anything, me.ProfileID).Return(teacher, nil)
	m.teaching.On("FindAssignmentsByTeacher", mock.Anything, teacher.ID).Return([]academic.TeachingAssignment{
		{ClassID: classA, SubjectID: math},
		{ClassID: classA, SubjectID: english},
		{ClassID: classB, SubjectID: math},
	}, nil)
	m.teaching.On("FindClassesByIDs", mock.Anything, []uuid.UUID{classA, classB}).
		Return([]academic.Class{{ID: classA, Name: "7A"}, {ID: classB, Name: "7B"}}, nil)
	m.teaching.On("FindSubjectsByIDs", mock.Anything, []uuid.UUID{math, english}).
		Return([]academic.Subject{{ID: english, Name: "English"}, {ID: math, Name: "Mathematics"}}, nil)

	load, err := svc.ClassesAndSubjectsOf(context.Background(), me)

	require.NoError(t, err)
	assert.Len(t, load.Classes, 2)
	assert.Len(t, load.Subjects, 2)
	m.teaching.AssertExpectations(t)
}

func TestService_ClassesAndSubjectsOf_NotATeacher(t *testing.T) {
	m := newRepoMocks()
	svc, _ := newTestService(m)
	me := caller(identity.RoleGuardian)
	m.teachers.On("FindByProfileID", mock.Anything, me.ProfileID).Return(nil, nil)

	load, err := svc.ClassesAndSubjectsOf(context.Background(), me)

	require.NoError(t, err)
	assert.Empty(t, load.Classes)
	assert.Empty(t, load.Subjects)
}

func TestService_VisibleRoster(t *testing.T) {
	ctx := context.Background()

	t.Run("staff see all active students with balances", func(t *testing.T) {
		m := newRepoMocks()
		svc, _ := newTestService(m)
		s1 := student("Amina", "Otieno")
		m.students.On("FindActive", mock.Anything).Return([]people.Student{*s1}, nil)
		m.studentFees.On("SumBalancesByStudents", mock.Anything, []uuid.UUID{s1.ID}).
			Return(map[uuid.UUID]decimal.Decimal{s1.ID: decimal.NewFromInt(500)}, nil)

		roster, err := svc.VisibleRoster(ctx, caller(identity.RoleDeputyHeadteacher))

		require.NoError(t, err)
		require.Len(t, roster, 1)
		assert.True(t, roster[0].HasBalance)
		assert.True(t, roster[0].OutstandingBalance.Equal(decimal.NewFromInt(500)))
	})

	t.Run("teacher sees own classes without balances", func(t *testing.T) {
		m := newRepoMocks()
		svc, _ := newTestService(m)
		me := caller(identity.RoleTeacher)
		teacher := &people.Teacher{BaseEntity: shared.NewBaseEntity()}
		classID := uuid.New()
		s1 := student("Baraka", "Kariuki")
		m.teachers.On("FindByProfileID", mock.Anything, me.ProfileID).Return(teacher, nil)
		m.teaching.On("FindAssignmentsByTeacher", mock.Anything, teacher.ID).
			Return([]academic.TeachingAssignment{{ClassID: classID, SubjectID: uuid.New()}}, nil)
		m.teaching.On("FindClassesByIDs", mock.Anything, mock.Anything).Return([]academic.Class{{ID: classID}}, nil)
		m.teaching.On("FindSubjectsByIDs", mock.Anything, mock.Anything).Return([]academic.Subject{}, nil)
		m.students.On("FindByClassIDs", mock.Anything, []uuid.UUID{classID}).Return([]people.Student{*s1}, nil)

		roster, err := svc.VisibleRoster(ctx, me)

		require.NoError(t, err)
		require.Len(t, roster, 1)
		assert.False(t, roster[0].HasBalance)
		m.studentFees.AssertNotCalled(t, "SumBalancesByStudents", mock.Anything, mock.Anything)
	})

	t.Run("guardian is forbidden", func(t *testing.T) {
		svc, _ := newTestService(newRepoMocks())
		_, err := svc.VisibleRoster(ctx, caller(identity.RoleGuardian))
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestService_LinkGuardian(t *testing.T) {
	ctx := context.Background()
	s1 := student("Amina", "Otieno")
	g := &people.Guardian{BaseEntity: shared.NewBaseEntity()}
	input := LinkGuardianInput{StudentID: s1.ID, GuardianID: g.ID, Relationship: "father", IsPrimary: true}

	t.Run("success notifies", func(t *testing.T) {
		m := newRepoMocks()
		svc, inv := newTestService(m)
		m.students.On("FindByID", mock.Anything, s1.ID).Return(s1, nil)
		m.guardians.On("FindByID", mock.Anything, g.ID).Return(g, nil)
		m.studentGuardians.On("Link", mock.Anything, mock.MatchedBy(func(l *people.StudentGuardian) bool {
			return l.IsPrimary && l.Relationship == "father"
		})).Return(nil)

		link, err := svc.LinkGuardian(ctx, caller(identity.RoleHeadteacher), input)

		require.NoError(t, err)
		assert.Equal(t, s1.ID, link.StudentID)
		published := inv.Published()
		require.Len(t, published, 1)
		assert.Equal(t, cache.TopicStudentGuardians, published[0].Topic)
		assert.Equal(t, s1.ID.String(), published[0].Key)
	})

	t.Run("requires guardians:manage", func(t *testing.T) {
		svc, _ := newTestService(newRepoMocks())
		_, err := svc.LinkGuardian(ctx, caller(identity.RoleDeputyHeadteacher), input)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("missing ids", func(t *testing.T) {
		svc, _ := newTestService(newRepoMocks())
		_, err := svc.LinkGuardian(ctx, caller(identity.RoleAdmin), LinkGuardianInput{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("unknown guardian", func(t *testing.T) {
		m := newRepoMocks()
		svc, _ := newTestService(m)
		m.students.On("FindByID", mock.Anything, s1.ID).Return(s1, nil)
		m.guardians.On("FindByID", mock.Anything, g.ID).Return(nil, nil)

		_, err := svc.LinkGuardian(ctx, caller(identity.RoleAdmin), input)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, "Guardian not found", err.Error())
	})

	t.Run("write failure", func(t *testing.T) {
		m := newRepoMocks()
		svc, inv := newTestService(m)
		m.students.On("FindByID", mock.Anything, s1.ID).Return(s1, nil)
		m.guardians.On("FindByID", mock.Anything, g.ID).Return(g, nil)
		m.studentGuardians.On("Link", mock.Anything, mock.Anything).Return(errors.New("unique violation"))

		_, err := svc.LinkGuardian(ctx, caller(identity.RoleAdmin), input)

		assert.ErrorIs(t, err, shared.ErrPersistenceFailed)
		assert.Empty(t, inv.Published())
	})
}
