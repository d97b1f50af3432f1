package relationship

import (
	"context"

	"github.com/edusuite/backend/internal/domain/academic"
	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/edusuite/backend/internal/domain/people"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockStudentRepository is a mock implementation of people.StudentRepository
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*people.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*people.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*people.Student, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*people.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByClassIDs(ctx context.Context, classIDs []uuid.UUID) ([]people.Student, error) {
	args := m.Called(ctx, classIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]people.Student), args.Error(1)
}

func (m *MockStudentRepository) FindActive(ctx context.Context) ([]people.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]people.Student), args.Error(1)
}

// MockGuardianRepository is a mock implementation of people.GuardianRepository
type MockGuardianRepository struct {
	mock.Mock
}

func (m *MockGuardianRepository) FindByID(ctx context.Context, id uuid.UUID) (*people.Guardian, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*people.Guardian), args.Error(1)
}

func (m *MockGuardianRepository) FindByProfileID(ctx context.Context, profileID uuid.UUID) (*people.Guardian, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*people.Guardian), args.Error(1)
}

func (m *MockGuardianRepository) FindPrimaryPhones(ctx context.Context, studentIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, studentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

// MockTeacherRepository is a mock implementation of people.TeacherRepository
type MockTeacherRepository struct {
	mock.Mock
}

func (m *MockTeacherRepository) FindByProfileID(ctx context.Context, profileID uuid.UUID) (*people.Teacher, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*people.Teacher), args.Error(1)
}

// MockStudentGuardianRepository is a mock implementation of people.StudentGuardianRepository
type MockStudentGuardianRepository struct {
	mock.Mock
}

func (m *MockStudentGuardianRepository) Exists(ctx context.Context, guardianID, studentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, guardianID, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStudentGuardianRepository) FindByGuardian(ctx context.Context, guardianID uuid.UUID) ([]people.StudentGuardian, error) {
	args := m.Called(ctx, guardianID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]people.StudentGuardian), args.Error(1)
}

func (m *MockStudentGuardianRepository) Link(ctx context.Context, link *people.StudentGuardian) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

// MockTeachingRepository is a mock implementation of academic.TeachingRepository
type MockTeachingRepository struct {
	mock.Mock
}

func (m *MockTeachingRepository) FindAssignmentsByTeacher(ctx context.Context, teacherID uuid.UUID) ([]academic.TeachingAssignment, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]academic.TeachingAssignment), args.Error(1)
}

func (m *MockTeachingRepository) FindClassesByIDs(ctx context.Context, ids []uuid.UUID) ([]academic.Class, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]academic.Class), args.Error(1)
}

func (m *MockTeachingRepository) FindSubjectsByIDs(ctx context.Context, ids []uuid.UUID) ([]academic.Subject, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]academic.Subject), args.Error(1)
}

// MockStudentFeeRepository is a mock implementation of finance.StudentFeeRepository
type MockStudentFeeRepository struct {
	mock.Mock
}

func (m *MockStudentFeeRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]finance.StudentFee, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.StudentFee), args.Error(1)
}

func (m *MockStudentFeeRepository) SumBalancesByStudents(ctx context.Context, studentIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, studentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

type repoMocks struct {
	students         *MockStudentRepository
	guardians        *MockGuardianRepository
	teachers         *MockTeacherRepository
	studentGuardians *MockStudentGuardianRepository
	teaching         *MockTeachingRepository
	studentFees      *MockStudentFeeRepository
}

func newRepoMocks() repoMocks {
	return repoMocks{
		students:         new(MockStudentRepository),
		guardians:        new(MockGuardianRepository),
		teachers:         new(MockTeacherRepository),
		studentGuardians: new(MockStudentGuardianRepository),
		teaching:         new(MockTeachingRepository),
		studentFees:      new(MockStudentFeeRepository),
	}
}

func (r repoMocks) repositories() Repositories {
	return Repositories{
		Students:         r.students,
		Guardians:        r.guardians,
		Teachers:         r.teachers,
		StudentGuardians: r.studentGuardians,
		Teaching:         r.teaching,
		StudentFees:      r.studentFees,
	}
}
