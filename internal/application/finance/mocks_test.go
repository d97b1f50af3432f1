package finance

import (
	"context"

	"github.com/edusuite/backend/internal/domain/academic"
	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/domain/people"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockFeeStructureRepository is a mock implementation of finance.FeeStructureRepository
// without transaction support
type MockFeeStructureRepository struct {
	mock.Mock
}

func (m *MockFeeStructureRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FeeStructure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) FindByScope(ctx context.Context, academicYearID, termID uuid.UUID, studentType finance.StudentType) (*finance.FeeStructure, error) {
	args := m.Called(ctx, academicYearID, termID, studentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) FindAll(ctx context.Context, filter finance.FeeStructureFilter) ([]finance.FeeStructure, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.FeeStructure), args.Get(1).(int64), args.Error(2)
}

func (m *MockFeeStructureRepository) CreateHeader(ctx context.Context, fs *finance.FeeStructure) error {
	args := m.Called(ctx, fs)
	return args.Error(0)
}

func (m *MockFeeStructureRepository) CreateItems(ctx context.Context, items []finance.FeeStructureItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockFeeStructureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFeeStructureRepository) CountItems(ctx context.Context, feeStructureID uuid.UUID) (int64, error) {
	args := m.Called(ctx, feeStructureID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTxFeeStructureRepository adds transactional writes
type MockTxFeeStructureRepository struct {
	MockFeeStructureRepository
}

func (m *MockTxFeeStructureRepository) CreateWithItems(ctx context.Context, fs *finance.FeeStructure) error {
	args := m.Called(ctx, fs)
	return args.Error(0)
}

// MockAcademicYearRepository is a mock implementation of academic.AcademicYearRepository
type MockAcademicYearRepository struct {
	mock.Mock
}

func (m *MockAcademicYearRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.AcademicYear, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*academic.AcademicYear, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uuid.UUID]*academic.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) FindAll(ctx context.Context) ([]academic.AcademicYear, error) {
	args := m.Called(ctx)
	return args.Get(0).([]academic.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) Save(ctx context.Context, year *academic.AcademicYear) error {
	args := m.Called(ctx, year)
	return args.Error(0)
}

// MockTermRepository is a mock implementation of academic.TermRepository
type MockTermRepository struct {
	mock.Mock
}

func (m *MockTermRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.Term, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.Term), args.Error(1)
}

func (m *MockTermRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*academic.Term, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uuid.UUID]*academic.Term), args.Error(1)
}

func (m *MockTermRepository) FindAll(ctx context.Context, academicYearID *uuid.UUID) ([]academic.Term, error) {
	args := m.Called(ctx, academicYearID)
	return args.Get(0).([]academic.Term), args.Error(1)
}

func (m *MockTermRepository) FindActive(ctx context.Context) (*academic.Term, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.Term), args.Error(1)
}

func (m *MockTermRepository) Activate(ctx context.Context, termID uuid.UUID) error {
	args := m.Called(ctx, termID)
	return args.Error(0)
}

func (m *MockTermRepository) Save(ctx context.Context, term *academic.Term) error {
	args := m.Called(ctx, term)
	return args.Error(0)
}

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
	return args.Get(0).(map[uuid.UUID]*people.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByClassIDs(ctx context.Context, classIDs []uuid.UUID) ([]people.Student, error) {
	args := m.Called(ctx, classIDs)
	return args.Get(0).([]people.Student), args.Error(1)
}

func (m *MockStudentRepository) FindActive(ctx context.Context) ([]people.Student, error) {
	args := m.Called(ctx)
	return args.Get(0).([]people.Student), args.Error(1)
}

// MockGuardianChecker is a mock implementation of GuardianChecker
type MockGuardianChecker struct {
	mock.Mock
}

func (m *MockGuardianChecker) IsGuardianOf(ctx context.Context, caller *identity.Identity, studentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, caller, studentID)
	return args.Bool(0), args.Error(1)
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

// MockInvoiceRepository is a mock implementation of finance.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindOutstanding(ctx context.Context) ([]finance.OutstandingInvoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.OutstandingInvoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*finance.Invoice, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SumOutstandingByStudent(ctx context.Context, studentID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockPaymentRepository is a mock implementation of finance.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*finance.Payment, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*finance.Payment), args.Error(1)
}

// MockReceiptRepository is a mock implementation of finance.ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByStudent(ctx context.Context, studentID uuid.UUID, filter finance.ReceiptFilter) ([]finance.Receipt, error) {
	args := m.Called(ctx, studentID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Receipt), args.Error(1)
}
