package persistence

import (
	"context"

	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/edusuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStudentFeeRepository implements finance.StudentFeeRepository using GORM
type GormStudentFeeRepository struct {
	db *gorm.DB
}

// NewGormStudentFeeRepository creates a new GormStudentFeeRepository
func NewGormStudentFeeRepository(db *gorm.DB) *GormStudentFeeRepository {
	return &GormStudentFeeRepository{db: db}
}

// FindByStudent returns the student's fee rows with academic year and term names, newest first
func (r *GormStudentFeeRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]finance.StudentFee, error) {
	var rows []studentFeeRow
	err := r.db.WithContext(ctx).
		Table("student_fees AS sf").
		Select("sf.id, sf.student_id, sf.academic_year_id, sf.term_id, sf.total_amount, sf.amount_paid, " +
			"sf.balance, sf.created_at, ay.name AS academic_year_name, t.name AS term_name").
		Joins("LEFT JOIN academic_years ay ON ay.id = sf.academic_year_id").
		Joins("LEFT JOIN terms t ON t.id = sf.term_id").
		Where("sf.student_id = ?", studentID).
		Order("sf.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]finance.StudentFee, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// SumBalancesByStudents returns the summed balance per student in one query.
// Summing happens in decimal so the result does not depend on the store's numeric type.
func (r *GormStudentFeeRepository) SumBalancesByStudents(ctx context.Context, studentIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	result := make(map[uuid.UUID]decimal.Decimal, len(studentIDs))
	for _, id := range studentIDs {
		result[id] = decimal.Zero
	}
	if len(studentIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		StudentID uuid.UUID
		Balance   decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.StudentFeeModel{}).
		Select("student_id, balance").
		Where("student_id IN ?", studentIDs).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.StudentID] = result[row.StudentID].Add(row.Balance)
	}
	return result, nil
}

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindOutstanding returns invoices with a positive balance joined with student attributes,
// ordered by invoice date then creation time
func (r *GormInvoiceRepository) FindOutstanding(ctx context.Context) ([]finance.OutstandingInvoice, error) {
	var rows []outstandingRow
	err := r.db.WithContext(ctx).
		Table("invoices AS i").
		Select("i.id AS invoice_id, i.student_id, s.student_code, p.first_name, p.last_name, " +
			"c.name AS class_name, i.invoice_date, i.balance").
		Joins("LEFT JOIN students s ON s.id = i.student_id").
		Joins("LEFT JOIN profiles p ON p.id = s.profile_id").
		Joins("LEFT JOIN classes c ON c.id = s.class_id").
		Where("i.balance > ?", 0).
		Order("i.invoice_date ASC, i.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]finance.OutstandingInvoice, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// FindByIDs returns invoices keyed by ID
func (r *GormInvoiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*finance.Invoice, error) {
	result := make(map[uuid.UUID]*finance.Invoice, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].ID] = rows[i].ToDomain()
	}
	return result, nil
}

// SumOutstandingByStudent returns the sum of the student's open invoice balances
func (r *GormInvoiceRepository) SumOutstandingByStudent(ctx context.Context, studentID uuid.UUID) (decimal.Decimal, error) {
	var balances []decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("student_id = ? AND balance > ?", studentID, 0).
		Pluck("balance", &balances).Error; err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, balances...), nil
}

// GormPaymentRepository implements finance.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByIDs returns payments keyed by ID
func (r *GormPaymentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*finance.Payment, error) {
	result := make(map[uuid.UUID]*finance.Payment, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].ID] = rows[i].ToDomain()
	}
	return result, nil
}

// GormReceiptRepository implements finance.ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByStudent returns the student's receipts newest first. Date bounds are inclusive;
// the search term is applied after enrichment, not here.
func (r *GormReceiptRepository) FindByStudent(ctx context.Context, studentID uuid.UUID, filter finance.ReceiptFilter) ([]finance.Receipt, error) {
	query := r.db.WithContext(ctx).Where("student_id = ?", studentID)
	if filter.From != nil {
		query = query.Where("receipt_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("receipt_date <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []models.ReceiptModel
	if err := query.Order("receipt_date DESC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.Receipt, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ finance.StudentFeeRepository = (*GormStudentFeeRepository)(nil)
	_ finance.InvoiceRepository    = (*GormInvoiceRepository)(nil)
	_ finance.PaymentRepository    = (*GormPaymentRepository)(nil)
	_ finance.ReceiptRepository    = (*GormReceiptRepository)(nil)
)
