package models

import (
	"time"

	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeStructureModel is the persistence model for the fee structure header.
// Items are stored in fee_structure_items and loaded explicitly.
type FeeStructureModel struct {
	BaseModel
	Name           string          `gorm:"type:varchar(255);not null"`
	AcademicYearID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_fee_structure_scope"`
	TermID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_fee_structure_scope"`
	StudentType    string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_fee_structure_scope"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate        *time.Time      `gorm:"type:date"`
	Notes          string          `gorm:"type:text"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (FeeStructureModel) TableName() string {
	return "fee_structures"
}

// ToDomain converts the persistence model to a domain FeeStructure without items
func (m *FeeStructureModel) ToDomain() *finance.FeeStructure {
	return &finance.FeeStructure{
		BaseEntity:     m.BaseModel.ToDomain(),
		Name:           m.Name,
		AcademicYearID: m.AcademicYearID,
		TermID:         m.TermID,
		StudentType:    finance.StudentType(m.StudentType),
		TotalAmount:    m.TotalAmount,
		DueDate:        m.DueDate,
		Notes:          m.Notes,
		CreatedBy:      m.CreatedBy,
	}
}

// FeeStructureModelFromDomain creates a new persistence model from a domain FeeStructure
func FeeStructureModelFromDomain(fs *finance.FeeStructure) *FeeStructureModel {
	m := &FeeStructureModel{
		Name:           fs.Name,
		AcademicYearID: fs.AcademicYearID,
		TermID:         fs.TermID,
		StudentType:    string(fs.StudentType),
		TotalAmount:    fs.TotalAmount,
		DueDate:        fs.DueDate,
		Notes:          fs.Notes,
		CreatedBy:      fs.CreatedBy,
	}
	m.FromDomainBaseEntity(fs.BaseEntity)
	return m
}

// FeeStructureItemModel is the persistence model for finance.FeeStructureItem
type FeeStructureItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	FeeStructureID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"type:varchar(255);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IsMandatory    bool            `gorm:"not null"`
	DisplayOrder   int             `gorm:"not null;default:0"`
	CreatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FeeStructureItemModel) TableName() string {
	return "fee_structure_items"
}

// ToDomain converts the persistence model to a domain FeeStructureItem
func (m *FeeStructureItemModel) ToDomain() finance.FeeStructureItem {
	return finance.FeeStructureItem{
		ID:             m.ID,
		FeeStructureID: m.FeeStructureID,
		Name:           m.Name,
		Amount:         m.Amount,
		IsMandatory:    m.IsMandatory,
		DisplayOrder:   m.DisplayOrder,
	}
}

// FeeStructureItemModelsFromDomain converts domain items to persistence models
func FeeStructureItemModelsFromDomain(items []finance.FeeStructureItem) []FeeStructureItemModel {
	out := make([]FeeStructureItemModel, len(items))
	for i, it := range items {
		out[i] = FeeStructureItemModel{
			ID:             it.ID,
			FeeStructureID: it.FeeStructureID,
			Name:           it.Name,
			Amount:         it.Amount,
			IsMandatory:    it.IsMandatory,
			DisplayOrder:   it.DisplayOrder,
		}
	}
	return out
}

// StudentFeeModel is the persistence model for finance.StudentFee.
// Rows are written by billing; this service only reads them.
type StudentFeeModel struct {
	BaseModel
	StudentID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	AcademicYearID uuid.UUID       `gorm:"type:uuid;not null"`
	TermID         uuid.UUID       `gorm:"type:uuid;not null"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Balance        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (StudentFeeModel) TableName() string {
	return "student_fees"
}

// InvoiceModel is the persistence model for finance.Invoice
type InvoiceModel struct {
	BaseModel
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	StudentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceDate   time.Time       `gorm:"type:date;not null"`
	DueDate       *time.Time      `gorm:"type:date"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	return &finance.Invoice{
		ID:            m.ID,
		InvoiceNumber: m.InvoiceNumber,
		StudentID:     m.StudentID,
		InvoiceDate:   m.InvoiceDate,
		DueDate:       m.DueDate,
		TotalAmount:   m.TotalAmount,
		AmountPaid:    m.AmountPaid,
		Balance:       m.Balance,
		CreatedAt:     m.CreatedAt,
	}
}

// PaymentModel is the persistence model for finance.Payment
type PaymentModel struct {
	BaseModel
	PaymentNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	StudentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(50)"`
	PaymentDate   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *finance.Payment {
	return &finance.Payment{
		ID:            m.ID,
		PaymentNumber: m.PaymentNumber,
		InvoiceID:     m.InvoiceID,
		StudentID:     m.StudentID,
		Amount:        m.Amount,
		PaymentMethod: m.PaymentMethod,
		PaymentDate:   m.PaymentDate,
		CreatedAt:     m.CreatedAt,
	}
}

// ReceiptModel is the persistence model for finance.Receipt.
// A receipt proves exactly one payment.
type ReceiptModel struct {
	BaseModel
	ReceiptNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	PaymentID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	StudentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ReceiptDate   time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts the persistence model to a domain Receipt
func (m *ReceiptModel) ToDomain() finance.Receipt {
	return finance.Receipt{
		ID:            m.ID,
		ReceiptNumber: m.ReceiptNumber,
		PaymentID:     m.PaymentID,
		StudentID:     m.StudentID,
		Amount:        m.Amount,
		ReceiptDate:   m.ReceiptDate,
		CreatedAt:     m.CreatedAt,
	}
}
