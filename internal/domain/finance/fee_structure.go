package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/edusuite/backend/internal/domain/academic"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StudentType distinguishes internal (boarding) learners from external (day) learners.
type StudentType string

const (
	StudentTypeInternal StudentType = "internal"
	StudentTypeExternal StudentType = "external"
)

// IsValid checks if the student type is valid
func (t StudentType) IsValid() bool {
	return t == StudentTypeInternal || t == StudentTypeExternal
}

// String returns the string representation
func (t StudentType) String() string {
	return string(t)
}

// Label returns the human-facing label used in fee structure names.
func (t StudentType) Label() string {
	if t == StudentTypeExternal {
		return "External Students"
	}
	return "Internal Students"
}

// FeeStructure is a priced bundle of charges for one (academic year, term, student type).
// A structure never exists without its items.
type FeeStructure struct {
	shared.BaseEntity
	Name           string
	AcademicYearID uuid.UUID
	TermID         uuid.UUID
	StudentType    StudentType
	TotalAmount    decimal.Decimal
	DueDate        *time.Time
	Notes          string
	CreatedBy      uuid.UUID
	Items          []FeeStructureItem

	// Read-side fields
	AcademicYearName string
	TermName         string
}

// FeeStructureItem is a single charge of a fee structure.
type FeeStructureItem struct {
	ID             uuid.UUID
	FeeStructureID uuid.UUID
	Name           string
	Amount         decimal.Decimal
	IsMandatory    bool
	DisplayOrder   int
}

// FeeItemInput describes an item to be created.
// DisplayOrder of zero means "use the item's position".
type FeeItemInput struct {
	Name         string
	Amount       decimal.Decimal
	IsMandatory  bool
	DisplayOrder int
}

// FeeStructureName builds the canonical structure name.
func FeeStructureName(studentType StudentType, termName, academicYearName string) string {
	return fmt.Sprintf("%s - %s %s", studentType.Label(), termName, academicYearName)
}

// SumItems returns the sum of item amounts.
func SumItems(items []FeeStructureItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

// NewFeeStructure validates the input and builds a structure with its items.
// The name and total are derived, never supplied.
func NewFeeStructure(
	year *academic.AcademicYear,
	term *academic.Term,
	studentType StudentType,
	items []FeeItemInput,
	dueDate *time.Time,
	notes string,
	createdBy uuid.UUID,
) (*FeeStructure, error) {
	if year == nil || term == nil {
		return nil, shared.NewInvalidInput("Academic year and term are required")
	}
	if !term.BelongsTo(year.ID) {
		return nil, shared.NewInvalidInput("Term does not belong to the academic year")
	}
	if !studentType.IsValid() {
		return nil, shared.NewInvalidInput("Student type must be internal or external")
	}
	if len(items) == 0 {
		return nil, shared.NewInvalidInput("At least one fee item is required")
	}

	fs := &FeeStructure{
		BaseEntity:       shared.NewBaseEntity(),
		Name:             FeeStructureName(studentType, term.Name, year.Name),
		AcademicYearID:   year.ID,
		TermID:           term.ID,
		StudentType:      studentType,
		DueDate:          dueDate,
		Notes:            strings.TrimSpace(notes),
		CreatedBy:        createdBy,
		AcademicYearName: year.Name,
		TermName:         term.Name,
	}

	fs.Items = make([]FeeStructureItem, 0, len(items))
	for i, in := range items {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, shared.NewInvalidInput(fmt.Sprintf("Fee item %d has no name", i+1))
		}
		if in.Amount.IsNegative() {
			return nil, shared.NewInvalidInput(fmt.Sprintf("Fee item %q cannot have a negative amount", name))
		}
		order := in.DisplayOrder
		if order <= 0 {
			order = i + 1
		}
		fs.Items = append(fs.Items, FeeStructureItem{
			ID:             uuid.New(),
			FeeStructureID: fs.ID,
			Name:           name,
			Amount:         in.Amount,
			IsMandatory:    in.IsMandatory,
			DisplayOrder:   order,
		})
	}
	fs.TotalAmount = SumItems(fs.Items)

	return fs, nil
}

// ItemCount returns the number of items
func (fs *FeeStructure) ItemCount() int {
	return len(fs.Items)
}

// MandatoryTotal returns the sum of mandatory items only.
func (fs *FeeStructure) MandatoryTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range fs.Items {
		if it.IsMandatory {
			total = total.Add(it.Amount)
		}
	}
	return total
}
