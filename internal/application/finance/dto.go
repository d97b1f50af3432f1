package finance

import (
	"time"

	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateFeeStructureInput is the request to author a fee structure.
// Name and total are derived and cannot be supplied.
type CreateFeeStructureInput struct {
	AcademicYearID uuid.UUID      `json:"academic_year_id" validate:"required"`
	TermID         uuid.UUID      `json:"term_id" validate:"required"`
	StudentType    string         `json:"student_type" validate:"required,oneof=internal external"`
	Items          []FeeItemInput `json:"items" validate:"required,min=1,dive"`
	DueDate        *time.Time     `json:"due_date"`
	Notes          string         `json:"notes" validate:"max=2000"`
}

// FeeItemInput is one line of CreateFeeStructureInput
type FeeItemInput struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Amount       decimal.Decimal `json:"amount" validate:"money"`
	IsMandatory  bool            `json:"is_mandatory"`
	DisplayOrder int             `json:"display_order" validate:"gte=0"`
}

// CreateFeeStructureResult is the created structure and a confirmation message
type CreateFeeStructureResult struct {
	Structure *finance.FeeStructure
	Message   string
}

func (in CreateFeeStructureInput) itemInputs() []finance.FeeItemInput {
	out := make([]finance.FeeItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		out = append(out, finance.FeeItemInput{
			Name:         it.Name,
			Amount:       it.Amount,
			IsMandatory:  it.IsMandatory,
			DisplayOrder: it.DisplayOrder,
		})
	}
	return out
}
