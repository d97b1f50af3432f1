package handler

import (
	"time"

	appfinance "github.com/edusuite/backend/internal/application/finance"
	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// FeeStructureHandler handles fee structure endpoints
type FeeStructureHandler struct {
	BaseHandler
	service *appfinance.FeeStructureService
}

// NewFeeStructureHandler creates a new FeeStructureHandler
func NewFeeStructureHandler(service *appfinance.FeeStructureService) *FeeStructureHandler {
	return &FeeStructureHandler{service: service}
}

// Create handles POST /fee-structures
func (h *FeeStructureHandler) Create(c *gin.Context) {
	var req dto.CreateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := appfinance.CreateFeeStructureInput{
		AcademicYearID: req.AcademicYearID,
		TermID:         req.TermID,
		StudentType:    req.StudentType,
		Notes:          req.Notes,
		Items:          make([]appfinance.FeeItemInput, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, appfinance.FeeItemInput{
			Name:         it.Name,
			Amount:       it.Amount,
			IsMandatory:  it.IsMandatory,
			DisplayOrder: it.DisplayOrder,
		})
	}
	if req.DueDate != "" {
		due, _, err := dto.ParseDate(req.DueDate)
		if err != nil {
			h.HandleError(c, shared.NewInvalidInput("due_date must be a date (YYYY-MM-DD)"))
			return
		}
		input.DueDate = &due
	}

	result, err := h.service.Create(c.Request.Context(), caller(c), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result.Message, dto.ToFeeStructureResponse(result.Structure))
}

// List handles GET /fee-structures
func (h *FeeStructureHandler) List(c *gin.Context) {
	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}
	page = page.Normalize()

	filter := finance.FeeStructureFilter{
		Filter: shared.Filter{
			Page:     page.Page,
			PageSize: page.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
	}
	var err error
	if filter.AcademicYearID, err = parseOptionalUUID(c, "academic_year_id", "academic year"); err != nil {
		h.HandleError(c, err)
		return
	}
	if filter.TermID, err = parseOptionalUUID(c, "term_id", "term"); err != nil {
		h.HandleError(c, err)
		return
	}
	if raw := c.Query("student_type"); raw != "" {
		st := finance.StudentType(raw)
		if !st.IsValid() {
			h.HandleError(c, shared.NewInvalidInput("student_type must be internal or external"))
			return
		}
		filter.StudentType = &st
	}

	items, total, err := h.service.List(c.Request.Context(), caller(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.ToFeeStructureResponses(items), total, page.Page, page.PageSize)
}

// Get handles GET /fee-structures/:id
func (h *FeeStructureHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id", "fee structure")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	fs, err := h.service.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToFeeStructureResponse(fs))
}

// LedgerHandler handles student fee, outstanding and receipt endpoints
type LedgerHandler struct {
	BaseHandler
	ledger   *appfinance.LedgerService
	receipts *appfinance.ReceiptService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledger *appfinance.LedgerService, receipts *appfinance.ReceiptService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, receipts: receipts}
}

// Summary handles GET /students/:id/fees/summary
func (h *LedgerHandler) Summary(c *gin.Context) {
	studentID, err := parseUUIDParam(c, "id", "student")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	summary, err := h.ledger.StudentFeeSummary(c.Request.Context(), caller(c), studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToFeeSummaryResponse(summary))
}

// Outstanding handles GET /finance/outstanding
func (h *LedgerHandler) Outstanding(c *gin.Context) {
	fees, err := h.ledger.SchoolWideOutstanding(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToOutstandingFeeResponses(fees))
}

// RecentReceipts handles GET /students/:id/receipts/recent?limit=
func (h *LedgerHandler) RecentReceipts(c *gin.Context) {
	studentID, err := parseUUIDParam(c, "id", "student")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	limit, err := parseOptionalInt(c, "limit")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	receipts, err := h.receipts.RecentReceipts(c.Request.Context(), caller(c), studentID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToReceiptResponses(receipts))
}

// AllReceipts handles GET /students/:id/receipts?from=&to=&search=
// A date-only "to" covers the whole day.
func (h *LedgerHandler) AllReceipts(c *gin.Context) {
	studentID, err := parseUUIDParam(c, "id", "student")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filter := finance.ReceiptFilter{SearchTerm: c.Query("search")}
	if raw := c.Query("from"); raw != "" {
		from, _, err := dto.ParseDate(raw)
		if err != nil {
			h.HandleError(c, shared.NewInvalidInput("from must be a date (YYYY-MM-DD)"))
			return
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, dateOnly, err := dto.ParseDate(raw)
		if err != nil {
			h.HandleError(c, shared.NewInvalidInput("to must be a date (YYYY-MM-DD)"))
			return
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		h.HandleError(c, shared.NewInvalidInput("to must not be before from"))
		return
	}

	receipts, err := h.receipts.AllReceipts(c.Request.Context(), caller(c), studentID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToReceiptResponses(receipts))
}
