package handler

import (
	"github.com/edusuite/backend/internal/application/academic"
	"github.com/edusuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CalendarHandler serves academic years and terms
type CalendarHandler struct {
	BaseHandler
	calendar *academic.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(calendar *academic.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// ListAcademicYears handles GET /academic-years
func (h *CalendarHandler) ListAcademicYears(c *gin.Context) {
	years, err := h.calendar.ListAcademicYears(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToAcademicYearResponses(years))
}

// ListTerms handles GET /terms?academic_year_id=
func (h *CalendarHandler) ListTerms(c *gin.Context) {
	yearID, err := parseOptionalUUID(c, "academic_year_id", "academic year")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	terms, err := h.calendar.ListTerms(c.Request.Context(), caller(c), yearID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToTermResponses(terms))
}

// ActiveTerm handles GET /terms/active
func (h *CalendarHandler) ActiveTerm(c *gin.Context) {
	term, err := h.calendar.ActiveTerm(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToTermResponse(term))
}

// ActivateTerm handles POST /terms/:id/activate
func (h *CalendarHandler) ActivateTerm(c *gin.Context) {
	termID, err := parseUUIDParam(c, "id", "term")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	term, err := h.calendar.ActivateTerm(c.Request.Context(), caller(c), termID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToTermResponse(term))
}
