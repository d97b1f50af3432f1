package router

import (
	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/interfaces/http/handler"
	"github.com/edusuite/backend/internal/interfaces/http/middleware"
)

// Handlers is the set of handlers mounted under the versioned API
type Handlers struct {
	FeeStructures *handler.FeeStructureHandler
	Ledger        *handler.LedgerHandler
	Me            *handler.MeHandler
	Guardians     *handler.GuardianHandler
	Calendar      *handler.CalendarHandler
	System        *handler.SystemHandler
}

// Groups builds the domain route groups. Services enforce every authorization rule;
// RequirePermission only rejects obviously unauthorized admin calls early.
func Groups(h Handlers) []*DomainGroup {
	feeStructures := NewDomainGroup("fee_structures", "/fee-structures").
		POST("", h.FeeStructures.Create).
		GET("", h.FeeStructures.List).
		GET("/:id", h.FeeStructures.Get)

	students := NewDomainGroup("students", "/students").
		GET("/:id/fees/summary", h.Ledger.Summary).
		GET("/:id/receipts/recent", h.Ledger.RecentReceipts).
		GET("/:id/receipts", h.Ledger.AllReceipts).
		POST("/:id/guardians", middleware.RequirePermission(identity.PermGuardiansManage), h.Guardians.Link)

	financeGroup := NewDomainGroup("finance", "/finance").
		GET("/outstanding", h.Ledger.Outstanding)

	me := NewDomainGroup("me", "/me").
		GET("", h.Me.Me).
		GET("/children", h.Me.Children).
		GET("/children/:studentId", h.Me.Child).
		GET("/teaching", h.Me.Teaching).
		GET("/roster", h.Me.Roster)

	calendar := NewDomainGroup("calendar", "")
	calendar.GET("/academic-years", h.Calendar.ListAcademicYears)
	calendar.GET("/terms", h.Calendar.ListTerms)
	calendar.GET("/terms/active", h.Calendar.ActiveTerm)
	calendar.POST("/terms/:id/activate", middleware.RequirePermission(identity.PermTermsManage), h.Calendar.ActivateTerm)

	settings := NewDomainGroup("settings", "/settings").
		GET("/features", h.System.Features)

	return []*DomainGroup{feeStructures, students, financeGroup, me, calendar, settings}
}

// RegisterAPI registers every domain group on r
func RegisterAPI(r *Router, h Handlers) {
	for _, g := range Groups(h) {
		r.Register(g)
	}
}
