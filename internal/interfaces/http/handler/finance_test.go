package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feeStructureBody(yearID, termID uuid.UUID, studentType string) map[string]any {
	return map[string]any{
		"academic_year_id": yearID,
		"term_id":          termID,
		"student_type":     studentType,
		"due_date":         "2025-02-14",
		"items": []map[string]any{
			{"name": "Tuition", "amount": "15000.00", "is_mandatory": true},
			{"name": "Boarding", "amount": "8500.50", "is_mandatory": true},
			{"name": "Music club", "amount": "1200", "is_mandatory": false},
		},
	}
}

func TestFeeStructureHandler_Create(t *testing.T) {
	s := newTestServer(t)
	yearID := s.academicYear("2025")
	termID := s.term(yearID, "Term 1", date(2025, 1, 6), true)
	admin := s.profile("Grace", "Admin", "admin")

	t.Run("created with derived name and total", func(t *testing.T) {
		w := s.as(identity.RoleAdmin, admin).do(http.MethodPost, "/fee-structures", feeStructureBody(yearID, termID, "internal"))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var env struct {
			Message string                   `json:"message"`
			Data    dto.FeeStructureResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "Internal Students - Term 1 2025", env.Data.Name)
		assert.True(t, env.Data.TotalAmount.Equal(dec("24700.50")))
		require.Len(t, env.Data.Items, 3)
		assert.Equal(t, "Tuition", env.Data.Items[0].Name)
		assert.Equal(t, admin, env.Data.CreatedBy)
		require.NotNil(t, env.Data.DueDate)
		assert.Equal(t, date(2025, 2, 14), env.Data.DueDate.UTC())
		assert.Equal(t, `Fee structure "Internal Students - Term 1 2025" created with 3 items totalling KES 24700.50`, env.Message)
	})

	t.Run("duplicate scope conflicts", func(t *testing.T) {
		w := s.as(identity.RoleAdmin, admin).do(http.MethodPost, "/fee-structures", feeStructureBody(yearID, termID, "internal"))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, shared.CodeConflict, decode(t, w).Error.Code)
	})

	t.Run("other student type is a separate scope", func(t *testing.T) {
		w := s.as(identity.RoleHeadteacher, s.profile("Joseph", "Head", "headteacher")).
			do(http.MethodPost, "/fee-structures", feeStructureBody(yearID, termID, "external"))
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	tests := []struct {
		name   string
		role   identity.Role
		body   any
		status int
		code   string
	}{
		{"teacher forbidden", identity.RoleTeacher, feeStructureBody(yearID, termID, "internal"), http.StatusForbidden, shared.CodeForbidden},
		{"deputy forbidden", identity.RoleDeputyHeadteacher, feeStructureBody(yearID, termID, "internal"), http.StatusForbidden, shared.CodeForbidden},
		{"malformed body", identity.RoleAdmin, "{not json", http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"bad student type", identity.RoleAdmin, feeStructureBody(yearID, termID, "boarding"), http.StatusBadRequest, shared.CodeInvalidInput},
		{"unknown term", identity.RoleAdmin, feeStructureBody(yearID, uuid.New(), "internal"), http.StatusNotFound, shared.CodeNotFound},
		{"no items", identity.RoleAdmin, map[string]any{
			"academic_year_id": yearID, "term_id": termID, "student_type": "internal", "items": []any{},
		}, http.StatusBadRequest, shared.CodeInvalidInput},
		{"bad due date", identity.RoleAdmin, func() map[string]any {
			b := feeStructureBody(yearID, termID, "internal")
			b["due_date"] = "14/02/2025"
			return b
		}(), http.StatusBadRequest, shared.CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.as(tt.role, uuid.New()).do(http.MethodPost, "/fee-structures", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode(t, w).Error.Code)
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		w := s.anonymous().do(http.MethodPost, "/fee-structures", feeStructureBody(yearID, termID, "internal"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestFeeStructureHandler_ListAndGet(t *testing.T) {
	s := newTestServer(t)
	yearID := s.academicYear("2025")
	term1 := s.term(yearID, "Term 1", date(2025, 1, 6), true)
	term2 := s.term(yearID, "Term 2", date(2025, 5, 5), false)
	admin := s.profile("Grace", "Admin", "admin")

	var created dto.FeeStructureResponse
	for _, termID := range []uuid.UUID{term1, term2} {
		w := s.as(identity.RoleAdmin, admin).do(http.MethodPost, "/fee-structures", feeStructureBody(yearID, termID, "internal"))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data(t, w, &created)
	}

	t.Run("list with meta", func(t *testing.T) {
		w := s.as(identity.RoleDeputyHeadteacher, uuid.New()).do(http.MethodGet, "/fee-structures?page=1&page_size=1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(2), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.TotalPages)
	})

	t.Run("filter by term", func(t *testing.T) {
		w := s.as(identity.RoleAdmin, admin).do(http.MethodGet, "/fee-structures?term_id="+term2.String(), nil)
		var items []dto.FeeStructureResponse
		data(t, w, &items)
		require.Len(t, items, 1)
		assert.Equal(t, term2, items[0].TermID)
		assert.Empty(t, items[0].Items)
	})

	t.Run("invalid filters", func(t *testing.T) {
		for _, q := range []string{"?term_id=nope", "?academic_year_id=nope", "?student_type=day"} {
			w := s.as(identity.RoleAdmin, admin).do(http.MethodGet, "/fee-structures"+q, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
		}
	})

	t.Run("get includes items", func(t *testing.T) {
		w := s.as(identity.RoleAdmin, admin).do(http.MethodGet, "/fee-structures/"+created.ID.String(), nil)
		var got dto.FeeStructureResponse
		data(t, w, &got)
		assert.Equal(t, created.ID, got.ID)
		assert.Len(t, got.Items, 3)
	})

	t.Run("get unknown", func(t *testing.T) {
		w := s.as(identity.RoleAdmin, admin).do(http.MethodGet, "/fee-structures/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("get malformed id", func(t *testing.T) {
		w := s.as(identity.RoleAdmin, admin).do(http.MethodGet, "/fee-structures/123", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("student cannot list", func(t *testing.T) {
		w := s.as(identity.RoleStudent, uuid.New()).do(http.MethodGet, "/fee-structures", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

// ledgerFixture seeds one guardian with a child that owes fees, and an unrelated student
type ledgerFixture struct {
	s               *testServer
	childID         uuid.UUID
	childProfile    uuid.UUID
	otherID         uuid.UUID
	guardianProfile uuid.UUID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	s := newTestServer(t)
	classID := s.class("Grade 6 East")
	yearID := s.academicYear("2025")
	term1 := s.term(yearID, "Term 1", date(2025, 1, 6), false)
	term2 := s.term(yearID, "Term 2", date(2025, 5, 5), true)

	childID, childProfile := s.student("STU-001", "Amina", &classID)
	otherID, _ := s.student("STU-002", "Baraka", &classID)
	guardianID, guardianProfile := s.guardian("Wanjiru", "+254700000001")
	s.link(childID, guardianID, true)

	s.studentFee(childID, yearID, term1, "20000", "20000", date(2025, 1, 10))
	s.studentFee(childID, yearID, term2, "21000", "6000", date(2025, 5, 8))
	inv := s.invoice(childID, "INV-100", date(2025, 5, 8), "15000")
	s.invoice(otherID, "INV-200", date(2025, 1, 10), "4000")

	p1 := s.payment(childID, inv, "PAY-1", "mpesa", "4000", date(2025, 5, 9))
	p2 := s.payment(childID, inv, "PAY-2", "bank_transfer", "2000", date(2025, 6, 1))
	s.receipt(childID, p1, "RCT-001", "4000", time.Date(2025, 5, 9, 15, 30, 0, 0, time.UTC))
	s.receipt(childID, p2, "RCT-002", "2000", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	s.receipt(childID, uuid.New(), "MAN-900", "500", time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	return &ledgerFixture{s: s, childID: childID, childProfile: childProfile, otherID: otherID, guardianProfile: guardianProfile}
}

func TestLedgerHandler_Summary(t *testing.T) {
	f := newLedgerFixture(t)
	path := "/students/" + f.childID.String() + "/fees/summary"

	t.Run("guardian sees child", func(t *testing.T) {
		w := f.s.as(identity.RoleGuardian, f.guardianProfile).do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got dto.FeeSummaryResponse
		data(t, w, &got)
		assert.True(t, got.TotalFees.Equal(dec("41000")))
		assert.True(t, got.TotalPaid.Equal(dec("26000")))
		assert.True(t, got.OutstandingBalance.Equal(dec("15000")))
		assert.True(t, got.Reconciled)
		require.Len(t, got.Breakdown, 2)
		assert.Equal(t, "Term 2", got.Breakdown[0].TermName, "newest first")
	})

	t.Run("student sees self", func(t *testing.T) {
		w := f.s.as(identity.RoleStudent, f.childProfile).do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("guardian of another child is forbidden", func(t *testing.T) {
		w := f.s.as(identity.RoleGuardian, f.guardianProfile).do(http.MethodGet, "/students/"+f.otherID.String()+"/fees/summary", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown student", func(t *testing.T) {
		w := f.s.as(identity.RoleAdmin, uuid.New()).do(http.MethodGet, "/students/"+uuid.NewString()+"/fees/summary", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("student without fee rows has empty breakdown", func(t *testing.T) {
		w := f.s.as(identity.RoleAdmin, uuid.New()).do(http.MethodGet, "/students/"+f.otherID.String()+"/fees/summary", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"breakdown":[]`)
	})
}

func TestLedgerHandler_Outstanding(t *testing.T) {
	f := newLedgerFixture(t)

	w := f.s.as(identity.RoleHeadteacher, uuid.New()).do(http.MethodGet, "/finance/outstanding", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rows []dto.OutstandingFeeResponse
	data(t, w, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "STU-001", rows[0].StudentCode, "highest total first")
	assert.Equal(t, "+254700000001", rows[0].GuardianPhone)
	assert.Equal(t, 1, rows[0].InvoiceCount)
	assert.Equal(t, "", rows[1].GuardianPhone)

	for _, role := range []identity.Role{identity.RoleTeacher, identity.RoleGuardian, identity.RoleStudent} {
		w := f.s.as(role, uuid.New()).do(http.MethodGet, "/finance/outstanding", nil)
		assert.Equal(t, http.StatusForbidden, w.Code, role.String())
	}
}

func TestLedgerHandler_Receipts(t *testing.T) {
	f := newLedgerFixture(t)
	base := "/students/" + f.childID.String() + "/receipts"
	s := f.s.as(identity.RoleGuardian, f.guardianProfile)

	t.Run("recent newest first with references", func(t *testing.T) {
		var got []dto.ReceiptResponse
		data(t, s.do(http.MethodGet, base+"/recent", nil), &got)
		require.Len(t, got, 3)
		assert.Equal(t, "MAN-900", got[0].ReceiptNumber)
		assert.Equal(t, finance.MissingReference, got[0].PaymentNumber)
		assert.Equal(t, finance.MissingReference, got[0].InvoiceNumber)
		assert.Equal(t, "PAY-2", got[1].PaymentNumber)
		assert.Equal(t, "bank_transfer", got[1].PaymentMethod)
		assert.Equal(t, "INV-100", got[1].InvoiceNumber)
	})

	t.Run("recent with limit", func(t *testing.T) {
		var got []dto.ReceiptResponse
		data(t, s.do(http.MethodGet, base+"/recent?limit=1", nil), &got)
		assert.Len(t, got, 1)
	})

	t.Run("bad limit", func(t *testing.T) {
		w := s.do(http.MethodGet, base+"/recent?limit=ten", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("date-only upper bound includes the whole day", func(t *testing.T) {
		var got []dto.ReceiptResponse
		data(t, s.do(http.MethodGet, base+"?from=2025-05-01&to=2025-05-09", nil), &got)
		require.Len(t, got, 1)
		assert.Equal(t, "RCT-001", got[0].ReceiptNumber)
	})

	t.Run("search", func(t *testing.T) {
		var got []dto.ReceiptResponse
		data(t, s.do(http.MethodGet, base+"?search=rct", nil), &got)
		assert.Len(t, got, 2)
	})

	t.Run("invalid ranges", func(t *testing.T) {
		for _, q := range []string{"?from=yesterday", "?to=2025-13-01", "?from=2025-06-01&to=2025-05-01"} {
			w := s.do(http.MethodGet, base+q, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
		}
	})

	t.Run("unrelated guardian", func(t *testing.T) {
		w := f.s.as(identity.RoleGuardian, uuid.New()).do(http.MethodGet, base, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
