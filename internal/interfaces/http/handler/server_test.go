package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	appacademic "github.com/edusuite/backend/internal/application/academic"
	appfinance "github.com/edusuite/backend/internal/application/finance"
	"github.com/edusuite/backend/internal/application/relationship"
	"github.com/edusuite/backend/internal/domain/identity"
	"github.com/edusuite/backend/internal/infrastructure/cache"
	"github.com/edusuite/backend/internal/infrastructure/persistence"
	"github.com/edusuite/backend/internal/infrastructure/persistence/models"
	"github.com/edusuite/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testServer mounts the handlers over real services backed by in-memory SQLite.
// The caller is injected directly instead of going through SessionAuth.
type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	caller *identity.Identity
}

type serverOptions struct {
	reportsEnabled bool
}

func newTestServer(t *testing.T, opts ...func(*serverOptions)) *testServer {
	t.Helper()
	o := serverOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), persistence.GormConfig(zap.NewNop(), "silent"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := zap.NewNop()
	invalidator := cache.NewInMemoryInvalidator()

	students := persistence.NewGormStudentRepository(db)
	guardians := persistence.NewGormGuardianRepository(db)
	studentFees := persistence.NewGormStudentFeeRepository(db)
	invoices := persistence.NewGormInvoiceRepository(db)
	years := persistence.NewGormAcademicYearRepository(db)
	terms := persistence.NewGormTermRepository(db)

	relationships := relationship.NewService(relationship.Repositories{
		Students:         students,
		Guardians:        guardians,
		Teachers:         persistence.NewGormTeacherRepository(db),
		StudentGuardians: persistence.NewGormStudentGuardianRepository(db),
		Teaching:         persistence.NewGormTeachingRepository(db),
		StudentFees:      studentFees,
	}, invalidator, log)
	access := appfinance.NewStudentAccess(students, relationships)

	feeStructures := appfinance.NewFeeStructureService(
		persistence.NewGormFeeStructureRepository(db), years, terms, invalidator, log,
		appfinance.WithLocker(cache.NewLocalLocker()),
	)
	ledger := appfinance.NewLedgerService(access, studentFees, invoices, guardians, nil, log)
	receipts := appfinance.NewReceiptService(access, persistence.NewGormReceiptRepository(db),
		persistence.NewGormPaymentRepository(db), invoices, 0, log)
	calendar := appacademic.NewCalendarService(years, terms, invalidator, log)

	s := &testServer{t: t, db: db}
	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		if s.caller != nil {
			c.Set(middleware.IdentityKey, s.caller)
		}
		c.Next()
	})

	fs := NewFeeStructureHandler(feeStructures)
	r.POST("/fee-structures", fs.Create)
	r.GET("/fee-structures", fs.List)
	r.GET("/fee-structures/:id", fs.Get)

	lh := NewLedgerHandler(ledger, receipts)
	r.GET("/students/:id/fees/summary", lh.Summary)
	r.GET("/students/:id/receipts/recent", lh.RecentReceipts)
	r.GET("/students/:id/receipts", lh.AllReceipts)
	r.GET("/finance/outstanding", lh.Outstanding)

	me := NewMeHandler(relationships, o.reportsEnabled)
	r.GET("/me", me.Me)
	r.GET("/me/children", me.Children)
	r.GET("/me/children/:studentId", me.Child)
	r.GET("/me/teaching", me.Teaching)
	r.GET("/me/roster", me.Roster)

	gh := NewGuardianHandler(relationships)
	r.POST("/students/:id/guardians", gh.Link)

	ch := NewCalendarHandler(calendar)
	r.GET("/academic-years", ch.ListAcademicYears)
	r.GET("/terms", ch.ListTerms)
	r.GET("/terms/active", ch.ActiveTerm)
	r.POST("/terms/:id/activate", ch.ActivateTerm)

	s.engine = r
	return s
}

func withReports(o *serverOptions) { o.reportsEnabled = true }

// as sets the caller of subsequent requests
func (s *testServer) as(role identity.Role, profileID uuid.UUID) *testServer {
	s.caller = &identity.Identity{ProfileID: profileID, Email: "caller@school.test", DisplayName: "Caller", Role: role}
	return s
}

func (s *testServer) anonymous() *testServer {
	s.caller = nil
	return s
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// data decodes the success envelope's data into out
func data(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// extractData returns the raw JSON of the success envelope's data
func extractData(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return string(env.Data)
}

func (s *testServer) create(value any) {
	s.t.Helper()
	require.NoError(s.t, s.db.Create(value).Error)
}

func (s *testServer) profile(first, last, role string) uuid.UUID {
	id := uuid.New()
	s.create(&models.ProfileModel{ID: id, FirstName: first, LastName: last, Email: first + "@school.test", Role: role})
	return id
}

func (s *testServer) class(name string) uuid.UUID {
	m := &models.ClassModel{BaseModel: models.BaseModel{ID: uuid.New()}, Name: name}
	s.create(m)
	return m.ID
}

func (s *testServer) student(code, first string, classID *uuid.UUID) (studentID, profileID uuid.UUID) {
	profileID = s.profile(first, "Learner", "student")
	m := &models.StudentModel{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		ProfileID:   profileID,
		StudentCode: code,
		ClassID:     classID,
		Status:      "active",
	}
	s.create(m)
	return m.ID, profileID
}

func (s *testServer) guardian(first, phone string) (guardianID, profileID uuid.UUID) {
	profileID = s.profile(first, "Parent", "guardian")
	m := &models.GuardianModel{BaseModel: models.BaseModel{ID: uuid.New()}, ProfileID: profileID, Phone: phone}
	s.create(m)
	return m.ID, profileID
}

func (s *testServer) link(studentID, guardianID uuid.UUID, primary bool) {
	s.create(&models.StudentGuardianModel{
		BaseModel:    models.BaseModel{ID: uuid.New()},
		StudentID:    studentID,
		GuardianID:   guardianID,
		Relationship: "mother",
		IsPrimary:    primary,
	})
}

func (s *testServer) academicYear(name string) uuid.UUID {
	m := &models.AcademicYearModel{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      name,
		StartDate: date(2025, 1, 6),
		EndDate:   date(2025, 11, 28),
		IsCurrent: true,
	}
	s.create(m)
	return m.ID
}

func (s *testServer) term(yearID uuid.UUID, name string, start time.Time, active bool) uuid.UUID {
	m := &models.TermModel{
		BaseModel:      models.BaseModel{ID: uuid.New()},
		AcademicYearID: yearID,
		Name:           name,
		StartDate:      start,
		EndDate:        start.AddDate(0, 3, 0),
		IsActive:       active,
	}
	s.create(m)
	return m.ID
}

func (s *testServer) studentFee(studentID, yearID, termID uuid.UUID, total, paid string, createdAt time.Time) {
	s.create(&models.StudentFeeModel{
		BaseModel:      models.BaseModel{ID: uuid.New(), CreatedAt: createdAt, UpdatedAt: createdAt},
		StudentID:      studentID,
		AcademicYearID: yearID,
		TermID:         termID,
		TotalAmount:    dec(total),
		AmountPaid:     dec(paid),
		Balance:        dec(total).Sub(dec(paid)),
	})
}

func (s *testServer) invoice(studentID uuid.UUID, number string, invoiceDate time.Time, balance string) uuid.UUID {
	m := &models.InvoiceModel{
		BaseModel:     models.BaseModel{ID: uuid.New()},
		InvoiceNumber: number,
		StudentID:     studentID,
		InvoiceDate:   invoiceDate,
		TotalAmount:   dec(balance),
		Balance:       dec(balance),
	}
	s.create(m)
	return m.ID
}

func (s *testServer) payment(studentID, invoiceID uuid.UUID, number, method, amount string, at time.Time) uuid.UUID {
	m := &models.PaymentModel{
		BaseModel:     models.BaseModel{ID: uuid.New()},
		PaymentNumber: number,
		InvoiceID:     invoiceID,
		StudentID:     studentID,
		Amount:        dec(amount),
		PaymentMethod: method,
		PaymentDate:   at,
	}
	s.create(m)
	return m.ID
}

func (s *testServer) receipt(studentID, paymentID uuid.UUID, number, amount string, at time.Time) {
	s.create(&models.ReceiptModel{
		BaseModel:     models.BaseModel{ID: uuid.New()},
		ReceiptNumber: number,
		PaymentID:     paymentID,
		StudentID:     studentID,
		Amount:        dec(amount),
		ReceiptDate:   at,
	})
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
