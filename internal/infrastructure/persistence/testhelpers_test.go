package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/edusuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB creates a migrated in-memory SQLite database.
// A single connection keeps every query on the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig(zap.NewNop(), "silent"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// newMockDB creates a GORM handle over sqlmock using the Postgres dialect
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

// fixture seeds rows for repository tests.
type fixture struct {
	t  *testing.T
	db *gorm.DB
}

func newFixture(t *testing.T, db *gorm.DB) *fixture {
	return &fixture{t: t, db: db}
}

func (f *fixture) create(value any) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(value).Error)
}

func (f *fixture) profile(first, last, role string) uuid.UUID {
	id := uuid.New()
	f.create(&models.ProfileModel{ID: id, FirstName: first, LastName: last, Email: first + "@school.test", Role: role})
	return id
}

func (f *fixture) class(name string) uuid.UUID {
	m := &models.ClassModel{BaseModel: models.BaseModel{ID: uuid.New()}, Name: name}
	f.create(m)
	return m.ID
}

func (f *fixture) student(code, first, last string, classID *uuid.UUID) uuid.UUID {
	profileID := f.profile(first, last, "student")
	m := &models.StudentModel{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		ProfileID:   profileID,
		StudentCode: code,
		ClassID:     classID,
		Status:      "active",
	}
	f.create(m)
	return m.ID
}

func (f *fixture) guardian(first, phone string) (guardianID, profileID uuid.UUID) {
	profileID = f.profile(first, "Parent", "guardian")
	m := &models.GuardianModel{BaseModel: models.BaseModel{ID: uuid.New()}, ProfileID: profileID, Phone: phone}
	f.create(m)
	return m.ID, profileID
}

func (f *fixture) link(studentID, guardianID uuid.UUID, primary bool) {
	f.create(&models.StudentGuardianModel{
		BaseModel:    models.BaseModel{ID: uuid.New()},
		StudentID:    studentID,
		GuardianID:   guardianID,
		Relationship: "parent",
		IsPrimary:    primary,
	})
}

func (f *fixture) academicYear(name string) uuid.UUID {
	m := &models.AcademicYearModel{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      name,
		StartDate: date(2025, 1, 6),
		EndDate:   date(2025, 11, 28),
	}
	f.create(m)
	return m.ID
}

func (f *fixture) term(yearID uuid.UUID, name string, start time.Time, active bool) uuid.UUID {
	m := &models.TermModel{
		BaseModel:      models.BaseModel{ID: uuid.New()},
		AcademicYearID: yearID,
		Name:           name,
		StartDate:      start,
		EndDate:        start.AddDate(0, 3, 0),
		IsActive:       active,
	}
	f.create(m)
	return m.ID
}

func (f *fixture) invoice(studentID uuid.UUID, number string, invoiceDate time.Time, balance string) uuid.UUID {
	m := &models.InvoiceModel{
		BaseModel:     models.BaseModel{ID: uuid.New()},
		InvoiceNumber: number,
		StudentID:     studentID,
		InvoiceDate:   invoiceDate,
		TotalAmount:   dec(balance),
		Balance:       dec(balance),
	}
	f.create(m)
	return m.ID
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
