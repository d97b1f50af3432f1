// Package integration runs repository and service tests against a real PostgreSQL
// started with testcontainers, on the schema built by the embedded migrations.
// Constraints SQLite cannot express (partial unique indexes, CHECKs, foreign keys)
// are exercised here.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/edusuite/backend/internal/infrastructure/migration"
	"github.com/edusuite/backend/internal/infrastructure/persistence"
	"github.com/edusuite/backend/internal/infrastructure/persistence/models"
	"github.com/edusuite/backend/migrations"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestDB is a migrated PostgreSQL database in its own container
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// NewTestDB starts a PostgreSQL container, applies every migration and registers cleanup.
// Skipped with -short.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("edusuite_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	tdb := &TestDB{Container: container, DSN: dsn, t: t}
	tdb.DB, tdb.SqlDB = connect(t, dsn)
	t.Cleanup(func() { _ = tdb.SqlDB.Close() })

	m := tdb.Migrator()
	require.NoError(t, m.Up(), "Failed to run migrations")
	return tdb
}

// Migrator opens a migrator on a separate connection; closing it leaves DB usable
func (tdb *TestDB) Migrator() *migration.Migrator {
	tdb.t.Helper()
	sqlDB, err := sql.Open("postgres", tdb.DSN)
	require.NoError(tdb.t, err)
	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(tdb.t, err)
	tdb.t.Cleanup(func() { _ = m.Close() })
	return m
}

func connect(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()
	level := "silent"
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = "debug"
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), persistence.GormConfig(zap.NewNop(), level))
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	return db, sqlDB
}

// Tables lists the public tables created by the migrations
func (tdb *TestDB) Tables() []string {
	tdb.t.Helper()
	var tables []string
	require.NoError(tdb.t, tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public' AND tablename <> 'schema_migrations'
		ORDER BY tablename
	`).Scan(&tables).Error)
	return tables
}

func (tdb *TestDB) create(value any) {
	tdb.t.Helper()
	require.NoError(tdb.t, tdb.DB.Create(value).Error)
}

// Profile seeds a profile with role
func (tdb *TestDB) Profile(first, role string) uuid.UUID {
	id := uuid.New()
	tdb.create(&models.ProfileModel{ID: id, FirstName: first, LastName: "Test", Email: first + "@school.test", Role: role})
	return id
}

// Student seeds a student profile and student row, returning the student ID
func (tdb *TestDB) Student(code string) uuid.UUID {
	m := &models.StudentModel{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		ProfileID:   tdb.Profile(code, "student"),
		StudentCode: code,
		StudentType: "internal",
		Status:      "active",
	}
	tdb.create(m)
	return m.ID
}

// Guardian seeds a guardian and returns (guardian ID, profile ID)
func (tdb *TestDB) Guardian(first string) (uuid.UUID, uuid.UUID) {
	profileID := tdb.Profile(first, "guardian")
	m := &models.GuardianModel{BaseModel: models.BaseModel{ID: uuid.New()}, ProfileID: profileID, Phone: "+254700000000"}
	tdb.create(m)
	return m.ID, profileID
}

// Link seeds a student-guardian link
func (tdb *TestDB) Link(studentID, guardianID uuid.UUID, primary bool) error {
	return tdb.DB.Create(&models.StudentGuardianModel{
		BaseModel:    models.BaseModel{ID: uuid.New()},
		StudentID:    studentID,
		GuardianID:   guardianID,
		Relationship: "guardian",
		IsPrimary:    primary,
	}).Error
}

// AcademicYear seeds a year named name
func (tdb *TestDB) AcademicYear(name string) uuid.UUID {
	m := &models.AcademicYearModel{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      name,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	tdb.create(m)
	return m.ID
}

// Term seeds a term of yearID
func (tdb *TestDB) Term(yearID uuid.UUID, name string, active bool) (uuid.UUID, error) {
	m := &models.TermModel{
		BaseModel:      models.BaseModel{ID: uuid.New()},
		AcademicYearID: yearID,
		Name:           name,
		StartDate:      time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 4, 4, 0, 0, 0, 0, time.UTC),
		IsActive:       active,
	}
	return m.ID, tdb.DB.Create(m).Error
}

// StudentFee seeds one fee row
func (tdb *TestDB) StudentFee(studentID, yearID, termID uuid.UUID, total, paid string) {
	t, p := decimal.RequireFromString(total), decimal.RequireFromString(paid)
	tdb.create(&models.StudentFeeModel{
		BaseModel:      models.BaseModel{ID: uuid.New()},
		StudentID:      studentID,
		AcademicYearID: yearID,
		TermID:         termID,
		TotalAmount:    t,
		AmountPaid:     p,
		Balance:        t.Sub(p),
	})
}

func mustTerm(t *testing.T) func(uuid.UUID, error) uuid.UUID {
	return func(id uuid.UUID, err error) uuid.UUID {
		t.Helper()
		require.NoError(t, err)
		return id
	}
}

func studentCode(prefix string, n int) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}
