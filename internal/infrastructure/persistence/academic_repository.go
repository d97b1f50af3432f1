package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/edusuite/backend/internal/domain/academic"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAcademicYearRepository implements academic.AcademicYearRepository using GORM
type GormAcademicYearRepository struct {
	db *gorm.DB
}

// NewGormAcademicYearRepository creates a new GormAcademicYearRepository
func NewGormAcademicYearRepository(db *gorm.DB) *GormAcademicYearRepository {
	return &GormAcademicYearRepository{db: db}
}

// FindByID finds an academic year by its ID
func (r *GormAcademicYearRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.AcademicYear, error) {
	var model models.AcademicYearModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs returns academic years keyed by ID
func (r *GormAcademicYearRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*academic.AcademicYear, error) {
	result := make(map[uuid.UUID]*academic.AcademicYear, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.AcademicYearModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].ID] = rows[i].ToDomain()
	}
	return result, nil
}

// FindAll returns all academic years, newest start first
func (r *GormAcademicYearRepository) FindAll(ctx context.Context) ([]academic.AcademicYear, error) {
	var rows []models.AcademicYearModel
	if err := r.db.WithContext(ctx).Order("start_date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	years := make([]academic.AcademicYear, len(rows))
	for i := range rows {
		years[i] = *rows[i].ToDomain()
	}
	return years, nil
}

// Save creates or updates an academic year
func (r *GormAcademicYearRepository) Save(ctx context.Context, year *academic.AcademicYear) error {
	return r.db.WithContext(ctx).Save(models.AcademicYearModelFromDomain(year)).Error
}

// GormTermRepository implements academic.TermRepository using GORM
type GormTermRepository struct {
	db *gorm.DB
}

// NewGormTermRepository creates a new GormTermRepository
func NewGormTermRepository(db *gorm.DB) *GormTermRepository {
	return &GormTermRepository{db: db}
}

// FindByID finds a term by its ID
func (r *GormTermRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.Term, error) {
	var model models.TermModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs returns terms keyed by ID
func (r *GormTermRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*academic.Term, error) {
	result := make(map[uuid.UUID]*academic.Term, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.TermModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].ID] = rows[i].ToDomain()
	}
	return result, nil
}

// FindAll returns terms ordered by start date, optionally for one academic year
func (r *GormTermRepository) FindAll(ctx context.Context, academicYearID *uuid.UUID) ([]academic.Term, error) {
	query := r.db.WithContext(ctx).Model(&models.TermModel{})
	if academicYearID != nil {
		query = query.Where("academic_year_id = ?", *academicYearID)
	}
	var rows []models.TermModel
	if err := query.Order("start_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	terms := make([]academic.Term, len(rows))
	for i := range rows {
		terms[i] = *rows[i].ToDomain()
	}
	return terms, nil
}

// FindActive returns the active term, or nil when none is active
func (r *GormTermRepository) FindActive(ctx context.Context) (*academic.Term, error) {
	var model models.TermModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Activate deactivates every active term and activates termID in one transaction.
func (r *GormTermRepository) Activate(ctx context.Context, termID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.TermModel{}).
			Where("is_active = ? AND id <> ?", true, termID).
			Updates(map[string]any{"is_active": false, "updated_at": now}).Error; err != nil {
			return err
		}
		res := tx.Model(&models.TermModel{}).
			Where("id = ?", termID).
			Updates(map[string]any{"is_active": true, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.NewNotFound("Term")
		}
		return nil
	})
}

// Save creates or updates a term
func (r *GormTermRepository) Save(ctx context.Context, term *academic.Term) error {
	return r.db.WithContext(ctx).Save(models.TermModelFromDomain(term)).Error
}

// GormTeachingRepository implements academic.TeachingRepository using GORM
type GormTeachingRepository struct {
	db *gorm.DB
}

// NewGormTeachingRepository creates a new GormTeachingRepository
func NewGormTeachingRepository(db *gorm.DB) *GormTeachingRepository {
	return &GormTeachingRepository{db: db}
}

// FindAssignmentsByTeacher returns the assignments of a teacher
func (r *GormTeachingRepository) FindAssignmentsByTeacher(ctx context.Context, teacherID uuid.UUID) ([]academic.TeachingAssignment, error) {
	var rows []models.TeachingAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]academic.TeachingAssignment, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// FindClassesByIDs returns classes ordered by name
func (r *GormTeachingRepository) FindClassesByIDs(ctx context.Context, ids []uuid.UUID) ([]academic.Class, error) {
	if len(ids) == 0 {
		return []academic.Class{}, nil
	}
	var rows []models.ClassModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]academic.Class, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// FindSubjectsByIDs returns subjects ordered by name
func (r *GormTeachingRepository) FindSubjectsByIDs(ctx context.Context, ids []uuid.UUID) ([]academic.Subject, error) {
	if len(ids) == 0 {
		return []academic.Subject{}, nil
	}
	var rows []models.SubjectModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]academic.Subject, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ academic.AcademicYearRepository = (*GormAcademicYearRepository)(nil)
	_ academic.TermRepository         = (*GormTermRepository)(nil)
	_ academic.TeachingRepository     = (*GormTeachingRepository)(nil)
)
