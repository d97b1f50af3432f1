package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edusuite/backend/internal/domain/finance"
	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/edusuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateFeeStructure is returned when the (academic year, term, student type)
// unique index rejects an insert.
var ErrDuplicateFeeStructure = shared.NewConflict("A fee structure already exists for this academic year, term and student type")

// GormFeeStructureRepository implements finance.FeeStructureRepository and
// finance.FeeStructureTxWriter using GORM
type GormFeeStructureRepository struct {
	db *gorm.DB
}

// NewGormFeeStructureRepository creates a new GormFeeStructureRepository
func NewGormFeeStructureRepository(db *gorm.DB) *GormFeeStructureRepository {
	return &GormFeeStructureRepository{db: db}
}

func (r *GormFeeStructureRepository) headerQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("fee_structures AS fs").
		Select("fs.*, ay.name AS academic_year_name, t.name AS term_name").
		Joins("LEFT JOIN academic_years ay ON ay.id = fs.academic_year_id").
		Joins("LEFT JOIN terms t ON t.id = fs.term_id")
}

// FindByID finds a fee structure with its items ordered by display order
func (r *GormFeeStructureRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FeeStructure, error) {
	var rows []feeStructureRow
	if err := r.headerQuery(ctx).Where("fs.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	fs := rows[0].toDomain()

	var items []models.FeeStructureItemModel
	if err := r.db.WithContext(ctx).
		Where("fee_structure_id = ?", id).
		Order("display_order ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	fs.Items = make([]finance.FeeStructureItem, len(items))
	for i := range items {
		fs.Items[i] = items[i].ToDomain()
	}
	return fs, nil
}

// FindByScope finds the structure of an (academic year, term, student type) triple
func (r *GormFeeStructureRepository) FindByScope(ctx context.Context, academicYearID, termID uuid.UUID, studentType finance.StudentType) (*finance.FeeStructure, error) {
	var model models.FeeStructureModel
	err := r.db.WithContext(ctx).
		Where("academic_year_id = ? AND term_id = ? AND student_type = ?", academicYearID, termID, studentType).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists fee structure headers matching the filter, with the total count
func (r *GormFeeStructureRepository) FindAll(ctx context.Context, filter finance.FeeStructureFilter) ([]finance.FeeStructure, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Table("fee_structures AS fs"), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, FeeStructureSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var rows []feeStructureRow
	if err := r.applyFilter(r.headerQuery(ctx), filter).
		Order(fmt.Sprintf("fs.%s %s", orderBy, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]finance.FeeStructure, len(rows))
	for i := range rows {
		out[i] = *rows[i].toDomain()
	}
	return out, total, nil
}

func (r *GormFeeStructureRepository) applyFilter(query *gorm.DB, filter finance.FeeStructureFilter) *gorm.DB {
	if filter.AcademicYearID != nil {
		query = query.Where("fs.academic_year_id = ?", *filter.AcademicYearID)
	}
	if filter.TermID != nil {
		query = query.Where("fs.term_id = ?", *filter.TermID)
	}
	if filter.StudentType != nil {
		query = query.Where("fs.student_type = ?", *filter.StudentType)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(fs.name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	return query
}

// CreateHeader inserts the structure row only
func (r *GormFeeStructureRepository) CreateHeader(ctx context.Context, fs *finance.FeeStructure) error {
	return createHeader(r.db.WithContext(ctx), fs)
}

// CreateItems inserts the items of a structure
func (r *GormFeeStructureRepository) CreateItems(ctx context.Context, items []finance.FeeStructureItem) error {
	return createItems(r.db.WithContext(ctx), items)
}

// CreateWithItems writes the header and its items in one transaction
func (r *GormFeeStructureRepository) CreateWithItems(ctx context.Context, fs *finance.FeeStructure) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createHeader(tx, fs); err != nil {
			return err
		}
		return createItems(tx, fs.Items)
	})
}

// Delete removes a structure and its items
func (r *GormFeeStructureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fee_structure_id = ?", id).Delete(&models.FeeStructureItemModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.FeeStructureModel{}).Error
	})
}

// CountItems returns the number of items of a structure
func (r *GormFeeStructureRepository) CountItems(ctx context.Context, feeStructureID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FeeStructureItemModel{}).
		Where("fee_structure_id = ?", feeStructureID).
		Count(&count).Error
	return count, err
}

func createHeader(db *gorm.DB, fs *finance.FeeStructure) error {
	if err := db.Create(models.FeeStructureModelFromDomain(fs)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateFeeStructure
		}
		return err
	}
	return nil
}

func createItems(db *gorm.DB, items []finance.FeeStructureItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := models.FeeStructureItemModelsFromDomain(items)
	return db.Create(&rows).Error
}

var (
	_ finance.FeeStructureRepository = (*GormFeeStructureRepository)(nil)
	_ finance.FeeStructureTxWriter   = (*GormFeeStructureRepository)(nil)
)
