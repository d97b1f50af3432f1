package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/edusuite/backend/internal/domain/people"
	"github.com/edusuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStudentRepository implements people.StudentRepository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

func (r *GormStudentRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("students AS s").
		Select(studentColumns).
		Joins("LEFT JOIN profiles p ON p.id = s.profile_id").
		Joins("LEFT JOIN classes c ON c.id = s.class_id")
}

func (r *GormStudentRepository) scan(query *gorm.DB) ([]people.Student, error) {
	var rows []studentRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]people.Student, len(rows))
	for i := range rows {
		out[i] = *rows[i].toDomain()
	}
	return out, nil
}

// FindByID finds a student by ID with profile name and class name
func (r *GormStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*people.Student, error) {
	students, err := r.scan(r.baseQuery(ctx).Where("s.id = ?", id).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, nil
	}
	return &students[0], nil
}

// FindByIDs returns students keyed by ID
func (r *GormStudentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*people.Student, error) {
	result := make(map[uuid.UUID]*people.Student, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	students, err := r.scan(r.baseQuery(ctx).Where("s.id IN ?", ids))
	if err != nil {
		return nil, err
	}
	for i := range students {
		result[students[i].ID] = &students[i]
	}
	return result, nil
}

// FindByClassIDs returns active students of the given classes ordered by name
func (r *GormStudentRepository) FindByClassIDs(ctx context.Context, classIDs []uuid.UUID) ([]people.Student, error) {
	if len(classIDs) == 0 {
		return []people.Student{}, nil
	}
	return r.scan(r.baseQuery(ctx).
		Where("s.class_id IN ? AND s.status = ?", classIDs, people.StudentStatusActive).
		Order("p.first_name ASC, p.last_name ASC, s.student_code ASC"))
}

// FindActive returns all active students ordered by name
func (r *GormStudentRepository) FindActive(ctx context.Context) ([]people.Student, error) {
	return r.scan(r.baseQuery(ctx).
		Where("s.status = ?", people.StudentStatusActive).
		Order("p.first_name ASC, p.last_name ASC, s.student_code ASC"))
}

// GormGuardianRepository implements people.GuardianRepository using GORM
type GormGuardianRepository struct {
	db *gorm.DB
}

// NewGormGuardianRepository creates a new GormGuardianRepository
func NewGormGuardianRepository(db *gorm.DB) *GormGuardianRepository {
	return &GormGuardianRepository{db: db}
}

// FindByID finds a guardian by its ID
func (r *GormGuardianRepository) FindByID(ctx context.Context, id uuid.UUID) (*people.Guardian, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByProfileID finds the guardian record of a profile
func (r *GormGuardianRepository) FindByProfileID(ctx context.Context, profileID uuid.UUID) (*people.Guardian, error) {
	return r.first(ctx, "profile_id = ?", profileID)
}

func (r *GormGuardianRepository) first(ctx context.Context, cond string, arg any) (*people.Guardian, error) {
	var model models.GuardianModel
	if err := r.db.WithContext(ctx).First(&model, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPrimaryPhones returns the primary guardian's phone per student in one query.
// The guardian record's phone wins over the profile's.
func (r *GormGuardianRepository) FindPrimaryPhones(ctx context.Context, studentIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	result := make(map[uuid.UUID]string, len(studentIDs))
	if len(studentIDs) == 0 {
		return result, nil
	}
	var rows []guardianPhoneRow
	err := r.db.WithContext(ctx).
		Table("student_guardians AS sg").
		Select("sg.student_id, g.phone AS guardian_phone, p.phone AS profile_phone").
		Joins("JOIN guardians g ON g.id = sg.guardian_id").
		Joins("LEFT JOIN profiles p ON p.id = g.profile_id").
		Where("sg.student_id IN ? AND sg.is_primary = ?", studentIDs, true).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if phone := rows[i].phone(); phone != "" {
			result[rows[i].StudentID] = phone
		}
	}
	return result, nil
}

// GormTeacherRepository implements people.TeacherRepository using GORM
type GormTeacherRepository struct {
	db *gorm.DB
}

// NewGormTeacherRepository creates a new GormTeacherRepository
func NewGormTeacherRepository(db *gorm.DB) *GormTeacherRepository {
	return &GormTeacherRepository{db: db}
}

// FindByProfileID finds the teacher record of a profile
func (r *GormTeacherRepository) FindByProfileID(ctx context.Context, profileID uuid.UUID) (*people.Teacher, error) {
	var model models.TeacherModel
	if err := r.db.WithContext(ctx).First(&model, "profile_id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GormStudentGuardianRepository implements people.StudentGuardianRepository using GORM
type GormStudentGuardianRepository struct {
	db *gorm.DB
}

// NewGormStudentGuardianRepository creates a new GormStudentGuardianRepository
func NewGormStudentGuardianRepository(db *gorm.DB) *GormStudentGuardianRepository {
	return &GormStudentGuardianRepository{db: db}
}

// Exists reports whether the guardian is linked to the student, whatever the link flags
func (r *GormStudentGuardianRepository) Exists(ctx context.Context, guardianID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StudentGuardianModel{}).
		Where("guardian_id = ? AND student_id = ?", guardianID, studentID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByGuardian returns the guardian's links, primary first
func (r *GormStudentGuardianRepository) FindByGuardian(ctx context.Context, guardianID uuid.UUID) ([]people.StudentGuardian, error) {
	var rows []models.StudentGuardianModel
	if err := r.db.WithContext(ctx).
		Where("guardian_id = ?", guardianID).
		Order("is_primary DESC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]people.StudentGuardian, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Link upserts the (student, guardian) link. A primary link demotes the student's other
// primary links first, within the same transaction.
func (r *GormStudentGuardianRepository) Link(ctx context.Context, link *people.StudentGuardian) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if link.IsPrimary {
			if err := tx.Model(&models.StudentGuardianModel{}).
				Where("student_id = ? AND guardian_id <> ? AND is_primary = ?", link.StudentID, link.GuardianID, true).
				Updates(map[string]any{"is_primary": false, "updated_at": now}).Error; err != nil {
				return err
			}
		}

		link.UpdatedAt = now
		model := models.StudentGuardianModelFromDomain(link)
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "guardian_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"relationship", "is_primary", "is_emergency_contact", "updated_at",
			}),
		}).Create(model).Error; err != nil {
			return err
		}

		var stored models.StudentGuardianModel
		if err := tx.First(&stored, "student_id = ? AND guardian_id = ?", link.StudentID, link.GuardianID).Error; err != nil {
			return err
		}
		link.BaseEntity = stored.BaseModel.ToDomain()
		return nil
	})
}

var (
	_ people.StudentRepository         = (*GormStudentRepository)(nil)
	_ people.GuardianRepository        = (*GormGuardianRepository)(nil)
	_ people.TeacherRepository         = (*GormTeacherRepository)(nil)
	_ people.StudentGuardianRepository = (*GormStudentGuardianRepository)(nil)
)
