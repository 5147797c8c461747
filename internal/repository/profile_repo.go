package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

// ProfileFilter defines filters for listing profiles.
type ProfileFilter struct {
	Role       string
	Department string
	Search     string
	Page       int
	PageSize   int
}

// ProfileRepository exposes the user directory.
type ProfileRepository interface {
	List(ctx context.Context, filter ProfileFilter) ([]models.StudentProfile, int64, error)
	GetByID(ctx context.Context, id string) (models.StudentProfile, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.StudentProfile, error)
	UpsertBatch(ctx context.Context, items []models.StudentProfile) (int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository constructs the profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) List(ctx context.Context, filter ProfileFilter) ([]models.StudentProfile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StudentProfile{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(student_number) LIKE ?", like, like, like)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at ASC").Order("id ASC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var profiles []models.StudentProfile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return models.StudentProfile{}, err
	}
	return profile, nil
}

func (r *profileRepository) GetByIDs(ctx context.Context, ids []string) ([]models.StudentProfile, error) {
	if len(ids) == 0 {
		return []models.StudentProfile{}, nil
	}

	var profiles []models.StudentProfile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) UpsertBatch(ctx context.Context, items []models.StudentProfile) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "student_number", "department", "email", "role", "updated_at"}),
	})

	result := tx.Create(&items)
	return result.RowsAffected, result.Error
}
