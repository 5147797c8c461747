package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

// ErrStaleStatus indicates a guarded update found the activity in a different
// status than the caller expected.
var ErrStaleStatus = errors.New("activity status changed concurrently")

// ActivityFilter allows narrowing activity queries.
type ActivityFilter struct {
	StudentID    string
	Statuses     []models.ActivityStatus
	CategoryID   string
	Department   string
	Search       string
	CreatedSince *time.Time
	Sort         string
	Page         int
	PageSize     int
}

var activitySortColumns = map[string]string{
	"":              "activities.created_at DESC",
	"newest":        "activities.created_at DESC",
	"oldest":        "activities.created_at ASC",
	"activity_date": "activities.activity_date DESC",
	"points":        "activities.points_claimed DESC",
}

// ActivitySortSupported reports whether sort names a supported ordering.
func ActivitySortSupported(sort string) bool {
	_, ok := activitySortColumns[sort]
	return ok
}

// ActivityRepository defines data operations for activities.
type ActivityRepository interface {
	GetByID(ctx context.Context, id string) (models.Activity, error)
	List(ctx context.Context, filter ActivityFilter) ([]models.Activity, int64, error)
	Create(ctx context.Context, activity *models.Activity) error
	CompareAndUpdate(ctx context.Context, id string, expected models.ActivityStatus, updates map[string]interface{}) error
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository instantiates the repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (models.Activity, error) {
	var activity models.Activity
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&activity).Error; err != nil {
		return models.Activity{}, err
	}

	return activity, nil
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]models.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{})

	if filter.Department != "" || filter.Search != "" {
		query = query.Joins("LEFT JOIN student_profiles ON student_profiles.id = activities.student_id")
	}

	if filter.StudentID != "" {
		query = query.Where("activities.student_id = ?", filter.StudentID)
	}

	if len(filter.Statuses) > 0 {
		query = query.Where("activities.status IN ?", filter.Statuses)
	}

	if filter.CategoryID != "" {
		query = query.Where("activities.category_id = ?", filter.CategoryID)
	}

	if filter.Department != "" {
		query = query.Where("student_profiles.department = ?", filter.Department)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(activities.title) LIKE ? OR LOWER(student_profiles.full_name) LIKE ? OR LOWER(student_profiles.student_number) LIKE ?",
			like, like, like,
		)
	}

	if filter.CreatedSince != nil {
		query = query.Where("activities.created_at >= ?", *filter.CreatedSince)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := activitySortColumns[filter.Sort]
	if !ok {
		order = activitySortColumns[""]
	}
	query = query.Select("activities.*").Preload("Category").Order(order).Order("activities.id ASC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var activities []models.Activity
	if err := query.Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(activity).Error
}

// CompareAndUpdate applies updates only while the activity is still in the
// expected status. A miss returns ErrStaleStatus and writes nothing.
func (r *activityRepository) CompareAndUpdate(ctx context.Context, id string, expected models.ActivityStatus, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrStaleStatus
	}

	return nil
}
