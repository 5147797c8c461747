package dto

import (
	"time"

	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

// ActivitySubmitRequest is the payload a student sends to record an activity.
type ActivitySubmitRequest struct {
	Title         string   `json:"title" validate:"required,max=255"`
	Description   string   `json:"description" validate:"required"`
	CategoryID    string   `json:"category_id" validate:"required,max=64"`
	ActivityDate  string   `json:"activity_date" validate:"required"`
	DurationHours *float64 `json:"duration_hours" validate:"omitnil,gte=0"`
	Location      string   `json:"location" validate:"omitempty,max=255"`
	Organizer     string   `json:"organizer" validate:"omitempty,max=255"`
	PointsClaimed int      `json:"points_claimed" validate:"required,gt=0,lte=100000"`
	EvidenceURLs  []string `json:"evidence_urls" validate:"omitempty,dive,url"`
}

// ActivityUpdateRequest captures a partial edit. Nil fields are left untouched.
type ActivityUpdateRequest struct {
	Title         *string   `json:"title" validate:"omitnil,min=1,max=255"`
	Description   *string   `json:"description" validate:"omitnil,min=1"`
	CategoryID    *string   `json:"category_id" validate:"omitnil,min=1,max=64"`
	ActivityDate  *string   `json:"activity_date" validate:"omitnil,min=1"`
	DurationHours *float64  `json:"duration_hours" validate:"omitnil,gte=0"`
	Location      *string   `json:"location" validate:"omitnil,max=255"`
	Organizer     *string   `json:"organizer" validate:"omitnil,max=255"`
	PointsClaimed *int      `json:"points_claimed" validate:"omitnil,gt=0,lte=100000"`
	EvidenceURLs  *[]string `json:"evidence_urls" validate:"omitnil,dive,url"`
}

// ActivityListRequest carries list filters resolved by the handler.
type ActivityListRequest struct {
	Page       int
	PageSize   int
	StudentID  string
	Statuses   []string
	CategoryID string
	Department string
	Search     string
	Sort       string
}

// ActivityResponse serializes an activity for clients.
type ActivityResponse struct {
	ID              string                `json:"id"`
	StudentID       string                `json:"student_id"`
	CategoryID      string                `json:"category_id"`
	Category        *CategoryResponse     `json:"category,omitempty"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	ActivityDate    time.Time             `json:"activity_date"`
	DurationHours   *float64              `json:"duration_hours,omitempty"`
	Location        string                `json:"location,omitempty"`
	Organizer       string                `json:"organizer,omitempty"`
	PointsClaimed   int                   `json:"points_claimed"`
	PointsAwarded   *int                  `json:"points_awarded"`
	SuggestedPoints *int                  `json:"suggested_points,omitempty"`
	EvidenceURLs    []string              `json:"evidence_urls"`
	Status          models.ActivityStatus `json:"status"`
	StatusDisplay   StatusDisplay         `json:"status_display"`
	RejectionReason *string               `json:"rejection_reason"`
	ApprovedBy      *string               `json:"approved_by"`
	ApprovedAt      *time.Time            `json:"approved_at"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ActivityListResponse wraps a paginated activity list.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewActivityResponse converts an activity model into a DTO.
func NewActivityResponse(activity models.Activity) ActivityResponse {
	response := ActivityResponse{
		ID:              activity.ID,
		StudentID:       activity.StudentID,
		CategoryID:      activity.CategoryID,
		Title:           activity.Title,
		Description:     activity.Description,
		ActivityDate:    activity.ActivityDate,
		DurationHours:   activity.DurationHours,
		Location:        activity.Location,
		Organizer:       activity.Organizer,
		PointsClaimed:   activity.PointsClaimed,
		PointsAwarded:   activity.PointsAwarded,
		EvidenceURLs:    activity.EvidenceList(),
		Status:          activity.Status,
		StatusDisplay:   DisplayForStatus(activity.Status),
		RejectionReason: activity.RejectionReason,
		ApprovedBy:      activity.ApprovedBy,
		ApprovedAt:      activity.ApprovedAt,
		CreatedAt:       activity.CreatedAt,
		UpdatedAt:       activity.UpdatedAt,
	}

	if activity.Category.ID != "" {
		category := NewCategoryResponse(activity.Category)
		response.Category = &category
	}

	return response
}
