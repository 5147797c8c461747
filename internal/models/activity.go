package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ActivityStatus tracks where an activity sits in the review workflow.
type ActivityStatus string

const (
	// ActivityStatusPending marks a freshly submitted activity awaiting review.
	ActivityStatusPending ActivityStatus = "pending"
	// ActivityStatusApproved marks an activity whose points count toward the portfolio.
	ActivityStatusApproved ActivityStatus = "approved"
	// ActivityStatusRejected marks an activity a reviewer declined.
	ActivityStatusRejected ActivityStatus = "rejected"
	// ActivityStatusRevisionRequired marks an activity sent back to the student for changes.
	ActivityStatusRevisionRequired ActivityStatus = "revision_required"
)

// ActivityStatuses lists every workflow status.
var ActivityStatuses = []ActivityStatus{
	ActivityStatusPending,
	ActivityStatusApproved,
	ActivityStatusRejected,
	ActivityStatusRevisionRequired,
}

// Valid reports whether s is a known workflow status.
func (s ActivityStatus) Valid() bool {
	for _, status := range ActivityStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// Reviewable reports whether a reviewer may decide on an activity in this status.
// The same set of statuses is editable by the owning student.
func (s ActivityStatus) Reviewable() bool {
	return s == ActivityStatusPending || s == ActivityStatusRevisionRequired
}

// Activity is a single accomplishment submitted by a student.
type Activity struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	StudentID       string         `gorm:"size:64;not null;index" json:"student_id"`
	CategoryID      string         `gorm:"size:64;not null;index" json:"category_id"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Description     string         `gorm:"type:text;not null" json:"description"`
	ActivityDate    time.Time      `gorm:"not null;index" json:"activity_date"`
	DurationHours   *float64       `json:"duration_hours"`
	Location        string         `gorm:"size:255" json:"location"`
	Organizer       string         `gorm:"size:255" json:"organizer"`
	PointsClaimed   int            `gorm:"not null" json:"points_claimed"`
	PointsAwarded   *int           `json:"points_awarded"`
	EvidenceURLs    datatypes.JSON `gorm:"type:json" json:"-"`
	Status          ActivityStatus `gorm:"size:32;not null;index" json:"status"`
	RejectionReason *string        `gorm:"type:text" json:"rejection_reason"`
	ApprovedBy      *string        `gorm:"size:64" json:"approved_by"`
	ApprovedAt      *time.Time     `json:"approved_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Category        Category       `gorm:"foreignKey:CategoryID;references:ID" json:"category"`
}

// IsApproved reports whether the activity counts toward the owner's portfolio.
func (a Activity) IsApproved() bool {
	return a.Status == ActivityStatusApproved
}

// AwardedPoints returns the awarded points, or zero when none were awarded.
func (a Activity) AwardedPoints() int {
	if a.PointsAwarded == nil {
		return 0
	}
	return *a.PointsAwarded
}

// SetEvidence serializes the evidence URLs into the JSON storage column.
func (a *Activity) SetEvidence(urls []string) {
	if urls == nil {
		urls = []string{}
	}
	data, err := json.Marshal(urls)
	if err != nil {
		a.EvidenceURLs = datatypes.JSON([]byte("[]"))
		return
	}
	a.EvidenceURLs = datatypes.JSON(data)
}

// EvidenceList deserializes the stored evidence URLs, preserving their order.
func (a Activity) EvidenceList() []string {
	if len(a.EvidenceURLs) == 0 {
		return []string{}
	}

	var urls []string
	if err := json.Unmarshal(a.EvidenceURLs, &urls); err != nil || urls == nil {
		return []string{}
	}

	return urls
}
