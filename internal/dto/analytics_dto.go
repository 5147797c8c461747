package dto

import (
	"time"

	"github.com/noah-isme/gema-portfolio-api/internal/analytics"
)

// StudentAnalyticsResponse powers the student analytics dashboard.
type StudentAnalyticsResponse struct {
	StudentID   string                   `json:"student_id"`
	Metrics     analytics.StudentMetrics `json:"metrics"`
	Trend       []analytics.MonthBucket  `json:"trend"`
	Categories  []analytics.CategoryStat `json:"categories"`
	Insights    []analytics.Insight      `json:"insights"`
	Goals       []analytics.Goal         `json:"goals"`
	GeneratedAt time.Time                `json:"generated_at"`
	CacheHit    bool                     `json:"cache_hit"`
}

// FacultyAnalyticsResponse powers the faculty analytics dashboard.
type FacultyAnalyticsResponse struct {
	analytics.FacultyOverview
	Period      string    `json:"period"`
	GeneratedAt time.Time `json:"generated_at"`
	CacheHit    bool      `json:"cache_hit"`
}
