package analytics

import (
	"time"

	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

// StudentMetrics is the headline numbers block of the student dashboard.
type StudentMetrics struct {
	TotalPoints        int     `json:"total_points"`
	ApprovedActivities int     `json:"approved_activities"`
	TotalActivities    int     `json:"total_activities"`
	ApprovalRate       float64 `json:"approval_rate"`
	AveragePoints      float64 `json:"average_points"`
	MonthlyGrowth      Growth  `json:"monthly_growth"`
}

// Metrics summarises one student's activities. Growth comes from the same
// six month trend the dashboard charts.
func Metrics(activities []models.Activity, now time.Time) StudentMetrics {
	metrics := StudentMetrics{TotalActivities: len(activities)}

	for _, activity := range activities {
		if !activity.IsApproved() {
			continue
		}
		metrics.ApprovedActivities++
		metrics.TotalPoints += activity.AwardedPoints()
	}

	if metrics.TotalActivities > 0 {
		metrics.ApprovalRate = float64(metrics.ApprovedActivities) / float64(metrics.TotalActivities) * 100
	}
	if metrics.ApprovedActivities > 0 {
		metrics.AveragePoints = float64(metrics.TotalPoints) / float64(metrics.ApprovedActivities)
	}
	metrics.MonthlyGrowth = MonthOverMonth(MonthlyTrend(activities, now, TrendMonths))

	return metrics
}

// StatusCount is the number of activities in one workflow status.
type StatusCount struct {
	Status     models.ActivityStatus `json:"status"`
	Count      int                   `json:"count"`
	Percentage float64               `json:"percentage"`
}

// StatusSummary backs the reviewer queue header.
type StatusSummary struct {
	Total    int           `json:"total"`
	Statuses []StatusCount `json:"statuses"`
}

// StatusCounts tallies activities per status in workflow order.
func StatusCounts(activities []models.Activity) StatusSummary {
	counts := make(map[models.ActivityStatus]int, len(models.ActivityStatuses))
	for _, activity := range activities {
		counts[activity.Status]++
	}

	summary := StatusSummary{
		Total:    len(activities),
		Statuses: make([]StatusCount, 0, len(models.ActivityStatuses)),
	}
	for _, status := range models.ActivityStatuses {
		entry := StatusCount{Status: status, Count: counts[status]}
		if summary.Total > 0 {
			entry.Percentage = roundTo(float64(entry.Count)/float64(summary.Total)*100, 0)
		}
		summary.Statuses = append(summary.Statuses, entry)
	}

	return summary
}
