package analytics

import (
	"strings"

	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

// UnknownLabel names a category or department that could not be resolved.
const UnknownLabel = "Unknown"

// CategoryStat summarises approved activities for one category.
type CategoryStat struct {
	Category      string  `json:"category"`
	ActivityCount int     `json:"activity_count"`
	PointsSum     int     `json:"points_sum"`
	AveragePoints float64 `json:"average_points"`
}

// CategoryPerformance groups approved activities by category name in the
// order each category is first seen.
func CategoryPerformance(activities []models.Activity) []CategoryStat {
	stats := make([]CategoryStat, 0)
	index := map[string]int{}

	for _, activity := range activities {
		if !activity.IsApproved() {
			continue
		}
		name := categoryName(activity)
		i, ok := index[name]
		if !ok {
			i = len(stats)
			index[name] = i
			stats = append(stats, CategoryStat{Category: name})
		}
		stats[i].ActivityCount++
		stats[i].PointsSum += activity.AwardedPoints()
	}

	for i := range stats {
		stats[i].AveragePoints = float64(stats[i].PointsSum) / float64(stats[i].ActivityCount)
	}

	return stats
}

func categoryName(activity models.Activity) string {
	name := strings.TrimSpace(activity.Category.Name)
	if name == "" {
		return UnknownLabel
	}
	return name
}
