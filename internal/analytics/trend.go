// Package analytics derives view data from activity snapshots. Every function
// is pure: callers pass the activities, the portfolio and the clock.
package analytics

import (
	"math"
	"time"

	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

// TrendMonths is the window the student trend chart covers.
const TrendMonths = 6

// MonthBucket aggregates approved activities for one calendar month.
type MonthBucket struct {
	Month         string    `json:"month"`
	MonthStart    time.Time `json:"month_start"`
	ActivityCount int       `json:"activity_count"`
	PointsSum     int       `json:"points_sum"`
}

// Growth is the month-over-month percentage change between the two most
// recent trend buckets. A nil field means the previous month had nothing to
// compare against.
type Growth struct {
	Points     *float64 `json:"points"`
	Activities *float64 `json:"activities"`
}

// MonthlyTrend buckets approved activities by activity date into the given
// number of most recent calendar months, oldest first. Months without
// approved activity are present with zero values.
func MonthlyTrend(activities []models.Activity, now time.Time, months int) []MonthBucket {
	if months <= 0 {
		return []MonthBucket{}
	}

	// Activity dates are stored as UTC midnight, so months are UTC months.
	now = now.UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	buckets := make([]MonthBucket, months)
	index := make(map[time.Time]int, months)
	for i := 0; i < months; i++ {
		start := current.AddDate(0, i-(months-1), 0)
		buckets[i] = MonthBucket{
			Month:      start.Format("Jan 06"),
			MonthStart: start,
		}
		index[start] = i
	}

	for _, activity := range activities {
		if !activity.IsApproved() {
			continue
		}
		date := activity.ActivityDate.UTC()
		key := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
		i, ok := index[key]
		if !ok {
			continue
		}
		buckets[i].ActivityCount++
		buckets[i].PointsSum += activity.AwardedPoints()
	}

	return buckets
}

// MonthOverMonth compares the last bucket with the one before it.
func MonthOverMonth(buckets []MonthBucket) Growth {
	if len(buckets) < 2 {
		return Growth{}
	}

	previous := buckets[len(buckets)-2]
	latest := buckets[len(buckets)-1]

	return Growth{
		Points:     percentChange(previous.PointsSum, latest.PointsSum),
		Activities: percentChange(previous.ActivityCount, latest.ActivityCount),
	}
}

func percentChange(previous, latest int) *float64 {
	if previous == 0 {
		return nil
	}
	change := roundTo(float64(latest-previous)/float64(previous)*100, 1)
	return &change
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
