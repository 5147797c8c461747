package analytics

import (
	"fmt"
	"time"

	"github.com/noah-isme/gema-portfolio-api/internal/catalog"
	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

// InsightType classifies an insight card.
type InsightType string

const (
	InsightAchievement    InsightType = "achievement"
	InsightTrend          InsightType = "trend"
	InsightRecommendation InsightType = "recommendation"
)

// Priority is fixed per insight rule.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

const (
	milestonePoints      = 100
	momentumActivities   = 3
	momentumWindow       = 30 * 24 * time.Hour
	recommendationCutoff = 20
)

// Insight is a rule-derived observation about one student's progress.
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Value       string      `json:"value,omitempty"`
	Priority    Priority    `json:"priority"`
}

// Insights evaluates each rule once against the activities and portfolio.
// A rule contributes at most one insight.
func Insights(activities []models.Activity, portfolio models.Portfolio, now time.Time) []Insight {
	insights := make([]Insight, 0, 3)

	if portfolio.TotalPoints >= milestonePoints {
		insights = append(insights, Insight{
			Type:        InsightAchievement,
			Title:       "Milestone Reached!",
			Description: fmt.Sprintf("You've earned over %d points! Keep building your portfolio.", milestonePoints),
			Value:       fmt.Sprintf("%d pts", portfolio.TotalPoints),
			Priority:    PriorityHigh,
		})
	}

	if recent := recentApproved(activities, now); recent >= momentumActivities {
		insights = append(insights, Insight{
			Type:        InsightTrend,
			Title:       "Great Momentum!",
			Description: "You've been very active this month with multiple approved activities.",
			Value:       fmt.Sprintf("%d activities", recent),
			Priority:    PriorityMedium,
		})
	}

	if group, points := lowestGroup(portfolio); points < recommendationCutoff {
		insights = append(insights, Insight{
			Type:        InsightRecommendation,
			Title:       "Diversify Your Activities",
			Description: fmt.Sprintf("Consider participating in more %s activities to build a well-rounded profile.", group),
			Value:       fmt.Sprintf("%d pts", points),
			Priority:    PriorityMedium,
		})
	}

	return insights
}

// recentApproved counts approved activities dated in (now-30d, now].
func recentApproved(activities []models.Activity, now time.Time) int {
	since := now.Add(-momentumWindow)
	count := 0
	for _, activity := range activities {
		if !activity.IsApproved() {
			continue
		}
		if activity.ActivityDate.After(since) && !activity.ActivityDate.After(now) {
			count++
		}
	}
	return count
}

// lowestGroup returns the group with the smallest total. Ties go to the group
// listed first in catalog.Groups.
func lowestGroup(portfolio models.Portfolio) (catalog.Group, int) {
	lowest := catalog.Groups[0]
	lowestPoints := portfolio.GroupPoints(lowest)
	for _, group := range catalog.Groups[1:] {
		if points := portfolio.GroupPoints(group); points < lowestPoints {
			lowest = group
			lowestPoints = points
		}
	}
	return lowest, lowestPoints
}
