package analytics

import (
	"fmt"
	"time"

	"github.com/noah-isme/gema-portfolio-api/internal/catalog"
	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

// Achievement is a badge shown on the portfolio page.
type Achievement struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	Points      int       `json:"points"`
	AwardedAt   time.Time `json:"awarded_at"`
}

// Achievements evaluates the badge rules against approved activities and the
// portfolio snapshot.
func Achievements(activities []models.Activity, portfolio models.Portfolio, now time.Time) []Achievement {
	achievements := make([]Achievement, 0, 4)

	if portfolio.TotalPoints >= 100 {
		achievements = append(achievements, Achievement{
			Title:       "Century Achiever",
			Description: "Earned 100+ activity points",
			Category:    "Milestone",
			Type:        "milestone",
			Points:      portfolio.TotalPoints,
			AwardedAt:   now,
		})
	}

	if portfolio.TotalActivities >= 10 {
		achievements = append(achievements, Achievement{
			Title:       "Active Participant",
			Description: "Completed 10+ activities",
			Category:    "Participation",
			Type:        "participation",
			Points:      portfolio.TotalActivities * 5,
			AwardedAt:   now,
		})
	}

	highImpact := 0
	for _, activity := range activities {
		if activity.IsApproved() && activity.AwardedPoints() >= 50 {
			highImpact++
		}
	}
	if highImpact >= 3 {
		achievements = append(achievements, Achievement{
			Title:       "Excellence Seeker",
			Description: "Completed 3+ high-impact activities (50+ points each)",
			Category:    "Excellence",
			Type:        "excellence",
			Points:      75,
			AwardedAt:   now,
		})
	}

	if portfolio.LeadershipPoints >= 50 {
		achievements = append(achievements, Achievement{
			Title:       "Leadership Champion",
			Description: "Demonstrated strong leadership skills",
			Category:    "Leadership",
			Type:        "leadership",
			Points:      portfolio.LeadershipPoints,
			AwardedAt:   now,
		})
	}

	return achievements
}

const (
	skillStep     = 15
	skillMaxLevel = 100
)

// Skill is a skill demonstrated by approved activities.
type Skill struct {
	Name            string            `json:"name"`
	Level           int               `json:"level"`
	Area            catalog.SkillArea `json:"area"`
	ActivitiesCount int               `json:"activities_count"`
}

// Skills derives skill levels from approved activities, in first-seen order.
func Skills(activities []models.Activity) []Skill {
	skills := make([]Skill, 0)
	index := map[string]int{}

	for _, activity := range activities {
		if !activity.IsApproved() {
			continue
		}
		for _, name := range catalog.SkillsByCategory[activity.Category.Name] {
			i, ok := index[name]
			if !ok {
				i = len(skills)
				index[name] = i
				skills = append(skills, Skill{Name: name, Area: catalog.AreaForSkill(name)})
			}
			skills[i].Level = min(skillMaxLevel, skills[i].Level+skillStep)
			skills[i].ActivitiesCount++
		}
	}

	return skills
}

// Goal is a suggested target with progress.
type Goal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Target      int       `json:"target"`
	Current     int       `json:"current"`
	Deadline    time.Time `json:"deadline"`
}

const (
	pointsGoalTarget     = 200
	leadershipGoalTarget = 50
)

// Goals suggests targets the student has not met yet. Deadlines fall in the
// calendar year of now.
func Goals(portfolio models.Portfolio, now time.Time) []Goal {
	goals := make([]Goal, 0, 2)
	year := now.UTC().Year()

	if portfolio.TotalPoints < pointsGoalTarget {
		goals = append(goals, Goal{
			ID:          "total-points",
			Title:       fmt.Sprintf("Reach %d Points", pointsGoalTarget),
			Description: fmt.Sprintf("Earn %d total activity points by the end of the year", pointsGoalTarget),
			Category:    "Academic Progress",
			Target:      pointsGoalTarget,
			Current:     portfolio.TotalPoints,
			Deadline:    time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		})
	}

	if portfolio.LeadershipPoints < leadershipGoalTarget {
		goals = append(goals, Goal{
			ID:          "leadership-points",
			Title:       "Leadership Development",
			Description: fmt.Sprintf("Earn %d points in leadership activities", leadershipGoalTarget),
			Category:    "Leadership",
			Target:      leadershipGoalTarget,
			Current:     portfolio.LeadershipPoints,
			Deadline:    time.Date(year, time.November, 30, 0, 0, 0, 0, time.UTC),
		})
	}

	return goals
}
