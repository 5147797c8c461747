package dto

import (
	"time"

	"github.com/noah-isme/gema-portfolio-api/internal/analytics"
	"github.com/noah-isme/gema-portfolio-api/internal/catalog"
	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

// GroupPoints is one row of the per-group breakdown.
type GroupPoints struct {
	Group  catalog.Group `json:"group"`
	Points int           `json:"points"`
}

// PortfolioResponse serializes a portfolio snapshot.
type PortfolioResponse struct {
	StudentID       string        `json:"student_id"`
	TotalPoints     int           `json:"total_points"`
	TotalActivities int           `json:"total_activities"`
	Groups          []GroupPoints `json:"groups"`
	LastGeneratedAt time.Time     `json:"last_generated_at"`
}

// PortfolioOverviewResponse is the portfolio page: snapshot plus derived badges.
type PortfolioOverviewResponse struct {
	Portfolio    PortfolioResponse       `json:"portfolio"`
	Achievements []analytics.Achievement `json:"achievements"`
	Skills       []analytics.Skill       `json:"skills"`
	Timeline     []ActivityResponse      `json:"timeline"`
	CacheHit     bool                    `json:"cache_hit"`
}

// NewPortfolioResponse converts a portfolio model into a DTO with the groups in
// canonical order.
func NewPortfolioResponse(portfolio models.Portfolio) PortfolioResponse {
	groups := make([]GroupPoints, 0, len(catalog.Groups))
	for _, group := range catalog.Groups {
		groups = append(groups, GroupPoints{Group: group, Points: portfolio.GroupPoints(group)})
	}

	return PortfolioResponse{
		StudentID:       portfolio.StudentID,
		TotalPoints:     portfolio.TotalPoints,
		TotalActivities: portfolio.TotalActivities,
		Groups:          groups,
		LastGeneratedAt: portfolio.LastGeneratedAt,
	}
}
