package models

import (
	"time"

	"github.com/noah-isme/gema-portfolio-api/internal/catalog"
)

// Portfolio is the derived per-student points snapshot. It is always rebuilt
// from approved activities and never edited directly.
type Portfolio struct {
	StudentID              string    `gorm:"primaryKey;size:64" json:"student_id"`
	TotalPoints            int       `gorm:"not null" json:"total_points"`
	TotalActivities        int       `gorm:"not null" json:"total_activities"`
	AcademicPoints         int       `gorm:"not null" json:"academic_points"`
	LeadershipPoints       int       `gorm:"not null" json:"leadership_points"`
	CommunityPoints        int       `gorm:"not null" json:"community_points"`
	SportsPoints           int       `gorm:"not null" json:"sports_points"`
	CulturalPoints         int       `gorm:"not null" json:"cultural_points"`
	TechnicalPoints        int       `gorm:"not null" json:"technical_points"`
	EntrepreneurshipPoints int       `gorm:"not null" json:"entrepreneurship_points"`
	LastGeneratedAt        time.Time `json:"last_generated_at"`
}

// GroupPoints returns the point total stored for a category group.
func (p Portfolio) GroupPoints(group catalog.Group) int {
	switch group {
	case catalog.GroupAcademic:
		return p.AcademicPoints
	case catalog.GroupLeadership:
		return p.LeadershipPoints
	case catalog.GroupCommunity:
		return p.CommunityPoints
	case catalog.GroupSports:
		return p.SportsPoints
	case catalog.GroupCultural:
		return p.CulturalPoints
	case catalog.GroupTechnical:
		return p.TechnicalPoints
	case catalog.GroupEntrepreneurship:
		return p.EntrepreneurshipPoints
	default:
		return 0
	}
}

// AddGroupPoints adds points to the field backing a category group.
func (p *Portfolio) AddGroupPoints(group catalog.Group, points int) {
	switch group {
	case catalog.GroupAcademic:
		p.AcademicPoints += points
	case catalog.GroupLeadership:
		p.LeadershipPoints += points
	case catalog.GroupCommunity:
		p.CommunityPoints += points
	case catalog.GroupSports:
		p.SportsPoints += points
	case catalog.GroupCultural:
		p.CulturalPoints += points
	case catalog.GroupTechnical:
		p.TechnicalPoints += points
	case catalog.GroupEntrepreneurship:
		p.EntrepreneurshipPoints += points
	}
}

// GroupTotal sums the seven group fields.
func (p Portfolio) GroupTotal() int {
	total := 0
	for _, group := range catalog.Groups {
		total += p.GroupPoints(group)
	}
	return total
}
