package models

import "time"

// Category is reference data mapping an activity kind to a points multiplier.
type Category struct {
	ID               string    `gorm:"primaryKey;size:64" json:"id"`
	Name             string    `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Description      string    `gorm:"type:text" json:"description"`
	PointsMultiplier float64   `gorm:"not null;default:1" json:"points_multiplier"`
	Group            string    `gorm:"column:category_group;size:32;not null" json:"group"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
