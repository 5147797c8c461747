package dto

import "github.com/noah-isme/gema-portfolio-api/internal/models"

// CategoryResponse serializes a category for clients.
type CategoryResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	PointsMultiplier float64 `json:"points_multiplier"`
	Group            string  `json:"group"`
}

// NewCategoryResponse converts a category model into a DTO.
func NewCategoryResponse(category models.Category) CategoryResponse {
	return CategoryResponse{
		ID:               category.ID,
		Name:             category.Name,
		Description:      category.Description,
		PointsMultiplier: category.PointsMultiplier,
		Group:            category.Group,
	}
}

// NewCategoryResponseSlice converts a slice of categories.
func NewCategoryResponseSlice(categories []models.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, NewCategoryResponse(category))
	}
	return responses
}
