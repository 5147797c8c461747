package dto

import "github.com/noah-isme/gema-portfolio-api/internal/analytics"

// ApproveRequest optionally overrides the points the multiplier applies to.
type ApproveRequest struct {
	PointsToAward *int `json:"points_to_award" validate:"omitnil,gte=0,lte=100000"`
}

// DecisionRequest carries the reviewer's reason for a reject or revision.
type DecisionRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

// ReviewStatsResponse summarises the review queue.
type ReviewStatsResponse struct {
	analytics.StatusSummary
	CacheHit bool `json:"cache_hit"`
}
