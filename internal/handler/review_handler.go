package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-portfolio-api/internal/dto"
	"github.com/noah-isme/gema-portfolio-api/internal/models"
	"github.com/noah-isme/gema-portfolio-api/internal/service"
	"github.com/noah-isme/gema-portfolio-api/internal/utils"
)

// ReviewHandler exposes the reviewer queue and decisions to faculty and admins.
type ReviewHandler struct {
	reviews   service.ReviewService
	analytics service.AnalyticsService
	logger    zerolog.Logger
}

// NewReviewHandler constructs the handler.
func NewReviewHandler(reviews service.ReviewService, analytics service.AnalyticsService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews:   reviews,
		analytics: analytics,
		logger:    logger.With().Str("component", "review_handler").Logger(),
	}
}

// Register wires reviewer routes.
func (h *ReviewHandler) Register(router fiber.Router) {
	router.Get("/", h.queue)
	router.Get("/stats", h.stats)
	router.Get("/:id", h.get)
	router.Post("/:id/approve", h.approve)
	router.Post("/:id/reject", h.reject)
	router.Post("/:id/request-revision", h.requestRevision)
}

// queue lists activities for review. Without a status filter it shows the
// actionable ones: pending and revision_required.
func (h *ReviewHandler) queue(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	statuses := splitAndTrim(c.Query("status"))
	if len(statuses) == 0 {
		statuses = []string{string(models.ActivityStatusPending), string(models.ActivityStatusRevisionRequired)}
	} else if len(statuses) == 1 && strings.EqualFold(statuses[0], "all") {
		statuses = nil
	}

	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		StudentID:  c.Query("student_id"),
		Statuses:   statuses,
		CategoryID: c.Query("category_id"),
		Department: c.Query("department"),
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
	}

	result, err := h.reviews.List(c.UserContext(), req)
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to load review queue")
	}

	return utils.SendSuccess(c, "review queue retrieved", result)
}

func (h *ReviewHandler) stats(c *fiber.Ctx) error {
	result, err := h.analytics.ReviewStats(c.UserContext())
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to load review stats")
	}

	if result.CacheHit {
		c.Set("X-Cache-Hit", "true")
	}
	return utils.SendSuccess(c, "review stats retrieved", result)
}

func (h *ReviewHandler) get(c *fiber.Ctx) error {
	activity, err := h.reviews.Get(c.UserContext(), c.Params("id"), actorFromContext(c))
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to load activity")
	}

	return utils.SendSuccess(c, "activity retrieved", activity)
}

func (h *ReviewHandler) approve(c *fiber.Ctx) error {
	var payload dto.ApproveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}

	activity, err := h.reviews.Approve(c.UserContext(), c.Params("id"), actorFromContext(c), payload)
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to approve activity")
	}

	requestLogger(h.logger, c).Info().
		Str("activity_id", activity.ID).
		Int("points_awarded", derefInt(activity.PointsAwarded)).
		Msg("activity approved")
	return utils.SendSuccess(c, "activity approved", activity)
}

func (h *ReviewHandler) reject(c *fiber.Ctx) error {
	var payload dto.DecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	activity, err := h.reviews.Reject(c.UserContext(), c.Params("id"), actorFromContext(c), payload)
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to reject activity")
	}

	return utils.SendSuccess(c, "activity rejected", activity)
}

func (h *ReviewHandler) requestRevision(c *fiber.Ctx) error {
	var payload dto.DecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	activity, err := h.reviews.RequestRevision(c.UserContext(), c.Params("id"), actorFromContext(c), payload)
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to request revision")
	}

	return utils.SendSuccess(c, "revision requested", activity)
}

func derefInt(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
