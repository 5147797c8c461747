package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-portfolio-api/internal/service"
	"github.com/noah-isme/gema-portfolio-api/internal/utils"
)

// PortfolioHandler serves portfolio pages and manual recomputes.
type PortfolioHandler struct {
	service service.PortfolioService
	logger  zerolog.Logger
}

// NewPortfolioHandler constructs the handler.
func NewPortfolioHandler(service service.PortfolioService, logger zerolog.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		service: service,
		logger:  logger.With().Str("component", "portfolio_handler").Logger(),
	}
}

// RegisterStudent wires the caller's own portfolio page.
func (h *PortfolioHandler) RegisterStudent(router fiber.Router) {
	router.Get("/", h.overview)
}

// RegisterReviewer wires reviewer portfolio tooling.
func (h *PortfolioHandler) RegisterReviewer(router fiber.Router) {
	router.Get("/:studentId", h.snapshot)
	router.Post("/:studentId/recompute", h.recompute)
}

func (h *PortfolioHandler) overview(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	result, err := h.service.Overview(c.UserContext(), studentID)
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to load portfolio")
	}

	if result.CacheHit {
		c.Set("X-Cache-Hit", "true")
	}
	return utils.SendSuccess(c, "portfolio retrieved", result)
}

func (h *PortfolioHandler) snapshot(c *fiber.Ctx) error {
	result, err := h.service.Get(c.UserContext(), c.Params("studentId"))
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to load portfolio")
	}

	return utils.SendSuccess(c, "portfolio retrieved", result)
}

func (h *PortfolioHandler) recompute(c *fiber.Ctx) error {
	result, err := h.service.Recompute(c.UserContext(), c.Params("studentId"), actorFromContext(c))
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to recompute portfolio")
	}

	requestLogger(h.logger, c).Info().
		Str("student_id", result.StudentID).
		Int("total_points", result.TotalPoints).
		Msg("portfolio recomputed")
	return utils.SendSuccess(c, "portfolio recomputed", result)
}
