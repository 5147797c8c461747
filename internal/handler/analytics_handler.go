package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-portfolio-api/internal/service"
	"github.com/noah-isme/gema-portfolio-api/internal/utils"
)

// AnalyticsHandler serves the student and faculty dashboards.
type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// RegisterStudent wires the caller's own analytics dashboard.
func (h *AnalyticsHandler) RegisterStudent(router fiber.Router) {
	router.Get("/", h.student)
}

// RegisterFaculty wires the cross-student dashboard.
func (h *AnalyticsHandler) RegisterFaculty(router fiber.Router) {
	router.Get("/", h.faculty)
}

func (h *AnalyticsHandler) student(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	result, err := h.service.Student(c.UserContext(), studentID)
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to load analytics")
	}

	if result.CacheHit {
		c.Set("X-Cache-Hit", "true")
	}
	return utils.SendSuccess(c, "analytics retrieved", result)
}

func (h *AnalyticsHandler) faculty(c *fiber.Ctx) error {
	result, err := h.service.Faculty(c.UserContext(), c.Query("period", "all"))
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to load faculty analytics")
	}

	if result.CacheHit {
		c.Set("X-Cache-Hit", "true")
	}
	return utils.SendSuccess(c, "faculty analytics retrieved", result)
}
