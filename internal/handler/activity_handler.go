package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-portfolio-api/internal/dto"
	"github.com/noah-isme/gema-portfolio-api/internal/service"
	"github.com/noah-isme/gema-portfolio-api/internal/utils"
)

// ActivityHandler serves the student side of the activity workflow.
type ActivityHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ReviewService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register wires student activity routes. submitGuard, when given, runs
// before submission only.
func (h *ActivityHandler) Register(router fiber.Router, submitGuard ...fiber.Handler) {
	submit := append(append([]fiber.Handler{}, submitGuard...), h.submit)
	router.Post("/", submit...)
	router.Get("/", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.edit)
}

func (h *ActivityHandler) submit(c *fiber.Ctx) error {
	var payload dto.ActivitySubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	activity, err := h.service.Submit(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to submit activity")
	}

	requestLogger(h.logger, c).Info().Str("activity_id", activity.ID).Msg("activity submitted")
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity submitted", activity)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		StudentID:  userIDFromContext(c),
		Statuses:   splitAndTrim(c.Query("status")),
		CategoryID: c.Query("category_id"),
		Sort:       c.Query("sort"),
	}

	result, err := h.service.List(c.UserContext(), req)
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to list activities")
	}

	return utils.SendSuccess(c, "activities retrieved", result)
}

func (h *ActivityHandler) get(c *fiber.Ctx) error {
	activity, err := h.service.Get(c.UserContext(), c.Params("id"), actorFromContext(c))
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to load activity")
	}

	return utils.SendSuccess(c, "activity retrieved", activity)
}

func (h *ActivityHandler) edit(c *fiber.Ctx) error {
	var payload dto.ActivityUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	activity, err := h.service.Edit(c.UserContext(), c.Params("id"), payload, actorFromContext(c))
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to update activity")
	}

	return utils.SendSuccess(c, "activity updated", activity)
}
