package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-portfolio-api/internal/catalog"
	"github.com/noah-isme/gema-portfolio-api/internal/service"
	"github.com/noah-isme/gema-portfolio-api/internal/utils"
)

// CatalogHandler exposes the category catalog and admin reseeding.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// RegisterPublic wires the read-only category listing.
func (h *CatalogHandler) RegisterPublic(router fiber.Router) {
	router.Get("/", h.list)
}

// RegisterAdmin wires catalog seeding.
func (h *CatalogHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/", h.seed)
}

func (h *CatalogHandler) list(c *fiber.Ctx) error {
	categories, err := h.service.List(c.UserContext())
	if err != nil {
		return handleServiceError(c, h.logger, err, "failed to list categories")
	}

	return utils.SendSuccess(c, "categories retrieved", categories)
}

// seed accepts a catalog document, validates it against the catalog schema
// and upserts every entry.
func (h *CatalogHandler) seed(c *fiber.Ctx) error {
	source, err := catalog.Parse(c.Body())
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid catalog", fiber.Map{"reason": err.Error()})
	}

	affected, err := h.service.Seed(c.UserContext(), source)
	if err != nil {
		return handleServiceError(c, h.logger, err, "catalog seed failed")
	}

	requestLogger(h.logger, c).Info().Int64("affected", affected).Msg("catalog seeded")
	return utils.SendSuccess(c, "catalog seeded", fiber.Map{"affected": affected, "categories": len(source.Categories)})
}
