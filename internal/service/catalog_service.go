package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-portfolio-api/internal/catalog"
	"github.com/noah-isme/gema-portfolio-api/internal/dto"
	"github.com/noah-isme/gema-portfolio-api/internal/models"
	"github.com/noah-isme/gema-portfolio-api/internal/repository"
)

// CatalogService seeds and serves the category reference data.
type CatalogService interface {
	Seed(ctx context.Context, source catalog.Catalog) (int64, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
}

type catalogService struct {
	repo   repository.CategoryRepository
	audit  AuditRecorder
	logger zerolog.Logger
}

// NewCatalogService constructs the catalog service. audit may be nil.
func NewCatalogService(repo repository.CategoryRepository, audit AuditRecorder, logger zerolog.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		audit:  audit,
		logger: logger.With().Str("component", "catalog_service").Logger(),
	}
}

// Seed upserts every catalog entry. Existing categories keep their id and
// pick up the catalog's name, multiplier and group.
func (s *catalogService) Seed(ctx context.Context, source catalog.Catalog) (int64, error) {
	items := normalizeCategories(source)
	affected, err := s.repo.UpsertBatch(ctx, items)
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("affected", affected).Int("categories", len(items)).Msg("category catalog seeded")

	if s.audit != nil {
		if _, err := s.audit.Record(ctx, AuditEntry{
			Action:     AuditActionCatalogSeeded,
			EntityType: "category",
			Metadata:   map[string]interface{}{"categories": len(items)},
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to audit catalog seed")
		}
	}

	return affected, nil
}

func (s *catalogService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewCategoryResponseSlice(categories), nil
}

func normalizeCategories(source catalog.Catalog) []models.Category {
	items := make([]models.Category, 0, len(source.Categories))
	for _, entry := range source.Categories {
		items = append(items, models.Category{
			ID:               strings.TrimSpace(entry.ID),
			Name:             strings.TrimSpace(entry.Name),
			Description:      strings.TrimSpace(entry.Description),
			PointsMultiplier: entry.PointsMultiplier,
			Group:            string(entry.Group),
		})
	}
	return items
}
