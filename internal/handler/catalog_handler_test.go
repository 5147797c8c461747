package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-portfolio-api/internal/catalog"
	"github.com/noah-isme/gema-portfolio-api/internal/dto"
	"github.com/noah-isme/gema-portfolio-api/internal/handler"
)

type mockCatalogService struct {
	seeded   []catalog.Catalog
	affected int64
	listing  []dto.CategoryResponse
	err      error
}

func (m *mockCatalogService) Seed(_ context.Context, source catalog.Catalog) (int64, error) {
	m.seeded = append(m.seeded, source)
	return m.affected, m.err
}

func (m *mockCatalogService) List(_ context.Context) ([]dto.CategoryResponse, error) {
	return m.listing, m.err
}

func catalogApp(svc *mockCatalogService) *fiber.App {
	app := fiber.New()
	h := handler.NewCatalogHandler(svc, discardLogger())
	h.RegisterPublic(app.Group("/api/v1/categories"))
	h.RegisterAdmin(app.Group("/api/v1/admin/catalog"))
	return app
}

func TestCatalogHandler_SeedValidCatalog(t *testing.T) {
	svc := &mockCatalogService{affected: 2}
	app := catalogApp(svc)

	raw := []byte(`{"categories":[
		{"id":"leadership","name":"Leadership","points_multiplier":1.25,"group":"leadership"},
		{"id":"hack","name":"Hackathons","points_multiplier":2,"group":"technical"}
	]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/catalog", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Affected   int64 `json:"affected"`
			Categories int   `json:"categories"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, int64(2), body.Data.Affected)
	require.Equal(t, 2, body.Data.Categories)
	require.Len(t, svc.seeded, 1)
	require.Equal(t, catalog.GroupTechnical, svc.seeded[0].Categories[1].Group)
}

func TestCatalogHandler_SeedRejectsSchemaViolations(t *testing.T) {
	svc := &mockCatalogService{}
	app := catalogApp(svc)

	raw := []byte(`{"categories":[{"id":"x","name":"X","points_multiplier":0,"group":"cooking"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/catalog", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body envelope
	decodeResponse(t, resp, &body)
	require.Equal(t, "invalid catalog", body.Message)
	require.NotEmpty(t, body.Details["reason"])
	require.Empty(t, svc.seeded)
}

func TestCatalogHandler_List(t *testing.T) {
	svc := &mockCatalogService{listing: []dto.CategoryResponse{{ID: "leadership", Name: "Leadership", PointsMultiplier: 1.25, Group: "leadership"}}}
	app := catalogApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data []dto.CategoryResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Len(t, body.Data, 1)
	require.Equal(t, 1.25, body.Data[0].PointsMultiplier)
}
