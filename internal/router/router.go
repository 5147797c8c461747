package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-portfolio-api/internal/config"
	"github.com/noah-isme/gema-portfolio-api/internal/handler"
	"github.com/noah-isme/gema-portfolio-api/internal/middleware"
	"github.com/noah-isme/gema-portfolio-api/internal/models"
	"github.com/noah-isme/gema-portfolio-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityHandler  *handler.ActivityHandler
	ReviewHandler    *handler.ReviewHandler
	PortfolioHandler *handler.PortfolioHandler
	AnalyticsHandler *handler.AnalyticsHandler
	CatalogHandler   *handler.CatalogHandler
	AuditHandler     *handler.AuditHandler
	JWTMiddleware    fiber.Handler
	// RateLimitStorage shares submit counters between instances; nil keeps them in memory.
	RateLimitStorage fiber.Storage
	HealthProbes     []handler.HealthProbe
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group(middleware.APIPrefix, func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes...))

	if deps.CatalogHandler != nil {
		deps.CatalogHandler.RegisterPublic(api.Group("/categories"))
	}

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	studentOnly := middleware.RequireRole(models.RoleStudent)
	reviewerOnly := middleware.RequireRole(models.RoleFaculty, models.RoleAdmin)

	// Student workflow
	if deps.ActivityHandler != nil {
		activities := api.Group("/activities", jwtMiddleware, studentOnly)
		deps.ActivityHandler.Register(activities, middleware.RateLimit("activity_submit", cfg.SubmitRateLimit, time.Minute, deps.RateLimitStorage))
	}
	if deps.PortfolioHandler != nil {
		deps.PortfolioHandler.RegisterStudent(api.Group("/portfolio", jwtMiddleware, studentOnly))
	}
	if deps.AnalyticsHandler != nil {
		deps.AnalyticsHandler.RegisterStudent(api.Group("/analytics", jwtMiddleware, studentOnly))
	}

	// Reviewer workflow
	if deps.ReviewHandler != nil {
		deps.ReviewHandler.Register(api.Group("/reviews", jwtMiddleware, reviewerOnly))
	}
	if deps.PortfolioHandler != nil {
		deps.PortfolioHandler.RegisterReviewer(api.Group("/portfolios", jwtMiddleware, reviewerOnly))
	}
	if deps.AnalyticsHandler != nil {
		deps.AnalyticsHandler.RegisterFaculty(api.Group("/faculty/analytics", jwtMiddleware, reviewerOnly))
	}

	// Administration
	adminOnly := middleware.WithAuth(func(c *fiber.Ctx) error { return c.Next() }, middleware.AuthOptions{Role: middleware.AuthRoleAdmin})
	if deps.AuditHandler != nil {
		deps.AuditHandler.Register(api.Group("/audit-logs", jwtMiddleware, reviewerOnly))
	}
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.RegisterAdmin(api.Group("/admin/catalog", jwtMiddleware, adminOnly))
	}
}
