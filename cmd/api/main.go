package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-portfolio-api/internal/catalog"
	"github.com/noah-isme/gema-portfolio-api/internal/config"
	"github.com/noah-isme/gema-portfolio-api/internal/database"
	"github.com/noah-isme/gema-portfolio-api/internal/handler"
	"github.com/noah-isme/gema-portfolio-api/internal/middleware"
	"github.com/noah-isme/gema-portfolio-api/internal/repository"
	"github.com/noah-isme/gema-portfolio-api/internal/router"
	"github.com/noah-isme/gema-portfolio-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis disabled; analytics caching and shared rate limits are off")
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	store := repository.NewStore(db)

	auditService := service.NewAuditService(store.AuditLogs(), logger)
	catalogService := service.NewCatalogService(store.Categories(), auditService, logger)

	if cfg.SeedCatalog {
		source, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("failed to load category catalog: %v", err)
		}
		if _, err := catalogService.Seed(context.Background(), source); err != nil {
			log.Fatalf("failed to seed category catalog: %v", err)
		}
	}

	aggregator := service.NewPortfolioAggregator()
	events := service.NewReviewEventPublisher(redisClient, cfg.EventChannelBase, natsConn)

	reviewService := service.NewReviewService(store, aggregator, events, redisClient, validate, logger)
	portfolioService := service.NewPortfolioService(store, aggregator, redisClient, cfg.AnalyticsCacheTTL, logger)
	analyticsService := service.NewAnalyticsService(store, redisClient, cfg.AnalyticsCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
		AccessLog:    cfg.AccessLog,
	})
	router.Register(app, cfg, router.Dependencies{
		ActivityHandler:  handler.NewActivityHandler(reviewService, logger),
		ReviewHandler:    handler.NewReviewHandler(reviewService, analyticsService, logger),
		PortfolioHandler: handler.NewPortfolioHandler(portfolioService, logger),
		AnalyticsHandler: handler.NewAnalyticsHandler(analyticsService, logger),
		CatalogHandler:   handler.NewCatalogHandler(catalogService, logger),
		AuditHandler:     handler.NewAuditHandler(auditService, logger),
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
		RateLimitStorage: middleware.NewRedisStorage(redisClient, "portfolio:ratelimit"),
		HealthProbes:     healthProbes(db, redisClient, natsConn),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	logger.Info().Str("address", cfg.HTTPAddress()).Msg("portfolio api started")

	waitForShutdown(app)
}

func healthProbes(db *gorm.DB, redisClient *redis.Client, natsConn *nats.Conn) []handler.HealthProbe {
	probes := []handler.HealthProbe{{
		Name: "database",
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}

	if redisClient != nil {
		probes = append(probes, handler.HealthProbe{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	if natsConn != nil {
		probes = append(probes, handler.HealthProbe{
			Name: "nats",
			Check: func(context.Context) error {
				if !natsConn.IsConnected() {
					return fmt.Errorf("nats status %s", natsConn.Status())
				}
				return nil
			},
		})
	}

	return probes
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
