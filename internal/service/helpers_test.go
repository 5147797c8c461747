package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-portfolio-api/internal/catalog"
	"github.com/noah-isme/gema-portfolio-api/internal/models"
	"github.com/noah-isme/gema-portfolio-api/internal/repository"
)

var fixtureNow = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ReviewEvent
}

func (r *recordingPublisher) Publish(_ context.Context, event ReviewEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) snapshot() []ReviewEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ReviewEvent(nil), r.events...)
}

type serviceFixture struct {
	db         *gorm.DB
	store      repository.Store
	aggregator *PortfolioAggregator
	review     ReviewService
	portfolio  PortfolioService
	analytics  AnalyticsService
	audit      AuditService
	events     *recordingPublisher
}

var (
	studentAna  = Actor{ID: "student-ana", Role: models.RoleStudent}
	studentBudi = Actor{ID: "student-budi", Role: models.RoleStudent}
	facultyRina = Actor{ID: "faculty-rina", Role: models.RoleFaculty}
	facultyDedi = Actor{ID: "faculty-dedi", Role: models.RoleFaculty}
)

func setupServiceFixture(t *testing.T, redisClient *redis.Client) *serviceFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.StudentProfile{},
		&models.Activity{},
		&models.Portfolio{},
		&models.AuditLog{},
	))

	ctx := context.Background()
	store := repository.NewStore(db)
	logger := testLogger()

	source := catalog.Catalog{Categories: append([]catalog.Entry{}, catalog.Default.Categories...)}
	source.Categories = append(source.Categories, catalog.Entry{
		ID:               "olympiad",
		Name:             "Science Olympiad",
		PointsMultiplier: 2,
		Group:            catalog.GroupAcademic,
	})
	_, err = NewCatalogService(store.Categories(), nil, logger).Seed(ctx, source)
	require.NoError(t, err)

	_, err = store.Profiles().UpsertBatch(ctx, []models.StudentProfile{
		{ID: studentAna.ID, FullName: "Ana Putri", StudentNumber: "S-001", Department: "Informatics", Email: "ana@campus.test", Role: models.RoleStudent},
		{ID: studentBudi.ID, FullName: "Budi Santoso", StudentNumber: "S-002", Department: "Physics", Email: "budi@campus.test", Role: models.RoleStudent},
		{ID: facultyRina.ID, FullName: "Rina Wati", Department: "Informatics", Email: "rina@campus.test", Role: models.RoleFaculty},
	})
	require.NoError(t, err)

	validate := validator.New(validator.WithRequiredStructEnabled())
	events := &recordingPublisher{}
	clock := func() time.Time { return fixtureNow }

	aggregator := NewPortfolioAggregator()
	aggregator.now = clock

	review := NewReviewService(store, aggregator, events, redisClient, validate, logger)
	if concrete, ok := review.(*reviewService); ok {
		concrete.now = clock
	}

	portfolio := NewPortfolioService(store, aggregator, redisClient, time.Minute, logger)
	if concrete, ok := portfolio.(*portfolioService); ok {
		concrete.now = clock
	}

	analyticsSvc := NewAnalyticsService(store, redisClient, time.Minute, logger)
	if concrete, ok := analyticsSvc.(*analyticsService); ok {
		concrete.now = clock
	}

	return &serviceFixture{
		db:         db,
		store:      store,
		aggregator: aggregator,
		review:     review,
		portfolio:  portfolio,
		analytics:  analyticsSvc,
		audit:      NewAuditService(store.AuditLogs(), logger),
		events:     events,
	}
}
