package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-portfolio-api/internal/analytics"
	"github.com/noah-isme/gema-portfolio-api/internal/catalog"
	"github.com/noah-isme/gema-portfolio-api/internal/dto"
	"github.com/noah-isme/gema-portfolio-api/internal/models"
	"github.com/noah-isme/gema-portfolio-api/internal/observability"
	"github.com/noah-isme/gema-portfolio-api/internal/repository"
)

// PortfolioAggregator rebuilds portfolio snapshots from approved activities.
// It is shared by every caller that can move an activity into or out of
// approved so recomputes for one student never interleave in this process.
type PortfolioAggregator struct {
	locks  *keyedMutex
	tracer trace.Tracer
	now    func() time.Time
}

// NewPortfolioAggregator constructs the aggregator.
func NewPortfolioAggregator() *PortfolioAggregator {
	return &PortfolioAggregator{
		locks:  newKeyedMutex(),
		tracer: otel.Tracer("github.com/noah-isme/gema-portfolio-api/internal/service/portfolio"),
		now:    time.Now,
	}
}

// Serialize holds the in-process lock for studentID until the returned func runs.
func (a *PortfolioAggregator) Serialize(studentID string) func() {
	return a.locks.Lock(studentID)
}

// Recompute replaces the student's snapshot using store, normally a
// transaction. The student's profile row stays locked until that
// transaction ends.
func (a *PortfolioAggregator) Recompute(ctx context.Context, store repository.Store, studentID string) (models.Portfolio, error) {
	ctx, span := a.tracer.Start(ctx, "portfolio.recompute", trace.WithAttributes(
		attribute.String("portfolio.student_id", studentID),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		observability.PortfolioRecomputeDuration().Observe(time.Since(start).Seconds())
	}()

	if err := store.Portfolios().LockStudent(ctx, studentID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lock_student_failed")
		return models.Portfolio{}, err
	}

	activities, _, err := store.Activities().List(ctx, repository.ActivityFilter{
		StudentID: studentID,
		Statuses:  []models.ActivityStatus{models.ActivityStatusApproved},
		Sort:      "oldest",
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_approved_failed")
		return models.Portfolio{}, err
	}

	portfolio := models.Portfolio{StudentID: studentID, LastGeneratedAt: a.now()}
	for _, activity := range activities {
		group, ok := catalog.ResolveGroup(activity.Category.Group, activity.Category.Name)
		if !ok {
			err := fmt.Errorf("activity %s: category %q maps to no group", activity.ID, activity.CategoryID)
			span.RecordError(err)
			span.SetStatus(codes.Error, "unmapped_category")
			return models.Portfolio{}, err
		}
		points := activity.AwardedPoints()
		portfolio.TotalPoints += points
		portfolio.TotalActivities++
		portfolio.AddGroupPoints(group, points)
	}

	if err := store.Portfolios().Upsert(ctx, &portfolio); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert_failed")
		return models.Portfolio{}, err
	}

	span.SetAttributes(
		attribute.Int("portfolio.total_points", portfolio.TotalPoints),
		attribute.Int("portfolio.total_activities", portfolio.TotalActivities),
	)

	return portfolio, nil
}

// PortfolioService exposes portfolio snapshots and the portfolio page.
type PortfolioService interface {
	Get(ctx context.Context, studentID string) (dto.PortfolioResponse, error)
	Recompute(ctx context.Context, studentID string, actor Actor) (dto.PortfolioResponse, error)
	Overview(ctx context.Context, studentID string) (dto.PortfolioOverviewResponse, error)
}

type portfolioService struct {
	store      repository.Store
	aggregator *PortfolioAggregator
	cache      *viewCache
	logger     zerolog.Logger
	now        func() time.Time
}

// NewPortfolioService constructs the portfolio service.
func NewPortfolioService(store repository.Store, aggregator *PortfolioAggregator, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) PortfolioService {
	serviceLogger := logger.With().Str("component", "portfolio_service").Logger()
	return &portfolioService{
		store:      store,
		aggregator: aggregator,
		cache:      newViewCache(cache, ttl, serviceLogger),
		logger:     serviceLogger,
		now:        time.Now,
	}
}

func (s *portfolioService) Get(ctx context.Context, studentID string) (dto.PortfolioResponse, error) {
	portfolio, err := s.store.Portfolios().Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PortfolioResponse{}, notFoundError("portfolio", studentID)
		}
		return dto.PortfolioResponse{}, err
	}

	return dto.NewPortfolioResponse(portfolio), nil
}

func (s *portfolioService) Recompute(ctx context.Context, studentID string, actor Actor) (dto.PortfolioResponse, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return dto.PortfolioResponse{}, validationError("student id is required")
	}

	if _, err := s.store.Profiles().GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PortfolioResponse{}, notFoundError("student", studentID)
		}
		return dto.PortfolioResponse{}, err
	}

	unlock := s.aggregator.Serialize(studentID)
	defer unlock()

	var portfolio models.Portfolio
	err := s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		var err error
		portfolio, err = s.aggregator.Recompute(ctx, tx, studentID)
		if err != nil {
			return err
		}

		entry, err := newAuditLog(AuditEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     AuditActionPortfolioRecompute,
			EntityType: "portfolio",
			EntityID:   studentID,
			Metadata: map[string]interface{}{
				"total_points":     portfolio.TotalPoints,
				"total_activities": portfolio.TotalActivities,
			},
		})
		if err != nil {
			return err
		}
		return tx.AuditLogs().Create(ctx, &entry)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("student_id", studentID).Msg("failed to recompute portfolio")
		return dto.PortfolioResponse{}, err
	}

	s.cache.invalidateStudent(ctx, studentID)

	return dto.NewPortfolioResponse(portfolio), nil
}

func (s *portfolioService) Overview(ctx context.Context, studentID string) (dto.PortfolioOverviewResponse, error) {
	cacheKey := portfolioOverviewCacheKey(studentID)

	var cached dto.PortfolioOverviewResponse
	if s.cache.load(ctx, "portfolio", cacheKey, &cached) {
		cached.CacheHit = true
		return cached, nil
	}

	portfolio, err := s.store.Portfolios().Get(ctx, studentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PortfolioOverviewResponse{}, err
		}
		portfolio = models.Portfolio{StudentID: studentID}
	}

	approved, _, err := s.store.Activities().List(ctx, repository.ActivityFilter{
		StudentID: studentID,
		Statuses:  []models.ActivityStatus{models.ActivityStatusApproved},
		Sort:      "activity_date",
	})
	if err != nil {
		return dto.PortfolioOverviewResponse{}, err
	}

	timeline := make([]dto.ActivityResponse, 0, len(approved))
	for _, activity := range approved {
		timeline = append(timeline, dto.NewActivityResponse(activity))
	}

	response := dto.PortfolioOverviewResponse{
		Portfolio:    dto.NewPortfolioResponse(portfolio),
		Achievements: analytics.Achievements(approved, portfolio, s.now()),
		Skills:       analytics.Skills(approved),
		Timeline:     timeline,
	}

	s.cache.store(ctx, cacheKey, response)

	return response, nil
}
