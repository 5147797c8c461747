package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-portfolio-api/internal/analytics"
	"github.com/noah-isme/gema-portfolio-api/internal/dto"
	"github.com/noah-isme/gema-portfolio-api/internal/models"
	"github.com/noah-isme/gema-portfolio-api/internal/repository"
)

// AnalyticsService assembles dashboard analytics from store snapshots.
type AnalyticsService interface {
	Student(ctx context.Context, studentID string) (dto.StudentAnalyticsResponse, error)
	Faculty(ctx context.Context, period string) (dto.FacultyAnalyticsResponse, error)
	ReviewStats(ctx context.Context) (dto.ReviewStatsResponse, error)
}

type analyticsService struct {
	store  repository.Store
	cache  *viewCache
	logger zerolog.Logger
	now    func() time.Time
}

// NewAnalyticsService constructs the analytics service.
func NewAnalyticsService(store repository.Store, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AnalyticsService {
	serviceLogger := logger.With().Str("component", "analytics_service").Logger()
	return &analyticsService{
		store:  store,
		cache:  newViewCache(cache, ttl, serviceLogger),
		logger: serviceLogger,
		now:    time.Now,
	}
}

func (s *analyticsService) Student(ctx context.Context, studentID string) (dto.StudentAnalyticsResponse, error) {
	cacheKey := studentAnalyticsCacheKey(studentID)
	tracer := otel.Tracer("github.com/noah-isme/gema-portfolio-api/internal/service/analytics")
	ctx, span := tracer.Start(ctx, "analytics.student")
	span.SetAttributes(attribute.String("analytics.cache_key", cacheKey))
	defer span.End()

	var cached dto.StudentAnalyticsResponse
	if s.cache.load(ctx, "student", cacheKey, &cached) {
		cached.CacheHit = true
		span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
		return cached, nil
	}

	activities, _, err := s.store.Activities().List(ctx, repository.ActivityFilter{StudentID: studentID})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_activities_failed")
		return dto.StudentAnalyticsResponse{}, err
	}

	portfolio, err := s.store.Portfolios().Get(ctx, studentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "get_portfolio_failed")
			return dto.StudentAnalyticsResponse{}, err
		}
		portfolio = models.Portfolio{StudentID: studentID}
	}

	now := s.now()
	response := dto.StudentAnalyticsResponse{
		StudentID:   studentID,
		Metrics:     analytics.Metrics(activities, now),
		Trend:       analytics.MonthlyTrend(activities, now, analytics.TrendMonths),
		Categories:  analytics.CategoryPerformance(activities),
		Insights:    analytics.Insights(activities, portfolio, now),
		Goals:       analytics.Goals(portfolio, now),
		GeneratedAt: now,
	}
	span.SetAttributes(attribute.Int("analytics.activity_count", len(activities)))

	s.cache.store(ctx, cacheKey, response)

	return response, nil
}

func (s *analyticsService) Faculty(ctx context.Context, period string) (dto.FacultyAnalyticsResponse, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" {
		period = "all"
	}

	now := s.now()
	since, err := periodStart(period, now)
	if err != nil {
		return dto.FacultyAnalyticsResponse{}, err
	}

	cacheKey := facultyAnalyticsCacheKey(period)
	tracer := otel.Tracer("github.com/noah-isme/gema-portfolio-api/internal/service/analytics")
	ctx, span := tracer.Start(ctx, "analytics.faculty")
	span.SetAttributes(attribute.String("analytics.cache_key", cacheKey))
	defer span.End()

	var cached dto.FacultyAnalyticsResponse
	if s.cache.load(ctx, "faculty", cacheKey, &cached) {
		cached.CacheHit = true
		span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
		return cached, nil
	}

	activities, _, err := s.store.Activities().List(ctx, repository.ActivityFilter{CreatedSince: since})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_activities_failed")
		return dto.FacultyAnalyticsResponse{}, err
	}

	profiles, _, err := s.store.Profiles().List(ctx, repository.ProfileFilter{Role: models.RoleStudent})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_profiles_failed")
		return dto.FacultyAnalyticsResponse{}, err
	}

	response := dto.FacultyAnalyticsResponse{
		FacultyOverview: analytics.CrossStudent(activities, profiles),
		Period:          period,
		GeneratedAt:     now,
	}
	span.SetAttributes(
		attribute.Int("analytics.activity_count", len(activities)),
		attribute.Int("analytics.student_count", len(profiles)),
	)

	s.cache.store(ctx, cacheKey, response)

	return response, nil
}

func (s *analyticsService) ReviewStats(ctx context.Context) (dto.ReviewStatsResponse, error) {
	var cached dto.ReviewStatsResponse
	if s.cache.load(ctx, "review_stats", reviewStatsCacheKey, &cached) {
		cached.CacheHit = true
		return cached, nil
	}

	activities, _, err := s.store.Activities().List(ctx, repository.ActivityFilter{})
	if err != nil {
		return dto.ReviewStatsResponse{}, err
	}

	response := dto.ReviewStatsResponse{StatusSummary: analytics.StatusCounts(activities)}
	s.cache.store(ctx, reviewStatsCacheKey, response)

	return response, nil
}

// periodStart resolves a faculty dashboard period to its inclusive start.
// Semesters start on January 1 and July 1.
func periodStart(period string, now time.Time) (*time.Time, error) {
	now = now.UTC()
	var start time.Time

	switch period {
	case "all":
		return nil, nil
	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case "semester":
		month := time.January
		if now.Month() >= time.July {
			month = time.July
		}
		start = time.Date(now.Year(), month, 1, 0, 0, 0, 0, time.UTC)
	case "year":
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return nil, validationError("unsupported period %q", period)
	}

	return &start, nil
}
