package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-portfolio-api/internal/observability"
)

// FacultyPeriods lists the time windows the faculty dashboard supports.
var FacultyPeriods = []string{"all", "month", "semester", "year"}

const reviewStatsCacheKey = "analytics:review_stats"

func studentAnalyticsCacheKey(studentID string) string {
	return "analytics:student:" + studentID
}

func facultyAnalyticsCacheKey(period string) string {
	return "analytics:faculty:" + period
}

func portfolioOverviewCacheKey(studentID string) string {
	return "portfolio:student:" + studentID
}

// viewCache stores rendered read models in Redis. A nil client disables it.
type viewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func newViewCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *viewCache {
	return &viewCache{client: client, ttl: ttl, logger: logger}
}

func (c *viewCache) load(ctx context.Context, view, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}

	cached, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to read view cache")
		}
		observability.AnalyticsCacheLookups().WithLabelValues(view, "miss").Inc()
		return false
	}

	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("discarding undecodable cache entry")
		observability.AnalyticsCacheLookups().WithLabelValues(view, "miss").Inc()
		return false
	}

	observability.AnalyticsCacheLookups().WithLabelValues(view, "hit").Inc()
	return true
}

func (c *viewCache) store(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to encode view cache entry")
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to store view cache")
	}
}

// invalidateStudent drops every cached view derived from the student's activities.
func (c *viewCache) invalidateStudent(ctx context.Context, studentID string) {
	if c == nil || c.client == nil {
		return
	}

	keys := []string{
		studentAnalyticsCacheKey(studentID),
		portfolioOverviewCacheKey(studentID),
		reviewStatsCacheKey,
	}
	for _, period := range FacultyPeriods {
		keys = append(keys, facultyAnalyticsCacheKey(period))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Str("student_id", studentID).Msg("failed to invalidate cached views")
	}
}
