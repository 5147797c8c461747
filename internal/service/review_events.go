package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

// ReviewEvent is broadcast after a workflow transition commits.
type ReviewEvent struct {
	Source        string                `json:"source"`
	Action        string                `json:"action"`
	ActivityID    string                `json:"activity_id"`
	StudentID     string                `json:"student_id"`
	ActorID       string                `json:"actor_id"`
	Status        models.ActivityStatus `json:"status"`
	PointsAwarded *int                  `json:"points_awarded,omitempty"`
	Reason        *string               `json:"reason,omitempty"`
	OccurredAt    time.Time             `json:"occurred_at"`
}

// ReviewEventPublisher fans committed transitions out to other systems.
type ReviewEventPublisher interface {
	Publish(ctx context.Context, event ReviewEvent) error
}

type brokerReviewPublisher struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	tracer       trace.Tracer
	nodeID       string
}

// NewReviewEventPublisher publishes to Redis pub/sub and NATS. Either client
// may be nil; with both nil publishing is a no-op.
func NewReviewEventPublisher(redisClient *redis.Client, channelBase string, natsConn *nats.Conn) ReviewEventPublisher {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":activity_reviewed"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".activity.reviewed"
	}

	return &brokerReviewPublisher{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		tracer:       otel.Tracer("github.com/noah-isme/gema-portfolio-api/internal/service/review_events"),
		nodeID:       uuid.NewString(),
	}
}

func (p *brokerReviewPublisher) Publish(ctx context.Context, event ReviewEvent) error {
	ctx, span := p.tracer.Start(ctx, "review.events.publish", trace.WithAttributes(
		attribute.String("review.action", event.Action),
		attribute.String("review.activity_id", event.ActivityID),
	))
	defer span.End()

	event.Source = p.nodeID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if p.redis != nil && p.redisChannel != "" {
		if err := p.redis.Publish(ctx, p.redisChannel, payload).Err(); err != nil {
			span.RecordError(err)
			return err
		}
	}

	if p.nats != nil && p.natsSubject != "" {
		if err := p.nats.Publish(p.natsSubject, payload); err != nil {
			span.RecordError(err)
			return err
		}
	}

	return nil
}
