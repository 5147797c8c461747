package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-portfolio-api/internal/dto"
	"github.com/noah-isme/gema-portfolio-api/internal/models"
	"github.com/noah-isme/gema-portfolio-api/internal/observability"
	"github.com/noah-isme/gema-portfolio-api/internal/repository"
)

// ReviewService drives the activity lifecycle: submission, owner edits and
// reviewer decisions.
type ReviewService interface {
	Submit(ctx context.Context, student Actor, req dto.ActivitySubmitRequest) (dto.ActivityResponse, error)
	Edit(ctx context.Context, activityID string, req dto.ActivityUpdateRequest, requester Actor) (dto.ActivityResponse, error)
	Approve(ctx context.Context, activityID string, reviewer Actor, req dto.ApproveRequest) (dto.ActivityResponse, error)
	Reject(ctx context.Context, activityID string, reviewer Actor, req dto.DecisionRequest) (dto.ActivityResponse, error)
	RequestRevision(ctx context.Context, activityID string, reviewer Actor, req dto.DecisionRequest) (dto.ActivityResponse, error)
	Get(ctx context.Context, activityID string, viewer Actor) (dto.ActivityResponse, error)
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
}

type reviewService struct {
	store      repository.Store
	aggregator *PortfolioAggregator
	events     ReviewEventPublisher
	cache      *viewCache
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
	tracer     trace.Tracer
	now        func() time.Time
	newID      func() string
}

// NewReviewService constructs the review workflow service. events and cache may be nil.
func NewReviewService(store repository.Store, aggregator *PortfolioAggregator, events ReviewEventPublisher, cache *redis.Client, validate *validator.Validate, logger zerolog.Logger) ReviewService {
	serviceLogger := logger.With().Str("component", "review_service").Logger()
	return &reviewService{
		store:      store,
		aggregator: aggregator,
		events:     events,
		cache:      newViewCache(cache, 0, serviceLogger),
		validator:  validate,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     serviceLogger,
		tracer:     otel.Tracer("github.com/noah-isme/gema-portfolio-api/internal/service/review"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (s *reviewService) Submit(ctx context.Context, student Actor, req dto.ActivitySubmitRequest) (dto.ActivityResponse, error) {
	studentID := strings.TrimSpace(student.ID)
	if studentID == "" {
		return dto.ActivityResponse{}, validationError("student id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.ActivityResponse{}, wrapValidation(err)
	}

	title := s.clean(req.Title)
	if title == "" {
		return dto.ActivityResponse{}, validationError("title is required")
	}
	description := s.clean(req.Description)
	if description == "" {
		return dto.ActivityResponse{}, validationError("description is required")
	}
	activityDate, err := parseActivityDate(req.ActivityDate)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	category, err := s.resolveCategory(ctx, s.store, req.CategoryID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	now := s.now()
	activity := models.Activity{
		ID:            s.newID(),
		StudentID:     studentID,
		CategoryID:    category.ID,
		Title:         title,
		Description:   description,
		ActivityDate:  activityDate,
		DurationHours: req.DurationHours,
		Location:      s.clean(req.Location),
		Organizer:     s.clean(req.Organizer),
		PointsClaimed: req.PointsClaimed,
		Status:        models.ActivityStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	activity.SetEvidence(normalizeEvidence(req.EvidenceURLs))

	err = s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Activities().Create(ctx, &activity); err != nil {
			return err
		}
		return s.audit(ctx, tx, student, AuditActionSubmitted, activity, map[string]interface{}{
			"category_id":    activity.CategoryID,
			"points_claimed": activity.PointsClaimed,
		})
	})
	if err != nil {
		s.logger.Error().Err(err).Str("student_id", studentID).Msg("failed to submit activity")
		return dto.ActivityResponse{}, err
	}

	activity.Category = category
	observability.ActivitySubmissions().Inc()
	s.cache.invalidateStudent(ctx, studentID)

	return dto.NewActivityResponse(activity), nil
}

func (s *reviewService) Edit(ctx context.Context, activityID string, req dto.ActivityUpdateRequest, requester Actor) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ActivityResponse{}, wrapValidation(err)
	}

	activity, err := s.loadActivity(ctx, s.store, activityID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	if activity.StudentID != strings.TrimSpace(requester.ID) {
		return dto.ActivityResponse{}, ErrForbidden
	}
	if !activity.Status.Reviewable() {
		return dto.ActivityResponse{}, invalidStateError("edit", activity.Status)
	}

	updates, err := s.editUpdates(ctx, req)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	if len(updates) == 0 {
		return dto.NewActivityResponse(activity), nil
	}

	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	updates["updated_at"] = s.now()

	var updated models.Activity
	err = s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Activities().CompareAndUpdate(ctx, activity.ID, activity.Status, updates); err != nil {
			return err
		}
		if err := s.audit(ctx, tx, requester, AuditActionUpdated, activity, map[string]interface{}{
			"fields": fields,
		}); err != nil {
			return err
		}
		updated, err = tx.Activities().GetByID(ctx, activity.ID)
		return err
	})
	if err != nil {
		return dto.ActivityResponse{}, s.guardError(err, activity.ID)
	}

	s.cache.invalidateStudent(ctx, activity.StudentID)

	return dto.NewActivityResponse(updated), nil
}

func (s *reviewService) editUpdates(ctx context.Context, req dto.ActivityUpdateRequest) (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	if req.Title != nil {
		title := s.clean(*req.Title)
		if title == "" {
			return nil, validationError("title cannot be empty")
		}
		updates["title"] = title
	}
	if req.Description != nil {
		description := s.clean(*req.Description)
		if description == "" {
			return nil, validationError("description cannot be empty")
		}
		updates["description"] = description
	}
	if req.CategoryID != nil {
		category, err := s.resolveCategory(ctx, s.store, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = category.ID
	}
	if req.ActivityDate != nil {
		date, err := parseActivityDate(*req.ActivityDate)
		if err != nil {
			return nil, err
		}
		updates["activity_date"] = date
	}
	if req.DurationHours != nil {
		updates["duration_hours"] = *req.DurationHours
	}
	if req.Location != nil {
		updates["location"] = s.clean(*req.Location)
	}
	if req.Organizer != nil {
		updates["organizer"] = s.clean(*req.Organizer)
	}
	if req.PointsClaimed != nil {
		updates["points_claimed"] = *req.PointsClaimed
	}
	if req.EvidenceURLs != nil {
		var encoded models.Activity
		encoded.SetEvidence(normalizeEvidence(*req.EvidenceURLs))
		updates["evidence_urls"] = encoded.EvidenceURLs
	}

	return updates, nil
}

func (s *reviewService) Approve(ctx context.Context, activityID string, reviewer Actor, req dto.ApproveRequest) (dto.ActivityResponse, error) {
	if req.PointsToAward != nil && *req.PointsToAward < 0 {
		return dto.ActivityResponse{}, validationError("points to award cannot be negative")
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.ActivityResponse{}, wrapValidation(err)
	}

	return s.decide(ctx, activityID, reviewer, decision{
		operation: "approve",
		action:    AuditActionApproved,
		status:    models.ActivityStatusApproved,
		updates: func(activity models.Activity, now time.Time) (map[string]interface{}, map[string]interface{}, error) {
			base := activity.PointsClaimed
			if req.PointsToAward != nil {
				base = *req.PointsToAward
			}
			awarded, err := awardedPoints(base, activity.Category.PointsMultiplier)
			if err != nil {
				return nil, nil, err
			}
			return map[string]interface{}{
					"status":           models.ActivityStatusApproved,
					"points_awarded":   awarded,
					"approved_by":      reviewer.ID,
					"approved_at":      now,
					"rejection_reason": nil,
					"updated_at":       now,
				}, map[string]interface{}{
					"points_base":       base,
					"points_multiplier": activity.Category.PointsMultiplier,
					"points_awarded":    awarded,
				}, nil
		},
	})
}

func (s *reviewService) Reject(ctx context.Context, activityID string, reviewer Actor, req dto.DecisionRequest) (dto.ActivityResponse, error) {
	return s.decideWithReason(ctx, activityID, reviewer, req, "reject", AuditActionRejected, models.ActivityStatusRejected)
}

func (s *reviewService) RequestRevision(ctx context.Context, activityID string, reviewer Actor, req dto.DecisionRequest) (dto.ActivityResponse, error) {
	return s.decideWithReason(ctx, activityID, reviewer, req, "request revision for", AuditActionRevisionRequested, models.ActivityStatusRevisionRequired)
}

func (s *reviewService) decideWithReason(ctx context.Context, activityID string, reviewer Actor, req dto.DecisionRequest, operation, action string, status models.ActivityStatus) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ActivityResponse{}, wrapValidation(err)
	}
	reason := s.clean(req.Reason)
	if reason == "" {
		return dto.ActivityResponse{}, validationError("reason is required")
	}

	return s.decide(ctx, activityID, reviewer, decision{
		operation: operation,
		action:    action,
		status:    status,
		updates: func(_ models.Activity, now time.Time) (map[string]interface{}, map[string]interface{}, error) {
			return map[string]interface{}{
					"status":           status,
					"rejection_reason": reason,
					"points_awarded":   nil,
					"approved_by":      nil,
					"approved_at":      nil,
					"updated_at":       now,
				}, map[string]interface{}{
					"reason": reason,
				}, nil
		},
	})
}

// decision describes one reviewer transition.
type decision struct {
	operation string
	action    string
	status    models.ActivityStatus
	updates   func(activity models.Activity, now time.Time) (fields map[string]interface{}, metadata map[string]interface{}, err error)
}

func (s *reviewService) decide(ctx context.Context, activityID string, reviewer Actor, d decision) (dto.ActivityResponse, error) {
	ctx, span := s.tracer.Start(ctx, "review.decide", trace.WithAttributes(
		attribute.String("review.activity_id", activityID),
		attribute.String("review.decision", string(d.status)),
	))
	defer span.End()

	if strings.TrimSpace(reviewer.ID) == "" {
		return dto.ActivityResponse{}, validationError("reviewer id is required")
	}

	current, err := s.loadActivity(ctx, s.store, activityID)
	if err != nil {
		span.RecordError(err)
		return dto.ActivityResponse{}, err
	}
	if !current.Status.Reviewable() {
		return dto.ActivityResponse{}, invalidStateError(d.operation, current.Status)
	}

	unlock := s.aggregator.Serialize(current.StudentID)
	defer unlock()

	var updated models.Activity
	err = s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		activity, err := s.loadActivity(ctx, tx, activityID)
		if err != nil {
			return err
		}
		if !activity.Status.Reviewable() {
			return invalidStateError(d.operation, activity.Status)
		}

		fields, metadata, err := d.updates(activity, s.now())
		if err != nil {
			return err
		}
		if err := tx.Activities().CompareAndUpdate(ctx, activity.ID, activity.Status, fields); err != nil {
			return err
		}

		if d.status == models.ActivityStatusApproved || activity.Status == models.ActivityStatusApproved {
			if _, err := s.aggregator.Recompute(ctx, tx, activity.StudentID); err != nil {
				return err
			}
		}

		metadata["from_status"] = string(activity.Status)
		metadata["to_status"] = string(d.status)
		if err := s.audit(ctx, tx, reviewer, d.action, activity, metadata); err != nil {
			return err
		}

		updated, err = tx.Activities().GetByID(ctx, activity.ID)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decision_failed")
		return dto.ActivityResponse{}, s.guardError(err, activityID)
	}

	observability.ReviewDecisions().WithLabelValues(string(d.status)).Inc()
	s.cache.invalidateStudent(ctx, updated.StudentID)
	s.publish(ctx, d.action, reviewer, updated)

	return dto.NewActivityResponse(updated), nil
}

func (s *reviewService) Get(ctx context.Context, activityID string, viewer Actor) (dto.ActivityResponse, error) {
	activity, err := s.loadActivity(ctx, s.store, activityID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	if !viewer.IsReviewer() && activity.StudentID != strings.TrimSpace(viewer.ID) {
		return dto.ActivityResponse{}, ErrForbidden
	}

	response := dto.NewActivityResponse(activity)
	if viewer.IsReviewer() && activity.Status.Reviewable() {
		if suggested, err := awardedPoints(activity.PointsClaimed, activity.Category.PointsMultiplier); err == nil {
			response.SuggestedPoints = &suggested
		}
	}
	return response, nil
}

func (s *reviewService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	statuses := make([]models.ActivityStatus, 0, len(req.Statuses))
	for _, raw := range req.Statuses {
		status := models.ActivityStatus(strings.ToLower(strings.TrimSpace(raw)))
		if !status.Valid() {
			return dto.ActivityListResponse{}, validationError("unknown status %q", raw)
		}
		statuses = append(statuses, status)
	}

	sortKey := strings.ToLower(strings.TrimSpace(req.Sort))
	if !repository.ActivitySortSupported(sortKey) {
		return dto.ActivityListResponse{}, validationError("unsupported sort %q", req.Sort)
	}

	filter := repository.ActivityFilter{
		StudentID:  strings.TrimSpace(req.StudentID),
		Statuses:   statuses,
		CategoryID: strings.TrimSpace(req.CategoryID),
		Department: strings.TrimSpace(req.Department),
		Search:     strings.TrimSpace(req.Search),
		Sort:       sortKey,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	activities, total, err := s.store.Activities().List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	items := make([]dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		items = append(items, dto.NewActivityResponse(activity))
	}

	return dto.ActivityListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *reviewService) loadActivity(ctx context.Context, store repository.Store, activityID string) (models.Activity, error) {
	id := strings.TrimSpace(activityID)
	if id == "" {
		return models.Activity{}, validationError("activity id is required")
	}

	activity, err := store.Activities().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Activity{}, notFoundError("activity", id)
		}
		return models.Activity{}, err
	}
	return activity, nil
}

func (s *reviewService) resolveCategory(ctx context.Context, store repository.Store, categoryID string) (models.Category, error) {
	id := strings.TrimSpace(categoryID)
	if id == "" {
		return models.Category{}, validationError("category_id is required")
	}

	category, err := store.Categories().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, validationError("category %q does not exist", id)
		}
		return models.Category{}, err
	}
	return category, nil
}

func (s *reviewService) audit(ctx context.Context, tx repository.Store, actor Actor, action string, activity models.Activity, metadata map[string]interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata["student_id"] = activity.StudentID

	entry, err := newAuditLog(AuditEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "activity",
		EntityID:   activity.ID,
		Metadata:   metadata,
	})
	if err != nil {
		return err
	}
	return tx.AuditLogs().Create(ctx, &entry)
}

// guardError maps a lost status guard onto ErrConflict.
func (s *reviewService) guardError(err error, activityID string) error {
	if errors.Is(err, repository.ErrStaleStatus) {
		observability.ReviewConflicts().Inc()
		s.logger.Warn().Str("activity_id", activityID).Msg("status guard rejected concurrent update")
		return ErrConflict
	}
	return err
}

func (s *reviewService) publish(ctx context.Context, action string, actor Actor, activity models.Activity) {
	if s.events == nil {
		return
	}

	event := ReviewEvent{
		Action:        action,
		ActivityID:    activity.ID,
		StudentID:     activity.StudentID,
		ActorID:       actor.ID,
		Status:        activity.Status,
		PointsAwarded: activity.PointsAwarded,
		Reason:        activity.RejectionReason,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("activity_id", activity.ID).Msg("failed to publish review event")
	}
}

func (s *reviewService) clean(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

var activityDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseActivityDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range activityDateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, validationError("activity_date must be RFC3339 or YYYY-MM-DD")
}

func normalizeEvidence(urls []string) []string {
	normalized := make([]string, 0, len(urls))
	for _, url := range urls {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}
