package service

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-portfolio-api/internal/catalog"
	"github.com/noah-isme/gema-portfolio-api/internal/dto"
	"github.com/noah-isme/gema-portfolio-api/internal/models"
	"github.com/noah-isme/gema-portfolio-api/internal/repository"
)

func approveNew(t *testing.T, f *serviceFixture, student Actor, categoryID string, points int) dto.ActivityResponse {
	t.Helper()
	submitted, err := f.review.Submit(context.Background(), student, submitRequest(categoryID, points))
	require.NoError(t, err)
	approved, err := f.review.Approve(context.Background(), submitted.ID, facultyRina, dto.ApproveRequest{})
	require.NoError(t, err)
	return approved
}

func TestRecomputeIsIdempotentAndConsistent(t *testing.T) {
	f := setupServiceFixture(t, nil)
	ctx := context.Background()

	approveNew(t, f, studentAna, "academic-excellence", 15)
	approveNew(t, f, studentAna, "olympiad", 10)
	approveNew(t, f, studentAna, "technical-skills", 7)
	pending, err := f.review.Submit(ctx, studentAna, submitRequest("entrepreneurship", 50))
	require.NoError(t, err)

	first, err := f.portfolio.Recompute(ctx, studentAna.ID, facultyRina)
	require.NoError(t, err)
	second, err := f.portfolio.Recompute(ctx, studentAna.ID, facultyRina)
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.Equal(t, 23+20+9, first.TotalPoints)
	require.Equal(t, 3, first.TotalActivities)

	groupSum := 0
	for _, group := range first.Groups {
		groupSum += group.Points
		switch group.Group {
		case catalog.GroupAcademic:
			require.Equal(t, 43, group.Points)
		case catalog.GroupTechnical:
			require.Equal(t, 9, group.Points)
		default:
			require.Zero(t, group.Points, string(group.Group))
		}
	}
	require.Equal(t, first.TotalPoints, groupSum)

	approved, _, err := f.store.Activities().List(ctx, repository.ActivityFilter{
		StudentID: studentAna.ID,
		Statuses:  []models.ActivityStatus{models.ActivityStatusApproved},
	})
	require.NoError(t, err)
	awardedSum := 0
	for _, activity := range approved {
		awardedSum += activity.AwardedPoints()
	}
	require.Equal(t, first.TotalPoints, awardedSum)
	require.NotContains(t, activityIDs(approved), pending.ID)

	logs, total, err := f.store.AuditLogs().List(ctx, repository.AuditLogFilter{Action: AuditActionPortfolioRecompute})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, "portfolio", logs[0].EntityType)
	require.Equal(t, studentAna.ID, logs[0].EntityID)
}

func activityIDs(activities []models.Activity) []string {
	ids := make([]string, 0, len(activities))
	for _, activity := range activities {
		ids = append(ids, activity.ID)
	}
	return ids
}

func TestRecomputeRepairsDriftedSnapshot(t *testing.T) {
	f := setupServiceFixture(t, nil)
	ctx := context.Background()

	approveNew(t, f, studentAna, "leadership", 40)

	require.NoError(t, f.db.Model(&models.Portfolio{}).
		Where("student_id = ?", studentAna.ID).
		Updates(map[string]interface{}{"total_points": 999, "sports_points": 949}).Error)

	repaired, err := f.portfolio.Recompute(ctx, studentAna.ID, Actor{})
	require.NoError(t, err)
	require.Equal(t, 50, repaired.TotalPoints)

	stored, err := f.store.Portfolios().Get(ctx, studentAna.ID)
	require.NoError(t, err)
	require.Equal(t, 50, stored.TotalPoints)
	require.Zero(t, stored.SportsPoints)
	require.Equal(t, 50, stored.LeadershipPoints)
	require.Equal(t, stored.TotalPoints, stored.GroupTotal())

	logs, _, err := f.store.AuditLogs().List(ctx, repository.AuditLogFilter{Action: AuditActionPortfolioRecompute})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "system", logs[0].ActorID)
}

func TestRecomputeWithoutApprovalsWritesZeroSnapshot(t *testing.T) {
	f := setupServiceFixture(t, nil)
	ctx := context.Background()

	portfolio, err := f.portfolio.Recompute(ctx, studentBudi.ID, facultyRina)
	require.NoError(t, err)
	require.Zero(t, portfolio.TotalPoints)
	require.Zero(t, portfolio.TotalActivities)
	require.Len(t, portfolio.Groups, len(catalog.Groups))

	_, err = f.portfolio.Recompute(ctx, "ghost-student", facultyRina)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.portfolio.Recompute(ctx, "  ", facultyRina)
	require.ErrorIs(t, err, ErrValidation)
}

func TestPortfolioOverviewCachesAndInvalidates(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	f := setupServiceFixture(t, client)
	ctx := context.Background()

	approveNew(t, f, studentAna, "leadership", 80)

	overview, err := f.portfolio.Overview(ctx, studentAna.ID)
	require.NoError(t, err)
	require.False(t, overview.CacheHit)
	require.Equal(t, 100, overview.Portfolio.TotalPoints)
	require.Len(t, overview.Timeline, 1)
	require.Len(t, overview.Skills, 3)
	require.Equal(t, "Team Management", overview.Skills[0].Name)
	require.Equal(t, 15, overview.Skills[0].Level)

	titles := make([]string, 0, len(overview.Achievements))
	for _, achievement := range overview.Achievements {
		titles = append(titles, achievement.Title)
	}
	require.Contains(t, titles, "Century Achiever")
	require.Contains(t, titles, "Leadership Champion")

	cached, err := f.portfolio.Overview(ctx, studentAna.ID)
	require.NoError(t, err)
	require.True(t, cached.CacheHit)
	require.Equal(t, overview.Portfolio.TotalPoints, cached.Portfolio.TotalPoints)

	approveNew(t, f, studentAna, "community-service", 10)

	refreshed, err := f.portfolio.Overview(ctx, studentAna.ID)
	require.NoError(t, err)
	require.False(t, refreshed.CacheHit)
	require.Equal(t, 112, refreshed.Portfolio.TotalPoints)
	require.Len(t, refreshed.Timeline, 2)
}

func TestPortfolioOverviewWithoutSnapshot(t *testing.T) {
	f := setupServiceFixture(t, nil)

	overview, err := f.portfolio.Overview(context.Background(), studentBudi.ID)
	require.NoError(t, err)
	require.Equal(t, studentBudi.ID, overview.Portfolio.StudentID)
	require.Zero(t, overview.Portfolio.TotalPoints)
	require.Empty(t, overview.Timeline)
	require.Empty(t, overview.Achievements)
}

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	locks := newKeyedMutex()

	unlockA := locks.Lock("a")
	acquired := make(chan struct{})
	go func() {
		unlock := locks.Lock("a")
		close(acquired)
		unlock()
	}()

	unlockB := locks.Lock("b")
	unlockB()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a locked key")
	default:
	}

	unlockA()
	<-acquired

	locks.mu.Lock()
	defer locks.mu.Unlock()
	require.Empty(t, locks.locks)
}
