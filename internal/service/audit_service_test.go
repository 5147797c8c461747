package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-portfolio-api/internal/dto"
)

func TestAuditRecordSanitizesMetadata(t *testing.T) {
	f := setupServiceFixture(t, nil)
	ctx := context.Background()

	recorded, err := f.audit.Record(ctx, AuditEntry{
		ActorID:    " admin-1 ",
		ActorRole:  "ADMIN",
		Action:     "Catalog.Seeded",
		EntityType: "Category",
		Metadata: map[string]interface{}{
			"contact_email": "ops@campus.test",
			"api_token":     "secret",
			"categories":    7,
		},
	})
	require.NoError(t, err)
	require.Equal(t, "admin-1", recorded.ActorID)
	require.Equal(t, "admin", recorded.ActorRole)
	require.Equal(t, AuditActionCatalogSeeded, recorded.Action)
	require.Equal(t, "category", recorded.EntityType)
	require.Equal(t, "***", recorded.Metadata["contact_email"])
	require.Equal(t, "***", recorded.Metadata["api_token"])
	require.EqualValues(t, 7, recorded.Metadata["categories"])

	_, err = f.audit.Record(ctx, AuditEntry{EntityType: "category"})
	require.Error(t, err)
	_, err = f.audit.Record(ctx, AuditEntry{Action: "catalog.seeded"})
	require.Error(t, err)
}

func TestAuditListFiltersWorkflowEntries(t *testing.T) {
	f := setupServiceFixture(t, nil)
	ctx := context.Background()

	submitted, err := f.review.Submit(ctx, studentAna, submitRequest("leadership", 40))
	require.NoError(t, err)
	_, err = f.review.RequestRevision(ctx, submitted.ID, facultyRina, dto.DecisionRequest{Reason: "add certificate"})
	require.NoError(t, err)
	_, err = f.review.Approve(ctx, submitted.ID, facultyDedi, dto.ApproveRequest{})
	require.NoError(t, err)

	trail, err := f.audit.List(ctx, dto.AuditLogListRequest{EntityID: submitted.ID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(3), trail.Pagination.TotalItems)
	require.Len(t, trail.Items, 3)

	actions := map[string]bool{}
	for _, item := range trail.Items {
		actions[item.Action] = true
		require.Equal(t, studentAna.ID, item.Metadata["student_id"])
	}
	require.True(t, actions[AuditActionSubmitted])
	require.True(t, actions[AuditActionRevisionRequested])
	require.True(t, actions[AuditActionApproved])

	byActor, err := f.audit.List(ctx, dto.AuditLogListRequest{ActorID: facultyDedi.ID})
	require.NoError(t, err)
	require.Len(t, byActor.Items, 1)
	require.Equal(t, AuditActionApproved, byActor.Items[0].Action)
	require.Equal(t, "revision_required", byActor.Items[0].Metadata["from_status"])
	require.Equal(t, "approved", byActor.Items[0].Metadata["to_status"])

	byAction, err := f.audit.List(ctx, dto.AuditLogListRequest{Action: " ACTIVITY.REVISION_REQUESTED "})
	require.NoError(t, err)
	require.Len(t, byAction.Items, 1)
	require.Equal(t, "add certificate", byAction.Items[0].Metadata["reason"])
}
