package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-portfolio-api/internal/dto"
	"github.com/noah-isme/gema-portfolio-api/internal/service"
)

func discardLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// withIdentity stands in for the JWT middleware.
func withIdentity(app *fiber.App, userID, role string) {
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("user_role", role)
		return c.Next()
	})
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
	Data    json.RawMessage   `json:"data"`
}

type mockReviewService struct {
	lastActor   service.Actor
	lastID      string
	lastSubmit  dto.ActivitySubmitRequest
	lastEdit    dto.ActivityUpdateRequest
	lastApprove dto.ApproveRequest
	lastReason  string
	lastList    dto.ActivityListRequest
	response    dto.ActivityResponse
	list        dto.ActivityListResponse
	err         error
}

func (m *mockReviewService) Submit(_ context.Context, student service.Actor, req dto.ActivitySubmitRequest) (dto.ActivityResponse, error) {
	m.lastActor = student
	m.lastSubmit = req
	return m.response, m.err
}

func (m *mockReviewService) Edit(_ context.Context, id string, req dto.ActivityUpdateRequest, requester service.Actor) (dto.ActivityResponse, error) {
	m.lastID = id
	m.lastEdit = req
	m.lastActor = requester
	return m.response, m.err
}

func (m *mockReviewService) Approve(_ context.Context, id string, reviewer service.Actor, req dto.ApproveRequest) (dto.ActivityResponse, error) {
	m.lastID = id
	m.lastActor = reviewer
	m.lastApprove = req
	return m.response, m.err
}

func (m *mockReviewService) Reject(_ context.Context, id string, reviewer service.Actor, req dto.DecisionRequest) (dto.ActivityResponse, error) {
	m.lastID = id
	m.lastActor = reviewer
	m.lastReason = req.Reason
	return m.response, m.err
}

func (m *mockReviewService) RequestRevision(_ context.Context, id string, reviewer service.Actor, req dto.DecisionRequest) (dto.ActivityResponse, error) {
	m.lastID = id
	m.lastActor = reviewer
	m.lastReason = req.Reason
	return m.response, m.err
}

func (m *mockReviewService) Get(_ context.Context, id string, viewer service.Actor) (dto.ActivityResponse, error) {
	m.lastID = id
	m.lastActor = viewer
	return m.response, m.err
}

func (m *mockReviewService) List(_ context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	m.lastList = req
	return m.list, m.err
}

type mockAnalyticsService struct {
	lastStudent string
	lastPeriod  string
	student     dto.StudentAnalyticsResponse
	faculty     dto.FacultyAnalyticsResponse
	stats       dto.ReviewStatsResponse
	err         error
}

func (m *mockAnalyticsService) Student(_ context.Context, studentID string) (dto.StudentAnalyticsResponse, error) {
	m.lastStudent = studentID
	return m.student, m.err
}

func (m *mockAnalyticsService) Faculty(_ context.Context, period string) (dto.FacultyAnalyticsResponse, error) {
	m.lastPeriod = period
	return m.faculty, m.err
}

func (m *mockAnalyticsService) ReviewStats(_ context.Context) (dto.ReviewStatsResponse, error) {
	return m.stats, m.err
}
