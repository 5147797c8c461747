package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandlerExposesWorkflowCollectors(t *testing.T) {
	ReviewDecisions().WithLabelValues("approved").Inc()
	ReviewConflicts().Inc()
	AnalyticsCacheLookups().WithLabelValues("student", "miss").Inc()

	app := fiber.New()
	app.Get("/metrics", MetricsHandler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)
	for _, name := range []string{"review_decisions_total", "review_conflicts_total", "analytics_cache_lookups_total"} {
		require.True(t, strings.Contains(text, name), "missing %s", name)
	}
}
