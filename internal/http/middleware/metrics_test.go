package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/processhub-backend/internal/observability"
)

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/executions/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/executions/a", "/api/executions/b", "/healthcheck", "/nope/1", "/nope/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var buf bytes.Buffer
	require.NoError(t, m.WritePrometheus(&buf))
	out := buf.String()
	assert.Contains(t, out, `processhub_api_requests_total{method="GET",route="/api/executions/:id",status="200"} 2.000000`)
	assert.Contains(t, out, `processhub_api_requests_total{method="GET",route="unmatched",status="404"} 2.000000`)
	assert.NotContains(t, out, `route="/healthcheck"`)
	assert.Contains(t, out, "processhub_api_inflight_requests 0.000000")
}

func TestRouteResourceKey(t *testing.T) {
	assert.Equal(t, "deployment_id", routeResourceKey("/api/deployments/:id/execute"))
	assert.Equal(t, "execution_id", routeResourceKey("/api/executions/:id/input"))
	assert.Equal(t, "process_id", routeResourceKey("/api/processes/:id"))
	assert.Equal(t, "version_id", routeResourceKey("/api/versions/:id/deploy"))
	assert.Empty(t, routeResourceKey("/api/deployments"))
	assert.Empty(t, routeResourceKey(""))
}
