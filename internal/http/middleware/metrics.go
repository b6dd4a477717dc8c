package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/processhub-backend/internal/observability"
)

// unobservedRoutes are the scrape and health-check endpoints.
var unobservedRoutes = map[string]bool{
	"/metrics":     true,
	"/healthcheck": true,
}

// Metrics records request counts and latency by route template. Requests that
// match no route share the "unmatched" label so arbitrary paths cannot mint
// new series.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if unobservedRoutes[c.FullPath()] {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
