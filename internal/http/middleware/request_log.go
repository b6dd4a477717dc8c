package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/processhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

// RequestLogger logs one line per request at a level chosen by status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		td := ctxutil.GetTraceData(c.Request.Context())
		rd := ctxutil.GetRequestData(c.Request.Context())

		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td != nil {
			if td.TraceID != "" {
				fields = append(fields, "trace_id", td.TraceID)
			}
			if td.RequestID != "" {
				fields = append(fields, "request_id", td.RequestID)
			}
		}
		if key := routeResourceKey(c.FullPath()); key != "" {
			fields = append(fields, key, c.Param("id"))
		}
		if rd != nil && rd.UserID != uuid.Nil {
			fields = append(fields, "user_id", rd.UserID.String(), "session_id", rd.SessionID.String())
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// routeResourceKey names the :id parameter of a route template by the
// resource it addresses.
func routeResourceKey(route string) string {
	switch {
	case strings.HasPrefix(route, "/api/processes/:id"):
		return "process_id"
	case strings.HasPrefix(route, "/api/versions/:id"):
		return "version_id"
	case strings.HasPrefix(route, "/api/deployments/:id"):
		return "deployment_id"
	case strings.HasPrefix(route, "/api/executions/:id"):
		return "execution_id"
	default:
		return ""
	}
}
