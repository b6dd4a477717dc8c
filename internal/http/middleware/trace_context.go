package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/processhub-backend/internal/platform/ctxutil"
)

const (
	HeaderTraceID   = "X-Trace-Id"
	HeaderRequestID = "X-Request-Id"

	maxInboundIDLen = 128
)

// AttachTraceContext stores request and trace ids on the request context and
// echoes them as response headers. A live otel span wins over an inbound
// X-Trace-Id so logs line up with exported traces.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		reqID := inboundID(c.GetHeader(HeaderRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}

		var traceID string
		span := trace.SpanFromContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			traceID = sc.TraceID().String()
			span.SetAttributes(attribute.String("http.request_id", reqID))
		}
		if traceID == "" {
			traceID = inboundID(c.GetHeader(HeaderTraceID))
		}
		if traceID == "" {
			traceID = reqID
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		}))
		c.Header(HeaderTraceID, traceID)
		c.Header(HeaderRequestID, reqID)
		c.Next()
	}
}

// inboundID accepts a caller-supplied id only when it is short and printable.
func inboundID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxInboundIDLen {
		return ""
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return ""
		}
	}
	return id
}
