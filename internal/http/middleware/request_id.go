package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/yamdb-backend/internal/platform/ctxutil"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderTraceID   = "X-Trace-Id"

	maxRequestIDLen = 64
)

// RequestContext attaches a ctxutil.Trace to every request and echoes it in
// the response headers. A client supplied X-Request-Id is reused only when it
// is short and printable. The trace id comes from the active span, so it
// must run after otelgin.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		tr := ctxutil.Trace{RequestID: c.GetHeader(HeaderRequestID)}
		if !validRequestID(tr.RequestID) {
			tr.RequestID = uuid.NewString()
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			tr.TraceID = sc.TraceID().String()
		}

		c.Request = c.Request.WithContext(ctxutil.WithTrace(c.Request.Context(), tr))
		c.Header(HeaderRequestID, tr.RequestID)
		if tr.TraceID != "" {
			c.Header(HeaderTraceID, tr.TraceID)
		}
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return false
		}
	}
	return true
}
