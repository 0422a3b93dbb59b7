package ctxutil

import "context"

type traceKey struct{}

// Trace correlates a request across logs, spans and response headers.
type Trace struct {
	RequestID string
	TraceID   string
}

func WithTrace(ctx context.Context, tr Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, tr)
}

// TraceFrom returns the zero Trace when none was attached.
func TraceFrom(ctx context.Context) Trace {
	if ctx == nil {
		return Trace{}
	}
	tr, _ := ctx.Value(traceKey{}).(Trace)
	return tr
}

// LogFields flattens the trace and caller identity of ctx into logger
// key/value pairs. Empty values are skipped.
func LogFields(ctx context.Context) []interface{} {
	var kv []interface{}
	tr := TraceFrom(ctx)
	if tr.RequestID != "" {
		kv = append(kv, "request_id", tr.RequestID)
	}
	if tr.TraceID != "" {
		kv = append(kv, "trace_id", tr.TraceID)
	}
	if rd := GetRequestData(ctx); rd != nil && rd.UserID != 0 {
		kv = append(kv, "user_id", rd.UserID, "role", rd.Role)
	}
	return kv
}
