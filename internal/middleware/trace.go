package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey string

const traceIDKey ctxKey = "trace_id"

// Trace tags every request with a trace id, taken from the caller's
// X-Trace-Id header when present so the frontend can correlate its own
// logs with ours. Handlers pull it back out with TraceIDFromCtx to stamp
// their log lines.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-Id")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set("X-Trace-Id", traceID)
		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), traceIDKey, traceID)))
	})
}

// TraceIDFromCtx returns the request's trace id, or "" outside a traced
// request.
func TraceIDFromCtx(ctx context.Context) string {
	v, _ := ctx.Value(traceIDKey).(string)
	return v
}
