package middlewarex

import (
	"net/http"

	"acquisition_desk/pkg/contextx"
)

const headerNameTraceID = "X-Trace-Id"

// TraceID reuses a well-formed upstream X-Trace-Id or mints a new one, and
// echoes it back so clients can quote it as the support id.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID, ok := contextx.ParseTraceID(r.Header.Get(headerNameTraceID))
		if !ok {
			traceID = contextx.NewTraceID()
		}

		w.Header().Set(headerNameTraceID, traceID.String())

		next.ServeHTTP(w, r.WithContext(contextx.WithTraceID(r.Context(), traceID)))
	})
}
