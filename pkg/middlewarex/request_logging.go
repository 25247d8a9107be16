package middlewarex

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strings"

	"acquisition_desk/pkg/logx"
)

// RequestLogging logs the masked request dump. Only JSON bodies are dumped.
func RequestLogging(
	sensitiveDataMasker logx.SensitiveDataMaskerInterface,
	logFieldMaxLen int,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			dumpBody := r.ContentLength != 0 &&
				strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")

			dump, err := httputil.DumpRequest(r, dumpBody)
			if err != nil {
				logger(ctx).Error("httputil.DumpRequest", logx.Error(err))
			}

			logger(ctx).Info(
				logx.FieldHTTPRequest,
				slog.String(logx.FieldRequestBody, logx.Dump(sensitiveDataMasker, dump, logFieldMaxLen)),
			)

			next.ServeHTTP(w, r)
		})
	}
}
