package middlewarex

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"acquisition_desk/pkg/errcodes"
	"acquisition_desk/pkg/httpx/reply"
	"acquisition_desk/pkg/logx"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger(ctx).Error(
					"panic in handler",
					slog.Any(logx.FieldError, rec),
					slog.String(logx.FieldStack, string(debug.Stack())),
				)

				reply.Status(
					ctx,
					w,
					http.StatusInternalServerError,
					errcodes.InternalServerError,
					"internal server error",
					fmt.Errorf("panic: %v", rec),
				)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
