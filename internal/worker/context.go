package worker

import (
	"context"
	"log/slog"

	"acquisition_desk/pkg/contextx"
	"acquisition_desk/pkg/logx"
)

// contextWithTask restores the trace id of the request that queued the task
// so its alert lines can be found next to the submission.
func contextWithTask(ctx context.Context, taskType, stockNumber, traceID string) context.Context {
	attrs := []any{
		slog.String(logx.FieldTaskType, taskType),
		slog.String(logx.FieldStockNumber, stockNumber),
	}

	if id, ok := contextx.ParseTraceID(traceID); ok {
		ctx = contextx.WithTraceID(ctx, id)
		attrs = append(attrs, logx.Stringer(logx.FieldTraceID, id))
	}

	return contextx.WithLogger(ctx, logger(ctx).With(attrs...))
}
