package contextx

import (
	"context"
	"fmt"

	"github.com/rs/xid"
)

const maxTraceIDLen = 64

// TraceID correlates a request with its log lines, its error responses and
// the background tasks it enqueues.
type TraceID string

type contextKeyTraceID struct{}

func NewTraceID() TraceID {
	return TraceID(xid.New().String())
}

// ParseTraceID accepts an upstream id of at most 64 letters, digits, '-' or
// '_'. Anything else is rejected so it cannot forge log lines.
func ParseTraceID(s string) (TraceID, bool) {
	if s == "" || len(s) > maxTraceIDLen {
		return "", false
	}

	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return "", false
		}
	}

	return TraceID(s), true
}

func (t TraceID) String() string {
	return string(t)
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	traceID, ok := ctx.Value(contextKeyTraceID{}).(TraceID)
	if !ok {
		return "", fmt.Errorf("trace id: %w", ErrNoValue)
	}

	return traceID, nil
}
