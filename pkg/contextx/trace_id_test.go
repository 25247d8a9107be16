package contextx_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"acquisition_desk/pkg/contextx"
)

func TestTraceID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var testTraceIDEmpty contextx.TraceID

	testTraceIDNotEmpty := contextx.TraceID("test-trace-id")

	traceID, err := contextx.TraceIDFromContext(ctx)
	rq.Equal(testTraceIDEmpty, traceID)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "trace id: no value in context")

	ctx = contextx.WithTraceID(ctx, testTraceIDNotEmpty)

	traceID, err = contextx.TraceIDFromContext(ctx)
	rq.Equal(testTraceIDNotEmpty, traceID)
	rq.NoError(err)
}

func TestParseTraceID(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		ok    bool
	}{
		{name: "xid", input: contextx.NewTraceID().String(), ok: true},
		{name: "Upstream with dashes", input: "lb-4f2a_01", ok: true},
		{name: "Empty", input: "", ok: false},
		{name: "Newline injection", input: "abc\ntrace-id=forged", ok: false},
		{name: "Spaces", input: "a b", ok: false},
		{name: "Too long", input: strings.Repeat("a", 65), ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			traceID, ok := contextx.ParseTraceID(tc.input)

			rq.Equal(tc.ok, ok)

			if ok {
				rq.Equal(tc.input, traceID.String())
			}
		})
	}
}
