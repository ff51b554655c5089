package cognee

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTransportRecordsOneSpanPerCall(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	var count int32
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&count, 1) == 1 {
			jsonResponse(500, `{}`)(w, r)
			return
		}
		jsonResponse(200, `{}`)(w, r)
	})
	c, _ := newTestClient(t, srv.URL, 3, WithTracerProvider(tp))

	_, err := c.Get(context.Background(), "api/v1/datasets")
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "cognee GET", span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)

	var attempts int
	for _, ev := range span.Events() {
		if ev.Name == "attempt" {
			attempts++
		}
	}
	assert.Equal(t, 2, attempts)
}

func TestTransportSpanRecordsFault(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	c, _ := newTestClient(t, base, 0, WithTracerProvider(tp))

	_, err := c.Get(context.Background(), "health")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
