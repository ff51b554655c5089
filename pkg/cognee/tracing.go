package cognee

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (t *Transport) startSpan(ctx context.Context, info *RequestInfo) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "cognee "+info.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", info.Method),
			attribute.String("url.full", sanitizeURL(info.URL)),
			attribute.String("cognee.request_id", info.ID),
		),
	)
}

func addAttemptEvent(ctx context.Context, index int, outcome attemptOutcome) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	attrs := []attribute.KeyValue{attribute.Int("attempt.index", index)}
	if outcome.err != nil {
		attrs = append(attrs, attribute.String("error", outcome.err.Error()))
	} else {
		attrs = append(attrs, attribute.Int("http.response.status_code", outcome.resp.StatusCode))
	}
	span.AddEvent("attempt", trace.WithAttributes(attrs...))
}

func (t *Transport) endSpan(span trace.Span, resp *Response, err error) {
	if err != nil {
		span.RecordError(err)
		var tErr *TransportError
		if errors.As(err, &tErr) {
			span.SetAttributes(attribute.Int("cognee.attempts", tErr.Attempts))
		}
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(
		attribute.Int("http.response.status_code", resp.StatusCode),
		attribute.Int("cognee.attempts", resp.Request.Attempts),
	)
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, "")
		return
	}
	span.SetStatus(codes.Ok, "")
}
