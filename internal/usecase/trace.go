package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("fpl-hub/internal/usecase")

// startUsecaseSpan only opens a child span when the caller is already
// traced, so background and test calls stay span-free.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if name == "" || !parent.SpanContext().IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// markSpanRejected records a domain rejection on the span without failing
// the trace; only unexpected errors set an error status.
func markSpanRejected(span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	if !isExpectedLeagueError(err) {
		span.SetStatus(codes.Error, err.Error())
	}
}

func leagueAttrs(leagueID, rosterID string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("league.id", leagueID)}
	if rosterID != "" {
		attrs = append(attrs, attribute.String("roster.id", rosterID))
	}
	return attrs
}
