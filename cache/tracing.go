package cache

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TraceConfig enables OpenTelemetry spans around loader invocations. Tracing
// is entirely optional: a nil *TraceConfig produces no spans.
type TraceConfig struct {
	// TracerProvider supplies the Tracer used to create spans. When nil the
	// global otel.GetTracerProvider() is used.
	TracerProvider trace.TracerProvider
}

// tracer returns a configured [trace.Tracer].
func (c *TraceConfig) tracer() trace.Tracer {
	tp := c.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer("github.com/karnwald/blogcache/cache")
}

// startLoad opens a span for a loader invocation. The returned end function
// records the outcome and must always be called.
func (c *TraceConfig) startLoad(ctx context.Context, name, key string) (context.Context, func(error)) {
	if c == nil {
		return ctx, func(error) {}
	}
	ctx, span := c.tracer().Start(ctx, "cache.load", trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(
		attribute.String("cache.name", name),
		attribute.String("cache.key", key),
	)
	return ctx, func(err error) {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}
