package llm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/abhisek/storyling/internal/llm"

// TracingProvider opens one span per Generate call.
type TracingProvider struct {
	inner    Provider
	provider string
	tracer   trace.Tracer
}

// WithTracing wraps a Provider with OpenTelemetry spans. A nil tp uses the
// global tracer provider, which is a no-op unless telemetry is enabled.
func WithTracing(p Provider, provider string, tp trace.TracerProvider) Provider {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &TracingProvider{inner: p, provider: provider, tracer: tp.Tracer(tracerName)}
}

func (t *TracingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, span := t.tracer.Start(ctx, "llm.generate", trace.WithAttributes(
		attribute.String("llm.provider", t.provider),
		attribute.String("llm.model", t.inner.ModelID()),
		attribute.String("llm.purpose", PurposeFrom(ctx)),
		attribute.Int("llm.max_tokens", req.MaxTokens),
	))
	defer span.End()

	if id := SessionFrom(ctx); id != "" {
		span.SetAttributes(attribute.String("storyling.session_id", id))
	}
	if req.Schema != nil {
		span.SetAttributes(attribute.String("llm.schema", req.Schema.Name))
	}

	resp, err := t.inner.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("llm.error_kind", ErrorKind(err)))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("llm.usage.input_tokens", resp.Usage.InputTokens),
		attribute.Int("llm.usage.output_tokens", resp.Usage.OutputTokens),
		attribute.String("llm.stop_reason", resp.StopReason),
	)
	return resp, nil
}

func (t *TracingProvider) ModelID() string {
	return t.inner.ModelID()
}
