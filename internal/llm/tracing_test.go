package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func spanAttr(span sdktrace.ReadOnlySpan, key string) attribute.Value {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

func TestTracingProvider(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"questions":[]}`), Usage: Usage{InputTokens: 7, OutputTokens: 9}},
		MockResponse{Err: errors.New("network down")},
	)
	p := WithTracing(mock, "mock", tp)

	ctx := WithSession(WithPurpose(context.Background(), "questions"), "sess-1")
	if _, err := p.Generate(ctx, Request{MaxTokens: 512, Schema: &Schema{Name: "questions", Definition: map[string]any{"type": "object"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	ok := spans[0]
	if ok.Name() != "llm.generate" {
		t.Fatalf("span name = %q", ok.Name())
	}
	if got := spanAttr(ok, "llm.purpose").AsString(); got != "questions" {
		t.Errorf("llm.purpose = %q", got)
	}
	if got := spanAttr(ok, "storyling.session_id").AsString(); got != "sess-1" {
		t.Errorf("session attr = %q", got)
	}
	if got := spanAttr(ok, "llm.schema").AsString(); got != "questions" {
		t.Errorf("llm.schema = %q", got)
	}
	if got := spanAttr(ok, "llm.usage.output_tokens").AsInt64(); got != 9 {
		t.Errorf("output tokens = %d", got)
	}

	failed := spans[1]
	if failed.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", failed.Status())
	}
	if len(failed.Events()) == 0 {
		t.Error("expected the error to be recorded as a span event")
	}
}
