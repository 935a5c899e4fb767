package telemetry

import (
	"context"
	"sync"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// recordingExporter keeps every exported span, including after Shutdown.
type recordingExporter struct {
	mu    sync.Mutex
	spans []sdktrace.ReadOnlySpan
}

func (e *recordingExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, spans...)
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error { return nil }

func (e *recordingExporter) GetSpans() []sdktrace.ReadOnlySpan {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.spans
}

func TestSetupExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	exporter := &recordingExporter{}
	ctx := context.Background()
	shutdown, err := Setup(ctx, Config{SampleRatio: 1, Exporter: exporter})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	_, span := Tracer("game").Start(ctx, "game.tick")
	span.SetAttributes(attribute.Int("rays", 80))
	span.End()

	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown() error = %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	got := spans[0]
	if got.Name() != "game.tick" {
		t.Errorf("span name = %q, want game.tick", got.Name())
	}
	if got.InstrumentationScope().Name != "tilecaster/game" {
		t.Errorf("scope = %q, want tilecaster/game", got.InstrumentationScope().Name)
	}
	if v, ok := got.Resource().Set().Value("service.name"); !ok || v.AsString() != serviceName {
		t.Errorf("service.name = %v, want %q", v.AsString(), serviceName)
	}
}

func TestSetupSamplesNothingAtZero(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	exporter := &recordingExporter{}
	ctx := context.Background()
	shutdown, err := Setup(ctx, Config{SampleRatio: 0, Exporter: exporter})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	for range 10 {
		_, span := Tracer("game").Start(ctx, "game.tick")
		span.End()
	}
	shutdown(ctx)

	if n := len(exporter.GetSpans()); n != 0 {
		t.Errorf("exported %d spans at ratio 0, want 0", n)
	}
}

func TestNoopTracer(t *testing.T) {
	_, span := NoopTracer().Start(context.Background(), "x")
	if span.SpanContext().IsValid() {
		t.Error("noop span has a valid span context")
	}
	span.End()
}
