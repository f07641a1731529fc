package otel_test

import (
	"context"
	"testing"

	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/petal-labs/petalskill"
	skillotel "github.com/petal-labs/petalskill/otel"
)

// newTestMeter returns a meter backed by a manual reader for collecting
// metrics in tests.
func newTestMeter() (*metric.ManualReader, *metric.MeterProvider) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	return reader, mp
}

// newTestTracer returns a tracer backed by an in-memory span exporter.
func newTestTracer() (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	return exporter, tp
}

// collectMetrics reads all metrics from the reader.
func collectMetrics(t *testing.T, reader *metric.ManualReader) *metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return &rm
}

// findMetric searches for a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

func TestSkillObserverRecordsMetrics(t *testing.T) {
	reader, mp := newTestMeter()
	meter := mp.Meter("test-skill-observer")
	tracer := noop.NewTracerProvider().Tracer("test-skill-observer")

	observer, err := skillotel.NewSkillObserver(meter, tracer)
	if err != nil {
		t.Fatalf("NewSkillObserver() error = %v", err)
	}

	observer.ObserveInvoke(petalskill.InvokeObservation{
		Skill:        "demo",
		Tool:         "greet",
		InvocationID: "inv-1",
		Success:      true,
		DurationMS:   12,
	})
	observer.ObserveInvoke(petalskill.InvokeObservation{
		Skill:        "demo",
		Tool:         "calculate",
		InvocationID: "inv-2",
		Success:      false,
		ErrorMessage: "Division by zero",
		DurationMS:   3,
	})

	rm := collectMetrics(t, reader)

	invocations := findMetric(rm, "petalskill.invocations")
	if invocations == nil {
		t.Fatal("petalskill.invocations metric not found")
	}
	sum, ok := invocations.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("petalskill.invocations type = %T, want Sum[int64]", invocations.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 2 {
		t.Fatalf("expected 2 invocations, got %d", total)
	}

	failures := findMetric(rm, "petalskill.invocation.failures")
	if failures == nil {
		t.Fatal("petalskill.invocation.failures metric not found")
	}
	failSum, ok := failures.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("petalskill.invocation.failures type = %T, want Sum[int64]", failures.Data)
	}
	var failed int64
	for _, dp := range failSum.DataPoints {
		failed += dp.Value
	}
	if failed != 1 {
		t.Fatalf("expected 1 failure, got %d", failed)
	}

	latency := findMetric(rm, "petalskill.invocation.latency")
	if latency == nil {
		t.Fatal("petalskill.invocation.latency metric not found")
	}
	if _, ok := latency.Data.(metricdata.Histogram[float64]); !ok {
		t.Fatalf("petalskill.invocation.latency type = %T, want Histogram[float64]", latency.Data)
	}
}

func TestSkillObserverRecordsSpans(t *testing.T) {
	_, mp := newTestMeter()
	meter := mp.Meter("test-skill-observer")
	exporter, tp := newTestTracer()
	tracer := tp.Tracer("test-skill-observer")

	observer, err := skillotel.NewSkillObserver(meter, tracer)
	if err != nil {
		t.Fatalf("NewSkillObserver() error = %v", err)
	}

	observer.ObserveInvoke(petalskill.InvokeObservation{
		Skill:        "demo",
		Tool:         "process_list",
		InvocationID: "inv-span",
		Success:      false,
		ErrorMessage: "Input must be a JSON array",
		DurationMS:   8,
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	span := spans[0]
	if span.Name != "skill.invoke" {
		t.Errorf("expected span name 'skill.invoke', got %q", span.Name)
	}
	if span.Status.Code != otelcodes.Error {
		t.Errorf("expected error status, got %v", span.Status.Code)
	}

	foundTool := false
	foundID := false
	for _, attr := range span.Attributes {
		if string(attr.Key) == "tool" && attr.Value.AsString() == "process_list" {
			foundTool = true
		}
		if string(attr.Key) == "invocation_id" && attr.Value.AsString() == "inv-span" {
			foundID = true
		}
	}
	if !foundTool {
		t.Error("expected tool attribute on invoke span")
	}
	if !foundID {
		t.Error("expected invocation_id attribute on invoke span")
	}
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := skillotel.InitTracing(context.Background(), skillotel.TracingConfig{})
	if err != nil {
		t.Fatalf("InitTracing() error = %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected a shutdown func even when disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
