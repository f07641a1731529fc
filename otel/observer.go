// Package otel provides OpenTelemetry integration for skill invocations:
// an observer that records counters, latency, and spans per invocation, and
// an optional OTLP trace exporter setup.
package otel

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/petalskill"
)

// SkillObserver records skill invocation signals into OpenTelemetry. It
// implements petalskill.Observer and is installed process-wide with
// petalskill.SetObserver.
type SkillObserver struct {
	tracer trace.Tracer

	invocations metric.Int64Counter
	failures    metric.Int64Counter
	latency     metric.Float64Histogram
}

// NewSkillObserver creates a skill observer bound to the provided meter and
// tracer. A nil tracer disables spans while keeping metrics.
func NewSkillObserver(meter metric.Meter, tracer trace.Tracer) (*SkillObserver, error) {
	invocations, err := meter.Int64Counter(
		"petalskill.invocations",
		metric.WithDescription("Number of skill tool invocations"),
	)
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter(
		"petalskill.invocation.failures",
		metric.WithDescription("Number of failed skill tool invocations"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"petalskill.invocation.latency",
		metric.WithDescription("Skill tool invocation latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &SkillObserver{
		tracer:      tracer,
		invocations: invocations,
		failures:    failures,
		latency:     latency,
	}, nil
}

// ObserveInvoke records one invocation outcome.
func (o *SkillObserver) ObserveInvoke(observation petalskill.InvokeObservation) {
	if o == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("skill", observation.Skill),
		attribute.String("tool", observation.Tool),
		attribute.Bool("success", observation.Success),
	}

	ctx := context.Background()
	options := metric.WithAttributes(attrs...)
	o.invocations.Add(ctx, 1, options)
	if !observation.Success {
		o.failures.Add(ctx, 1, options)
	}
	o.latency.Record(ctx, float64(time.Duration(observation.DurationMS)*time.Millisecond)/float64(time.Second), options)

	if o.tracer == nil {
		return
	}
	spanAttrs := append(attrs,
		attribute.String("invocation_id", observation.InvocationID),
	)
	_, span := o.tracer.Start(ctx, "skill.invoke", trace.WithAttributes(spanAttrs...))
	if observation.Success {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, observation.ErrorMessage)
		span.RecordError(errors.New(observation.ErrorMessage))
	}
	span.End()
}
