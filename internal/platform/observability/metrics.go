package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Metrics holds the storefront instruments. Without a configured provider they are no-ops.
type Metrics struct {
	pickupChecks metric.Int64Counter
	filterRuns   metric.Int64Counter
	matched      metric.Int64Histogram
	reports      metric.Int64Counter
}

// NewMetrics registers the instruments on provider, defaulting to the global meter provider.
func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(instrumentationName)

	pickupChecks, err := meter.Int64Counter("storefront.pickup.validations",
		metric.WithDescription("Pickup slot validations by outcome"))
	if err != nil {
		return nil, fmt.Errorf("observability: pickup counter: %w", err)
	}
	filterRuns, err := meter.Int64Counter("storefront.orders.filter_runs",
		metric.WithDescription("Admin filter pipeline executions"))
	if err != nil {
		return nil, fmt.Errorf("observability: filter counter: %w", err)
	}
	matched, err := meter.Int64Histogram("storefront.orders.matched",
		metric.WithDescription("Orders returned by a filter run"))
	if err != nil {
		return nil, fmt.Errorf("observability: matched histogram: %w", err)
	}
	reports, err := meter.Int64Counter("storefront.statistics.reports",
		metric.WithDescription("Statistics reports built by range"))
	if err != nil {
		return nil, fmt.Errorf("observability: report counter: %w", err)
	}

	return &Metrics{
		pickupChecks: pickupChecks,
		filterRuns:   filterRuns,
		matched:      matched,
		reports:      reports,
	}, nil
}

// RecordPickupValidation counts one validation with its outcome code.
func (m *Metrics) RecordPickupValidation(ctx context.Context, kind, outcome string) {
	if m == nil {
		return
	}
	m.pickupChecks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}

// RecordFilterRun records the size of a filter run.
func (m *Metrics) RecordFilterRun(ctx context.Context, filters, matched int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Int("filters", filters))
	m.filterRuns.Add(ctx, 1, attrs)
	m.matched.Record(ctx, int64(matched), attrs)
}

// RecordReport counts one statistics report.
func (m *Metrics) RecordReport(ctx context.Context, rangeKey string) {
	if m == nil {
		return
	}
	m.reports.Add(ctx, 1, metric.WithAttributes(attribute.String("range", rangeKey)))
}

// StartSpan opens an internal span for engine work.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal), trace.WithAttributes(attrs...))
}
