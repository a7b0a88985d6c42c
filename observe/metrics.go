package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records dispatch metrics for outbound calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordDispatch records a settled dispatch with duration and error status.
	RecordDispatch(ctx context.Context, meta CallMeta, duration time.Duration, err error)

	// RecordRetry records one retry attempt for a dispatched call.
	RecordRetry(ctx context.Context, meta CallMeta)

	// RecordFallback records one secondary-credential fallback for a call.
	RecordFallback(ctx context.Context, meta CallMeta)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter         metric.Meter
	totalCount    metric.Int64Counter
	errorCount    metric.Int64Counter
	retryCount    metric.Int64Counter
	fallbackCount metric.Int64Counter
	durationHist  metric.Float64Histogram
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"docbridge.dispatch.total",
		metric.WithDescription("Total number of dispatched calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"docbridge.dispatch.errors",
		metric.WithDescription("Total number of dispatched calls that settled with an error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"docbridge.dispatch.retries",
		metric.WithDescription("Total number of retry attempts across all calls"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	fallbackCount, err := meter.Int64Counter(
		"docbridge.dispatch.fallbacks",
		metric.WithDescription("Total number of secondary-credential fallback attempts"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"docbridge.dispatch.duration_ms",
		metric.WithDescription("End-to-end dispatch duration in milliseconds, including queueing and retries"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:         meter,
		totalCount:    totalCount,
		errorCount:    errorCount,
		retryCount:    retryCount,
		fallbackCount: fallbackCount,
		durationHist:  durationHist,
	}, nil
}

func (m *metricsImpl) attributes(meta CallMeta) metric.MeasurementOption {
	attrs := []attribute.KeyValue{
		attribute.String("call.operation", meta.Operation),
	}
	if meta.Namespace != "" {
		attrs = append(attrs, attribute.String("call.namespace", meta.Namespace))
	}
	if meta.Target != "" {
		attrs = append(attrs, attribute.String("call.target", meta.Target))
	}
	return metric.WithAttributes(attrs...)
}

// RecordDispatch records metrics for a settled dispatch.
func (m *metricsImpl) RecordDispatch(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
	opt := m.attributes(meta)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordRetry records one retry attempt.
func (m *metricsImpl) RecordRetry(ctx context.Context, meta CallMeta) {
	m.retryCount.Add(ctx, 1, m.attributes(meta))
}

// RecordFallback records one fallback attempt.
func (m *metricsImpl) RecordFallback(ctx context.Context, meta CallMeta) {
	m.fallbackCount.Add(ctx, 1, m.attributes(meta))
}

// NopMetrics returns a Metrics implementation that does nothing.
func NopMetrics() Metrics {
	return nopMetrics{}
}

type nopMetrics struct{}

func (nopMetrics) RecordDispatch(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
}
func (nopMetrics) RecordRetry(ctx context.Context, meta CallMeta)    {}
func (nopMetrics) RecordFallback(ctx context.Context, meta CallMeta) {}
