package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Operation outcome labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// payloadBuckets are histogram boundaries in bytes, from 1 KiB to 64 MiB.
var payloadBuckets = []float64{1024, 16384, 262144, 1048576, 4194304, 16777216, 67108864}

// BusinessMetrics records use case outcomes.
// Domains are "auth", "pki" and "sharing"; operations are snake_case verbs
// such as "certificate_issue" or "file_upload".
type BusinessMetrics interface {
	// RecordOperation counts one operation with its status.
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records how long an operation took, in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

// PayloadMetrics is implemented by backends that also track plaintext payload sizes
// of encrypted files and messages.
type PayloadMetrics interface {
	RecordPayloadSize(ctx context.Context, domain, operation string, size int64)
}

// Observe records the count and duration of an operation that began at start.
func Observe(ctx context.Context, m BusinessMetrics, domain, operation string, start time.Time, failed bool) {
	status := StatusSuccess
	if failed {
		status = StatusError
	}
	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}

// ObservePayload records size when m supports PayloadMetrics and does nothing otherwise.
func ObservePayload(ctx context.Context, m BusinessMetrics, domain, operation string, size int) {
	if pm, ok := m.(PayloadMetrics); ok {
		pm.RecordPayloadSize(ctx, domain, operation, int64(size))
	}
}

// businessMetrics implements BusinessMetrics and PayloadMetrics with OpenTelemetry instruments.
type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	payloadHisto     metric.Int64Histogram
}

// NewBusinessMetrics creates the operation counter and the duration and payload
// histograms, named with the namespace prefix (e.g. "securevault_operations_total").
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of business operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of business operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	payloadHisto, err := meter.Int64Histogram(
		fmt.Sprintf("%s_payload_size_bytes", namespace),
		metric.WithDescription("Plaintext size of encrypted files and messages"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(payloadBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payload histogram: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		payloadHisto:     payloadHisto,
	}, nil
}

func operationAttributes(domain, operation string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("domain", domain),
		attribute.String("operation", operation),
	}
}

// RecordOperation increments the operation counter.
func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	attrs := append(operationAttributes(domain, operation), attribute.String("status", status))
	b.operationCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDuration records the operation duration in seconds.
func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	attrs := append(operationAttributes(domain, operation), attribute.String("status", status))
	b.durationHisto.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordPayloadSize records a payload size in bytes.
func (b *businessMetrics) RecordPayloadSize(ctx context.Context, domain, operation string, size int64) {
	b.payloadHisto.Record(ctx, size, metric.WithAttributes(operationAttributes(domain, operation)...))
}

// NoOpBusinessMetrics discards everything. Used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

// RecordOperation does nothing.
func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

// RecordDuration does nothing.
func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}
