package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"student-enrollment/internal/common/logger"
)

// Observability owns the otel meter and tracer providers.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerShutdown func(context.Context) error
	tracer         trace.Tracer
	log            logger.Logger

	verifications  otelmetric.Int64Counter
	submissions    otelmetric.Int64Counter
	submitDuration otelmetric.Float64Histogram
	referenceLoads otelmetric.Int64Counter
}

// New registers an otel prometheus exporter and, when tracing is
// configured, a Jaeger span exporter. Failures degrade to no-op instruments.
func New(serviceName string, tracing TracingOptions, log logger.Logger) *Observability {
	o := &Observability{
		tracer: noop.NewTracerProvider().Tracer(serviceName),
		log:    log,
	}

	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err.Error()})
	} else {
		o.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter))
		otel.SetMeterProvider(o.meterProvider)
		o.initInstruments(o.meterProvider.Meter(serviceName))
	}

	if tracing.Enabled {
		tp, err := newTracerProvider(serviceName, tracing)
		if err != nil {
			log.Warn("Failed to create Jaeger exporter", map[string]interface{}{"error": err.Error()})
		} else {
			otel.SetTracerProvider(tp)
			o.tracer = tp.Tracer(serviceName)
			o.tracerShutdown = tp.Shutdown
		}
	}

	return o
}

// NewNoop returns an Observability that records nothing.
func NewNoop() *Observability {
	return &Observability{
		tracer: noop.NewTracerProvider().Tracer("noop"),
		log:    logger.NewNoOpLogger(),
	}
}

func (o *Observability) initInstruments(meter otelmetric.Meter) {
	o.verifications, _ = meter.Int64Counter(
		"enrollment.verifications",
		otelmetric.WithDescription("Student ID verifications by outcome"),
	)
	o.submissions, _ = meter.Int64Counter(
		"enrollment.submissions",
		otelmetric.WithDescription("Enrollment submissions by outcome"),
	)
	o.submitDuration, _ = meter.Float64Histogram(
		"enrollment.submit.duration",
		otelmetric.WithDescription("Time from submit to store acknowledgement"),
		otelmetric.WithUnit("ms"),
	)
	o.referenceLoads, _ = meter.Int64Counter(
		"enrollment.reference_loads",
		otelmetric.WithDescription("College list loads by status"),
	)
}

// Tracer returns the active tracer; a no-op tracer when tracing is off.
func (o *Observability) Tracer() trace.Tracer {
	return o.tracer
}

func (o *Observability) RecordVerification(ctx context.Context, outcome string) {
	if o.verifications != nil {
		o.verifications.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) RecordSubmission(ctx context.Context, outcome string, duration time.Duration) {
	if o.submissions != nil {
		o.submissions.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
	if o.submitDuration != nil {
		o.submitDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) RecordReferenceLoad(ctx context.Context, status string) {
	if o.referenceLoads != nil {
		o.referenceLoads.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if o.meterProvider != nil {
		if err := o.meterProvider.Shutdown(ctx); err != nil {
			o.log.Warn("Meter provider shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}
	if o.tracerShutdown != nil {
		if err := o.tracerShutdown(ctx); err != nil {
			o.log.Warn("Tracer provider shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
