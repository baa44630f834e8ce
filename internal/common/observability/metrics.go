package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability aggregates OpenTelemetry instruments for the submission
// pipeline. The Prometheus exporter feeds the same registry promhttp serves.
type Observability struct {
	meterProvider    *metric.MeterProvider
	meter            otelmetric.Meter
	pipelineCounter  otelmetric.Int64Counter
	pipelineDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	pipelineCounter, _ := meter.Int64Counter(
		"pipeline.items.processed",
		otelmetric.WithDescription("Number of pipeline items processed"),
	)

	pipelineDuration, _ := meter.Float64Histogram(
		"pipeline.items.duration",
		otelmetric.WithDescription("Pipeline item processing duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:    provider,
		meter:            meter,
		pipelineCounter:  pipelineCounter,
		pipelineDuration: pipelineDuration,
	}
}

// RecordItemProcessed counts one pipeline item by stage and status.
func (o *Observability) RecordItemProcessed(ctx context.Context, stage, status string) {
	if o.pipelineCounter != nil {
		o.pipelineCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("status", status),
		))
	}
}

// RecordItemDuration records how long a pipeline stage took for one item.
func (o *Observability) RecordItemDuration(ctx context.Context, stage string, duration time.Duration, status string) {
	if o.pipelineDuration != nil {
		o.pipelineDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
