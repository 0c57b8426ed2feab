package server

import (
	"context"
	"time"

	loader "github.com/bionicotaku/lingo-services-person/internal/infrastructure/config_loader"

	"github.com/go-kratos/kratos/v2/log"
	kmetrics "github.com/go-kratos/kratos/v2/middleware/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexp "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Telemetry bundles the shared metric instruments and registry.
type Telemetry struct {
	MeterProvider      *sdkmetric.MeterProvider
	TracerProvider     *sdktrace.TracerProvider
	RequestCounter     metric.Int64Counter
	SecondsHistogram   metric.Float64Histogram
	PrometheusRegistry *prometheus.Registry
}

// newTraceExporter builds the span exporter used when tracing is enabled.
var newTraceExporter = func() (sdktrace.SpanExporter, error) {
	return stdouttrace.New()
}

// NewTelemetry prepares OpenTelemetry metrics instruments backed by a Prometheus exporter,
// and installs a tracer provider when tracing is enabled.
func NewTelemetry(meta loader.ServiceMetadata, c *loader.Observability, logger log.Logger) (*Telemetry, func(), error) {
	helper := log.NewHelper(log.With(logger, "module", "server.telemetry"))
	if c == nil {
		c = &loader.Observability{}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	exporter, err := promexp.New(promexp.WithRegisterer(registry))
	if err != nil {
		return nil, nil, err
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", meta.Name),
		attribute.String("service.version", meta.Version),
		attribute.String("deployment.environment", meta.Environment),
		attribute.String("service.instance.id", meta.InstanceID),
	)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
		sdkmetric.WithView(kmetrics.DefaultSecondsHistogramView(kmetrics.DefaultServerSecondsHistogramName)),
	)
	shutdownMeter := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mp.Shutdown(ctx); err != nil {
			helper.Warnf("shutdown meter provider: %v", err)
		}
	}

	meter := mp.Meter(meta.Name)
	requestCounter, err := kmetrics.DefaultRequestsCounter(meter, kmetrics.DefaultServerRequestsCounterName)
	if err != nil {
		shutdownMeter()
		return nil, nil, err
	}
	secondsHistogram, err := kmetrics.DefaultSecondsHistogram(meter, kmetrics.DefaultServerSecondsHistogramName)
	if err != nil {
		shutdownMeter()
		return nil, nil, err
	}

	tel := &Telemetry{
		MeterProvider:      mp,
		RequestCounter:     requestCounter,
		SecondsHistogram:   secondsHistogram,
		PrometheusRegistry: registry,
	}

	if c.Tracing.Enabled {
		traceExporter, err := newTraceExporter()
		if err != nil {
			shutdownMeter()
			return nil, nil, err
		}
		tel.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.Tracing.SamplingRatio))),
			sdktrace.WithBatcher(traceExporter),
		)
		otel.SetTracerProvider(tel.TracerProvider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	}

	// 全部构造成功后才替换全局 MeterProvider
	otel.SetMeterProvider(mp)

	cleanup := func() {
		if tel.TracerProvider != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tel.TracerProvider.Shutdown(ctx); err != nil {
				helper.Warnf("shutdown tracer provider: %v", err)
			}
		}
		shutdownMeter()
	}
	return tel, cleanup, nil
}
