package server_test

import (
	"errors"
	"io"
	"testing"

	loader "github.com/bionicotaku/lingo-services-person/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-person/internal/server"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewTelemetryWithTracing(t *testing.T) {
	obs := &loader.Observability{Tracing: loader.Tracing{Enabled: true, SamplingRatio: 1}}
	tel, cleanup, err := server.NewTelemetry(loader.ServiceMetadata{Name: "person-test"}, obs, log.NewStdLogger(io.Discard))
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)
	require.NotNil(t, tel.MeterProvider)
	cleanup()
}

func TestNewTelemetryTraceExporterFailure(t *testing.T) {
	restore := server.SetTraceExporterFactory(func() (sdktrace.SpanExporter, error) {
		return nil, errors.New("exporter unavailable")
	})
	t.Cleanup(restore)

	before := otel.GetMeterProvider()
	obs := &loader.Observability{Tracing: loader.Tracing{Enabled: true, SamplingRatio: 1}}
	tel, cleanup, err := server.NewTelemetry(loader.ServiceMetadata{Name: "person-test"}, obs, log.NewStdLogger(io.Discard))
	require.EqualError(t, err, "exporter unavailable")
	require.Nil(t, tel)
	require.Nil(t, cleanup)
	require.Equal(t, before, otel.GetMeterProvider())
}
