package logger

import (
	"context"
	"io"
	"os"

	loader "github.com/bionicotaku/lingo-services-person/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-person/internal/metadata"

	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/trace"
)

// Config captures runtime metadata used to annotate logs.
type Config struct {
	Service string
	Version string
	HostID  string
	Env     string
	Level   string
}

// NewConfig merges service metadata with the configured log level.
func NewConfig(meta loader.ServiceMetadata, lc *loader.Log) Config {
	cfg := Config{
		Service: meta.Name,
		Version: meta.Version,
		HostID:  meta.InstanceID,
		Env:     meta.Environment,
	}
	if lc != nil {
		cfg.Level = lc.Level
	}
	return cfg
}

// NewLogger builds a Kratos std logger on stdout with trace/span/request enrichment.
func NewLogger(cfg Config) log.Logger {
	return New(os.Stdout, cfg)
}

// New builds the logger on an arbitrary writer.
func New(w io.Writer, cfg Config) log.Logger {
	filtered := log.NewFilter(log.NewStdLogger(w), log.FilterLevel(log.ParseLevel(cfg.Level)))
	return log.With(
		filtered,
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.name", cfg.Service,
		"service.version", cfg.Version,
		"service.id", cfg.HostID,
		"env", cfg.Env,
		"trace_id", log.Valuer(func(ctx context.Context) interface{} {
			sc := trace.SpanContextFromContext(ctx)
			if sc.HasTraceID() {
				return sc.TraceID().String()
			}
			return ""
		}),
		"span_id", log.Valuer(func(ctx context.Context) interface{} {
			sc := trace.SpanContextFromContext(ctx)
			if sc.HasSpanID() {
				return sc.SpanID().String()
			}
			return ""
		}),
		"request_id", metadata.RequestID(),
	)
}
