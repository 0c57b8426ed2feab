package server

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"time"

	"github.com/bionicotaku/lingo-services-person/internal/controllers"
	loader "github.com/bionicotaku/lingo-services-person/internal/infrastructure/config_loader"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	kmetrics "github.com/go-kratos/kratos/v2/middleware/metrics"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/middleware/tracing"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readinessTimeout = 2 * time.Second

// ReadinessChecker 报告存储是否可达。
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// NewHTTPServer 构造 HTTP server：中间件链、运维端点与 /persons 路由。
func NewHTTPServer(
	c *loader.Server,
	obs *loader.Observability,
	tel *Telemetry,
	ready ReadinessChecker,
	persons *controllers.PersonHandler,
	logger log.Logger,
) *http.Server {
	if c == nil {
		c = &loader.Server{}
	}
	if obs == nil {
		obs = &loader.Observability{}
	}

	mws := []middleware.Middleware{
		recovery.Recovery(),
		tracing.Server(),
		logging.Server(logger),
	}
	if obs.Metrics.Enabled && tel != nil {
		mws = append(mws, kmetrics.Server(
			kmetrics.WithRequests(tel.RequestCounter),
			kmetrics.WithSeconds(tel.SecondsHistogram),
		))
	}

	opts := []http.ServerOption{
		http.Middleware(mws...),
		http.Filter(trailingSlashFilter, requestIDFilter),
	}
	if c.HTTP.Network != "" {
		opts = append(opts, http.Network(c.HTTP.Network))
	}
	if c.HTTP.Addr != "" {
		opts = append(opts, http.Address(c.HTTP.Addr))
	}
	if d := c.HTTP.Timeout.AsDuration(); d > 0 {
		opts = append(opts, http.Timeout(d))
	}

	srv := http.NewServer(opts...)

	srv.Handle("/healthz", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
	}))
	srv.Handle("/readyz", readyHandler(ready, logger))

	if obs.Metrics.Enabled && tel != nil && obs.Metrics.Path != "" {
		srv.Handle(obs.Metrics.Path, promhttp.HandlerFor(tel.PrometheusRegistry, promhttp.HandlerOpts{}))
	}

	persons.RegisterRoutes(srv)
	return srv
}

func readyHandler(ready ReadinessChecker, logger log.Logger) stdhttp.Handler {
	helper := log.NewHelper(log.With(logger, "module", "server.readyz"))
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		if ready == nil {
			w.WriteHeader(stdhttp.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := ready.Ping(ctx); err != nil {
			helper.WithContext(ctx).Warnf("readiness check failed: %v", err)
			w.WriteHeader(stdhttp.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
		w.WriteHeader(stdhttp.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
}
