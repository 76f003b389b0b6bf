// Package serverlite assembles the risk API over in-memory stores for end-to-end tests and local demos.
package serverlite

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace/noop"

	appservice "github.com/turtacn/pslrisk/internal/application/service"
	"github.com/turtacn/pslrisk/internal/config"
	domainservice "github.com/turtacn/pslrisk/internal/domain/service"
	"github.com/turtacn/pslrisk/internal/infrastructure/monitoring"
	"github.com/turtacn/pslrisk/internal/infrastructure/persistence/memory"
	"github.com/turtacn/pslrisk/internal/interfaces/http/handlers"
	"github.com/turtacn/pslrisk/internal/interfaces/http/router"
	"github.com/turtacn/pslrisk/pkg/constants"
	"github.com/turtacn/pslrisk/pkg/logger"
)

// Options tunes the lite server. Zero values select production defaults.
type Options struct {
	Clock          domainservice.Clock
	Service        appservice.RiskScoreAppServiceConfig
	Logger         logger.Logger
	DisableMetrics bool
}

// Server is a lightweight, in-memory risk server.
type Server struct {
	HttpServer *http.Server
	Activity   *memory.ActivityStore
	Registry   *prometheus.Registry
	Metrics    *monitoring.Metrics

	service appservice.RiskScoreAppService
	router  *router.Router
}

// NewServer wires the full HTTP surface over memory repositories and listens on addr once started.
func NewServer(addr string, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	if opts.Clock == nil {
		opts.Clock = domainservice.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoopLogger()
	}
	if opts.Service == (appservice.RiskScoreAppServiceConfig{}) {
		opts.Service = appservice.DefaultRiskScoreAppServiceConfig()
	}

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetricsWithRegisterer(reg)
	activity := memory.NewActivityStore()

	svc := appservice.NewRiskScoreAppService(opts.Service, appservice.RiskScoreAppServiceDeps{
		Cache:   memory.NewScoreCache(constants.DefaultScoreCacheTTL, constants.DefaultCacheCleanupInterval),
		History: memory.NewHistoryRepository(),
		Alerts:  memory.NewAlertRepository(),
		Loader:  appservice.NewActivityLoader(activity, opts.Clock),
		Metrics: metrics,
		Clock:   opts.Clock,
		Logger:  opts.Logger,
	})

	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.ReleaseMode}}
	routerOpts := router.Options{
		RiskHandler:   handlers.NewRiskHandler(svc, opts.Logger),
		HealthHandler: handlers.NewHealthHandler(nil, opts.Logger),
		Tracer:        noop.NewTracerProvider().Tracer("serverlite"),
		Metrics:       metrics,
	}
	if !opts.DisableMetrics {
		routerOpts.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	r := router.NewRouter(cfg, opts.Logger, routerOpts)

	return &Server{
		HttpServer: &http.Server{Addr: addr, Handler: r.Engine()},
		Activity:   activity,
		Registry:   reg,
		Metrics:    metrics,
		service:    svc,
		router:     r,
	}
}

// Handler exposes the routed engine for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.HttpServer.Handler
}

// Service returns the application service behind the routes.
func (s *Server) Service() appservice.RiskScoreAppService {
	return s.service
}

// Start runs the server in a goroutine.
func (s *Server) Start() {
	go func() {
		if err := s.HttpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.HttpServer.Shutdown(ctx)
}
