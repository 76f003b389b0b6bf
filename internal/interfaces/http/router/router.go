// Package router wires the gin engine, middleware and handlers of the HTTP API.
package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/pslrisk/internal/application/dto"
	"github.com/turtacn/pslrisk/internal/config"
	"github.com/turtacn/pslrisk/internal/interfaces/http/handlers"
	"github.com/turtacn/pslrisk/internal/interfaces/http/middleware"
	svcerrors "github.com/turtacn/pslrisk/pkg/errors"
	"github.com/turtacn/pslrisk/pkg/logger"
)

// Options carries the collaborators of the router.
type Options struct {
	RiskHandler    *handlers.RiskHandler
	HealthHandler  *handlers.HealthHandler
	Tracer         trace.Tracer
	Metrics        middleware.HTTPMetrics
	MetricsHandler http.Handler
}

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
	config *config.Config
	logger logger.Logger
	opts   Options
	server *http.Server
}

// NewRouter 创建路由器
func NewRouter(cfg *config.Config, log logger.Logger, opts Options) *Router {
	if cfg.Server.Mode == gin.ReleaseMode || cfg.Server.Mode == gin.TestMode || cfg.Server.Mode == gin.DebugMode {
		gin.SetMode(cfg.Server.Mode)
	}
	r := &Router{
		engine: gin.New(),
		config: cfg,
		logger: log.WithComponent("HTTPRouter"),
		opts:   opts,
	}
	r.setupRoutes()
	r.server = &http.Server{
		Addr:           cfg.Server.Addr(),
		Handler:        r.engine,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
	return r
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 全局中间件
	r.engine.Use(middleware.RequestID())
	if r.opts.Tracer != nil {
		r.engine.Use(middleware.ObservabilityMiddleware(r.opts.Tracer, r.opts.Metrics))
	}
	r.engine.Use(middleware.RequestLogger(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))

	origins := r.config.Server.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.engine.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "traceparent"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: !containsWildcard(origins),
		MaxAge:           12 * time.Hour,
	}))

	// 健康检查路由
	if h := r.opts.HealthHandler; h != nil {
		r.engine.GET("/health/live", h.LivenessCheck)
		r.engine.GET("/health/ready", h.ReadinessCheck)
	}

	if r.opts.MetricsHandler != nil {
		path := r.config.Monitoring.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(r.opts.MetricsHandler))
	}

	// Pprof 性能分析（仅在非生产环境）
	if r.config.Server.EnablePprof {
		pprof.Register(r.engine)
	}

	if h := r.opts.RiskHandler; h != nil {
		risk := r.engine.Group("/api/v1/risk")
		{
			risk.GET("/factors", h.FactorsConfig)
			risk.GET("/model", h.ModelInfo)

			tenant := risk.Group("/:tenant_id")
			tenant.POST("/calculate", h.Calculate)
			tenant.POST("/recalculate", h.Recalculate)
			tenant.GET("/summary", h.Summary)
			tenant.GET("/history", h.History)
			tenant.DELETE("/cache", h.ClearCache)
			tenant.GET("/alerts", h.ListAlerts)
			tenant.POST("/alerts/:alert_id/acknowledge", h.AcknowledgeAlert)
			tenant.POST("/alerts/:alert_id/resolve", h.ResolveAlert)
		}
	}

	// 404 处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse(
			svcerrors.ErrNotFound("No route for "+c.Request.Method+" "+c.Request.URL.Path),
			c.GetString(middleware.ContextKeyTraceID)))
	})
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// Start 启动 HTTP 服务器，阻塞直到服务器关闭
func (r *Router) Start() error {
	r.logger.Info(context.Background(), "Starting HTTP server", logger.String("address", r.server.Addr))
	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 停止 HTTP 服务器
func (r *Router) Stop(ctx context.Context) error {
	r.logger.Info(ctx, "Stopping HTTP server...")
	return r.server.Shutdown(ctx)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

//Personal.AI order the ending
