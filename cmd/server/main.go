package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	appservice "github.com/turtacn/pslrisk/internal/application/service"
	"github.com/turtacn/pslrisk/internal/config"
	"github.com/turtacn/pslrisk/internal/infrastructure/monitoring"
	grpcserver "github.com/turtacn/pslrisk/internal/interfaces/grpc"
	"github.com/turtacn/pslrisk/internal/interfaces/http/handlers"
	"github.com/turtacn/pslrisk/internal/interfaces/http/router"
	"github.com/turtacn/pslrisk/pkg/logger"
)

func main() {
	configFile := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// Logger for startup
	startupLogger, err := monitoring.NewZapLogger(&config.LogConfig{Level: "info", Format: "json"})
	if err != nil {
		log.Fatalf("Failed to create startup logger: %v", err)
	}

	loader := config.NewLoader(*configFile, startupLogger)
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	loader.Watch(func(next *config.Config) {
		appLogger.SetLevel(next.Log.Level)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal(context.Background(), "Server exited with error", err)
	}
	appLogger.Info(context.Background(), "Server stopped")
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracing.Shutdown(shutdownCtx)
	}()

	if err := resolveSecrets(ctx, cfg, tracing, log); err != nil {
		return err
	}

	stack, err := buildStack(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stack.Close()

	metrics := monitoring.NewMetrics()
	svc := appservice.NewRiskScoreAppService(appservice.RiskScoreAppServiceConfig{
		CacheTTL:         cfg.Cache.TTL,
		HistoryLimit:     cfg.Scoring.HistoryLimit,
		StrictValidation: cfg.Scoring.StrictValidation,
		AlertsEnabled:    cfg.Scoring.AlertsEnabled,
		SpikeThreshold:   cfg.Scoring.SpikeThreshold,
	}, appservice.RiskScoreAppServiceDeps{
		Cache:     stack.Cache,
		History:   stack.History,
		Alerts:    stack.Alerts,
		Loader:    appservice.NewActivityLoader(stack.Activity, nil),
		Publisher: stack.Publisher,
		Metrics:   metrics,
		Logger:    log,
	})

	health := handlers.NewHealthHandler(stack.Checks, log)
	opts := router.Options{
		RiskHandler:   handlers.NewRiskHandler(svc, log),
		HealthHandler: health,
		Tracer:        tracing.Tracer(),
		Metrics:       metrics,
	}
	if cfg.Monitoring.MetricsEnabled {
		opts.MetricsHandler = promhttp.Handler()
	}
	httpServer := router.NewRouter(cfg, log, opts)
	grpcHealth := grpcserver.NewHealthServer(health.Run, 10*time.Second, log)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr())
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpServer.Start)
	g.Go(func() error {
		if err := grpcHealth.Serve(gctx, lis); err != nil && !errors.Is(err, net.ErrClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "Shutting down servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		grpcHealth.Stop()
		return httpServer.Stop(shutdownCtx)
	})
	return g.Wait()
}

//Personal.AI order the ending
