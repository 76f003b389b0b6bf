package grpc

import (
	"context"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/turtacn/pslrisk/pkg/logger"
)

// ServiceName is the health-checked service name of the risk API.
const ServiceName = "pslrisk.RiskService"

// Probe reports the readiness of the dependencies, keyed by name. A value other than "ok" is a failure.
type Probe func(ctx context.Context) map[string]string

// HealthServer serves grpc.health.v1 and keeps its status in step with a dependency probe.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	probe    Probe
	interval time.Duration
	log      logger.Logger

	mu       sync.Mutex
	lastGood *bool
}

// NewHealthServer creates the gRPC server with the health service registered.
// The status starts as NOT_SERVING until the first probe runs.
func NewHealthServer(probe Probe, interval time.Duration, log logger.Logger) *HealthServer {
	chain := NewInterceptorChain(log)
	srv := grpc.NewServer(chain.ChainUnaryInterceptors())
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &HealthServer{
		server:   srv,
		health:   hs,
		probe:    probe,
		interval: interval,
		log:      log.WithComponent("GRPCHealth"),
	}
}

// Health returns the underlying health service.
func (s *HealthServer) Health() healthpb.HealthServer {
	return s.health
}

// Refresh runs the probe once and publishes the resulting status.
func (s *HealthServer) Refresh(ctx context.Context) bool {
	good := true
	if s.probe != nil {
		for name, result := range s.probe(ctx) {
			if result != "ok" {
				good = false
				s.log.Warn(ctx, "Dependency unhealthy", logger.String("dependency", name), logger.String("status", result))
			}
		}
	}

	servingStatus := healthpb.HealthCheckResponse_SERVING
	if !good {
		servingStatus = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", servingStatus)
	s.health.SetServingStatus(ServiceName, servingStatus)

	s.mu.Lock()
	changed := s.lastGood == nil || *s.lastGood != good
	s.lastGood = &good
	s.mu.Unlock()
	if changed {
		s.log.Info(ctx, "gRPC health status changed", logger.String("status", servingStatus.String()))
	}
	return good
}

// Serve refreshes the status on every interval and serves on lis until ctx is cancelled.
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	s.Refresh(ctx)
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Refresh(ctx)
			}
		}
	}()

	s.log.Info(ctx, "Starting gRPC server", logger.String("address", lis.Addr().String()))
	return s.server.Serve(lis)
}

// Stop marks the service as not serving and stops the server gracefully.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
