package main

import (
	"context"
	"strings"

	"github.com/turtacn/pslrisk/internal/config"
	"github.com/turtacn/pslrisk/internal/domain/repository"
	domainservice "github.com/turtacn/pslrisk/internal/domain/service"
	"github.com/turtacn/pslrisk/internal/infrastructure/events"
	"github.com/turtacn/pslrisk/internal/infrastructure/monitoring"
	"github.com/turtacn/pslrisk/internal/infrastructure/persistence/memory"
	"github.com/turtacn/pslrisk/internal/infrastructure/persistence/postgres"
	"github.com/turtacn/pslrisk/internal/infrastructure/persistence/redis"
	"github.com/turtacn/pslrisk/internal/infrastructure/secrets"
	"github.com/turtacn/pslrisk/internal/interfaces/http/handlers"
	"github.com/turtacn/pslrisk/pkg/logger"
)

// stack holds the storage and messaging backends selected by configuration.
type stack struct {
	Cache     repository.ScoreCache
	History   repository.ScoreHistoryRepository
	Alerts    repository.RiskAlertRepository
	Activity  repository.ActivityRepository
	Publisher domainservice.AlertPublisher
	Checks    map[string]handlers.DependencyCheck

	closers []func() error
}

func (s *stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

func resolveSecrets(ctx context.Context, cfg *config.Config, tracing *monitoring.TracingManager, log logger.Logger) error {
	if !cfg.Vault.Enabled {
		return nil
	}
	resolver, err := secrets.NewVaultResolver(&cfg.Vault, log)
	if err != nil {
		return err
	}
	return monitoring.TraceOperation(ctx, tracing, "vault.resolve_secrets", map[string]interface{}{
		"vault.mount": cfg.Vault.MountPath,
	}, func(ctx context.Context) error {
		return resolver.Apply(ctx, cfg)
	})
}

func buildStack(ctx context.Context, cfg *config.Config, log logger.Logger) (*stack, error) {
	s := &stack{Checks: map[string]handlers.DependencyCheck{}}

	switch strings.ToLower(cfg.Cache.Backend) {
	case "redis":
		conn, err := redis.NewRedisConnection(ctx, &cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, conn.Close)
		s.Cache = redis.NewScoreCache(conn, log)
		s.Checks["redis"] = conn.Ping
	default:
		s.Cache = memory.NewScoreCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	switch strings.ToLower(cfg.Database.Driver) {
	case "postgres", "sqlite":
		conn, err := postgres.NewDBConnection(ctx, &cfg.Database, log)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, conn.Close)
		s.History = postgres.NewScoreHistoryRepository(conn)
		s.Alerts = postgres.NewRiskAlertRepository(conn)
		s.Activity = postgres.NewActivityRepository(conn)
		s.Checks["database"] = conn.Ping
	default:
		log.Warn(ctx, "Using in-memory stores; history and alerts are lost on restart")
		s.History = memory.NewHistoryRepository()
		s.Alerts = memory.NewAlertRepository()
		s.Activity = memory.NewActivityStore()
	}

	if cfg.Kafka.Enabled {
		publisher := events.NewKafkaAlertPublisher(cfg.Kafka, log)
		s.closers = append(s.closers, publisher.Close)
		s.Publisher = publisher
	} else {
		s.Publisher = events.NoopAlertPublisher{}
	}
	return s, nil
}
