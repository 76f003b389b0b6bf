// Package redis provides the Redis-backed score cache and its connection management.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/pslrisk/internal/config"
	"github.com/turtacn/pslrisk/pkg/logger"
)

// RedisConnection manages Redis client lifecycle and health monitoring.
type RedisConnection struct {
	config *config.RedisConfig
	client redis.UniversalClient
	logger logger.Logger
}

// NewRedisConnection connects to Redis and verifies the connection with a ping.
//
// Parameters:
//   - ctx: Context for the initial ping
//   - cfg: Redis configuration
//   - log: Logger instance
//
// Returns:
//   - *RedisConnection: Connected manager
//   - error: Connection establishment error if any
func NewRedisConnection(ctx context.Context, cfg *config.RedisConfig, log logger.Logger) (*RedisConnection, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config is required")
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}

	client := redis.NewClient(&redis.Options{
		Addr:            cfg.Address,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		ConnMaxIdleTime: 5 * time.Minute,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		MaxRetries:      3,
	})

	rc := &RedisConnection{config: cfg, client: client, logger: log}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Error(ctx, "Redis ping failed", err, logger.String("addr", cfg.Address))
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info(ctx, "Redis connection established successfully",
		logger.String("addr", cfg.Address),
		logger.Int("pool_size", cfg.PoolSize),
	)
	return rc, nil
}

// NewRedisConnectionFromClient wraps an existing client, e.g. one pointed at miniredis in tests.
func NewRedisConnectionFromClient(client redis.UniversalClient, log logger.Logger) *RedisConnection {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &RedisConnection{config: &config.RedisConfig{}, client: client, logger: log}
}

// GetClient returns the Redis client instance.
func (rc *RedisConnection) GetClient() redis.UniversalClient {
	return rc.client
}

// Ping checks Redis server connectivity.
func (rc *RedisConnection) Ping(ctx context.Context) error {
	if err := rc.client.Ping(ctx).Err(); err != nil {
		rc.logger.Error(ctx, "Redis ping failed", err)
		return err
	}
	return nil
}

// HealthCheck reports connectivity, latency, and pool statistics.
func (rc *RedisConnection) HealthCheck(ctx context.Context) (map[string]interface{}, error) {
	health := make(map[string]interface{})

	start := time.Now()
	err := rc.client.Ping(ctx).Err()
	health["connected"] = err == nil
	health["latency_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		health["error"] = err.Error()
		return health, err
	}

	stats := rc.client.PoolStats()
	health["total_conns"] = stats.TotalConns
	health["idle_conns"] = stats.IdleConns
	health["pool_timeouts"] = stats.Timeouts
	return health, nil
}

// Close gracefully closes Redis connection and releases resources.
func (rc *RedisConnection) Close() error {
	if err := rc.client.Close(); err != nil {
		rc.logger.Error(context.Background(), "Failed to close Redis connection", err)
		return err
	}
	rc.logger.Info(context.Background(), "Redis connection closed successfully")
	return nil
}
