package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/internal/domain/repository"
	"github.com/turtacn/pslrisk/pkg/constants"
	"github.com/turtacn/pslrisk/pkg/errors"
	"github.com/turtacn/pslrisk/pkg/logger"
)

type scoreCache struct {
	redis *RedisConnection
	log   logger.Logger
}

// NewScoreCache creates a ScoreCache storing JSON entries under pslrisk:score:<tenant>.
func NewScoreCache(conn *RedisConnection, log logger.Logger) repository.ScoreCache {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &scoreCache{redis: conn, log: log.WithComponent("redis_score_cache")}
}

func scoreKey(tenantID string) string {
	return constants.CacheKeyPrefixScore + tenantID
}

func (c *scoreCache) Get(ctx context.Context, tenantID string) (*models.CachedScore, error) {
	val, err := c.redis.GetClient().Get(ctx, scoreKey(tenantID)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.ErrCacheUnavailable("get").WithCause(err)
	}

	var entry models.CachedScore
	if err := json.Unmarshal(val, &entry); err != nil {
		// A corrupt entry is treated as a miss and removed.
		c.log.Warn(ctx, "Discarding undecodable cache entry", logger.String("tenant_id", tenantID), logger.String("error", err.Error()))
		_ = c.redis.GetClient().Del(ctx, scoreKey(tenantID)).Err()
		return nil, nil
	}
	return &entry, nil
}

func (c *scoreCache) Set(ctx context.Context, tenantID string, entry *models.CachedScore, ttl time.Duration) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return errors.ErrCacheUnavailable("encode").WithCause(err)
	}
	if err := c.redis.GetClient().Set(ctx, scoreKey(tenantID), b, ttl).Err(); err != nil {
		return errors.ErrCacheUnavailable("set").WithCause(err)
	}
	return nil
}

func (c *scoreCache) Delete(ctx context.Context, tenantID string) error {
	if err := c.redis.GetClient().Del(ctx, scoreKey(tenantID)).Err(); err != nil {
		return errors.ErrCacheUnavailable("delete").WithCause(err)
	}
	return nil
}

//Personal.AI order the ending
