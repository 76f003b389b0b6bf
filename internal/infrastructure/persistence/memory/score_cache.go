// Package memory provides in-process implementations of the risk repositories.
// The score cache is backed by go-cache; stores are mutex-guarded maps suitable for single-instance deployments and tests.
package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/internal/domain/repository"
)

type scoreCache struct {
	c *cache.Cache
}

// NewScoreCache creates an in-process score cache. Expired entries are purged every cleanupInterval.
func NewScoreCache(defaultTTL, cleanupInterval time.Duration) repository.ScoreCache {
	return &scoreCache{c: cache.New(defaultTTL, cleanupInterval)}
}

func (s *scoreCache) Get(_ context.Context, tenantID string) (*models.CachedScore, error) {
	v, ok := s.c.Get(tenantID)
	if !ok {
		return nil, nil
	}
	entry := v.(models.CachedScore)
	return &entry, nil
}

func (s *scoreCache) Set(_ context.Context, tenantID string, entry *models.CachedScore, ttl time.Duration) error {
	// Stored by value so later mutation of entry does not leak into the cache.
	s.c.Set(tenantID, *entry, ttl)
	return nil
}

func (s *scoreCache) Delete(_ context.Context, tenantID string) error {
	s.c.Delete(tenantID)
	return nil
}
