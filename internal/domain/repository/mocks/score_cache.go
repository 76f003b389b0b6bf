package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/pslrisk/internal/domain/models"
)

type MockScoreCache struct {
	mock.Mock
}

func (m *MockScoreCache) Get(ctx context.Context, tenantID string) (*models.CachedScore, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CachedScore), args.Error(1)
}

func (m *MockScoreCache) Set(ctx context.Context, tenantID string, entry *models.CachedScore, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, entry, ttl)
	return args.Error(0)
}

func (m *MockScoreCache) Delete(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}
