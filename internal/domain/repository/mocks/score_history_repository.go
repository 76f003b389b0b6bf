package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/pslrisk/internal/domain/models"
)

type MockScoreHistoryRepository struct {
	mock.Mock
}

func (m *MockScoreHistoryRepository) Append(ctx context.Context, entry *models.ScoreHistoryEntry, limit int) error {
	args := m.Called(ctx, entry, limit)
	return args.Error(0)
}

func (m *MockScoreHistoryRepository) List(ctx context.Context, tenantID string) ([]models.ScoreHistoryEntry, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScoreHistoryEntry), args.Error(1)
}

func (m *MockScoreHistoryRepository) Latest(ctx context.Context, tenantID string) (*models.ScoreHistoryEntry, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScoreHistoryEntry), args.Error(1)
}
