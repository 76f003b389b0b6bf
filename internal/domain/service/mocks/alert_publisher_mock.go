package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/pslrisk/internal/domain/models"
)

type MockAlertPublisher struct {
	mock.Mock
}

func (m *MockAlertPublisher) Publish(ctx context.Context, event models.AlertEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAlertPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
