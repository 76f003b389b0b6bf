package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/pkg/constants"
)

type MockRiskAlertRepository struct {
	mock.Mock
}

func (m *MockRiskAlertRepository) Create(ctx context.Context, alert *models.RiskAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockRiskAlertRepository) Update(ctx context.Context, alert *models.RiskAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockRiskAlertRepository) Get(ctx context.Context, tenantID, alertID string) (*models.RiskAlert, error) {
	args := m.Called(ctx, tenantID, alertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RiskAlert), args.Error(1)
}

func (m *MockRiskAlertRepository) List(ctx context.Context, tenantID string) ([]models.RiskAlert, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RiskAlert), args.Error(1)
}

func (m *MockRiskAlertRepository) FindOpen(ctx context.Context, tenantID string, alertType constants.AlertType) ([]models.RiskAlert, error) {
	args := m.Called(ctx, tenantID, alertType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RiskAlert), args.Error(1)
}
