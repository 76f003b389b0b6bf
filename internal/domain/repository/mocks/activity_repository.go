package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/pslrisk/internal/domain/models"
)

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) GetEmployer(ctx context.Context, tenantID string) (*models.TenantActivity, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantActivity), args.Error(1)
}

func (m *MockActivityRepository) ListRequests(ctx context.Context, tenantID string, since time.Time) ([]models.LeaveRequest, error) {
	args := m.Called(ctx, tenantID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaveRequest), args.Error(1)
}

func (m *MockActivityRepository) ListBalances(ctx context.Context, tenantID string) ([]models.AccrualBalance, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AccrualBalance), args.Error(1)
}

func (m *MockActivityRepository) ListAlerts(ctx context.Context, tenantID string, since time.Time) ([]models.ComplianceAlert, error) {
	args := m.Called(ctx, tenantID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ComplianceAlert), args.Error(1)
}
