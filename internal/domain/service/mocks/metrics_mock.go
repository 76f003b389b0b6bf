package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/pslrisk/pkg/constants"
)

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordScoreCalculated(level constants.RiskLevel, duration time.Duration) {
	m.Called(level, duration)
}

func (m *MockMetrics) RecordCacheAccess(hit bool) {
	m.Called(hit)
}

func (m *MockMetrics) RecordAlert(alertType constants.AlertType, action constants.AlertAction) {
	m.Called(alertType, action)
}
