package models

import (
	"time"

	"github.com/turtacn/pslrisk/pkg/constants"
)

// RiskAlert is a tenant-scoped alert raised by the score orchestrator.
type RiskAlert struct {
	ID             string                `json:"id"`
	TenantID       string                `json:"tenantId"`
	Type           constants.AlertType   `json:"type"`
	Severity       constants.RiskLevel   `json:"severity"`
	Status         constants.AlertStatus `json:"status"`
	Message        string                `json:"message"`
	ScoreID        string                `json:"scoreId"`
	Score          float64               `json:"score"`
	PreviousScore  *float64              `json:"previousScore,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	AcknowledgedAt *time.Time            `json:"acknowledgedAt,omitempty"`
	AcknowledgedBy string                `json:"acknowledgedBy,omitempty"`
	ResolvedAt     *time.Time            `json:"resolvedAt,omitempty"`
	ResolvedBy     string                `json:"resolvedBy,omitempty"`
}

// IsOpen reports whether the alert is active or acknowledged.
func (a *RiskAlert) IsOpen() bool {
	return a.Status != constants.AlertStatusResolved
}

// AlertEvent is published for every alert transition.
type AlertEvent struct {
	Action     constants.AlertAction `json:"action"`
	Alert      RiskAlert             `json:"alert"`
	OccurredAt time.Time             `json:"occurredAt"`
}
