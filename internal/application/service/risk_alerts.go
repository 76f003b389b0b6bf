package service

import (
	"context"
	"fmt"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/pkg/constants"
	"github.com/turtacn/pslrisk/pkg/errors"
	"github.com/turtacn/pslrisk/pkg/logger"
)

// applyAlertPolicy raises and auto-resolves alerts after a fresh computation and returns the alerts raised.
// The caller holds the tenant lock.
func (s *riskScoreAppServiceImpl) applyAlertPolicy(ctx context.Context, score *models.RiskScore, previous *models.ScoreHistoryEntry) ([]models.RiskAlert, error) {
	raised := make([]models.RiskAlert, 0, 2)
	elevated := score.RiskLevel.Rank() >= constants.RiskLevelHigh.Rank()

	if elevated && (previous == nil || previous.RiskLevel.Rank() < score.RiskLevel.Rank()) {
		msg := fmt.Sprintf("Risk level elevated to %s (score %.1f)", score.RiskLevel, score.OverallScore)
		alert, err := s.raiseOnce(ctx, score, previous, constants.AlertTypeRiskLevelElevated, score.RiskLevel, msg)
		if err != nil {
			return nil, err
		}
		if alert != nil {
			raised = append(raised, *alert)
		}
	}

	if previous != nil {
		if delta := score.OverallScore - previous.OverallScore; delta >= s.cfg.SpikeThreshold {
			severity := constants.RiskLevelMedium
			if elevated {
				severity = constants.RiskLevelHigh
			}
			msg := fmt.Sprintf("Risk score changed %s points to %.1f", describeDelta(delta), score.OverallScore)
			alert, err := s.raiseOnce(ctx, score, previous, constants.AlertTypeScoreSpike, severity, msg)
			if err != nil {
				return nil, err
			}
			if alert != nil {
				raised = append(raised, *alert)
			}
		}
	}

	if !elevated {
		if err := s.resolveElevated(ctx, score.TenantID); err != nil {
			return nil, err
		}
	}
	return raised, nil
}

// raiseOnce creates an alert unless an unresolved one of the same type already exists.
func (s *riskScoreAppServiceImpl) raiseOnce(ctx context.Context, score *models.RiskScore, previous *models.ScoreHistoryEntry,
	alertType constants.AlertType, severity constants.RiskLevel, message string) (*models.RiskAlert, error) {
	open, err := s.alerts.FindOpen(ctx, score.TenantID, alertType)
	if err != nil {
		return nil, err
	}
	if len(open) > 0 {
		s.logger.Debug(ctx, "Open alert already exists", logger.String("alert_type", string(alertType)))
		return nil, nil
	}

	alert := &models.RiskAlert{
		ID:        s.ids.NewID(),
		TenantID:  score.TenantID,
		Type:      alertType,
		Severity:  severity,
		Status:    constants.AlertStatusActive,
		Message:   message,
		ScoreID:   score.ID,
		Score:     score.OverallScore,
		CreatedAt: s.clock.Now(),
	}
	if previous != nil {
		prev := previous.OverallScore
		alert.PreviousScore = &prev
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		s.logger.Error(ctx, "Failed to create risk alert", err)
		return nil, err
	}
	s.recordTransition(ctx, alert, constants.AlertActionRaised)
	return alert, nil
}

// resolveElevated closes every unresolved risk_level_elevated alert once the level is back below high.
func (s *riskScoreAppServiceImpl) resolveElevated(ctx context.Context, tenantID string) error {
	open, err := s.alerts.FindOpen(ctx, tenantID, constants.AlertTypeRiskLevelElevated)
	if err != nil {
		return err
	}
	for i := range open {
		alert := &open[i]
		now := s.clock.Now()
		alert.Status = constants.AlertStatusResolved
		alert.ResolvedAt = &now
		alert.ResolvedBy = constants.SystemActor
		if err := s.alerts.Update(ctx, alert); err != nil {
			return err
		}
		s.recordTransition(ctx, alert, constants.AlertActionResolved)
	}
	return nil
}

// ================================================================================
// Alert lifecycle
// ================================================================================

func (s *riskScoreAppServiceImpl) ListAlerts(ctx context.Context, tenantID string) ([]models.RiskAlert, error) {
	if tenantID == "" {
		return nil, errors.ErrMissingRequiredParameter("tenantId")
	}
	alerts, err := s.alerts.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []models.RiskAlert{}
	}
	return alerts, nil
}

func (s *riskScoreAppServiceImpl) AcknowledgeAlert(ctx context.Context, tenantID, alertID, actor string) (*models.RiskAlert, error) {
	return s.transition(ctx, tenantID, alertID, constants.AlertActionAcknowledged, func(alert *models.RiskAlert) error {
		if alert.Status != constants.AlertStatusActive {
			return errors.ErrInvalidAlertTransition(alert.ID, string(alert.Status), string(constants.AlertStatusAcknowledged))
		}
		now := s.clock.Now()
		alert.Status = constants.AlertStatusAcknowledged
		alert.AcknowledgedAt = &now
		alert.AcknowledgedBy = actor
		return nil
	})
}

func (s *riskScoreAppServiceImpl) ResolveAlert(ctx context.Context, tenantID, alertID, actor string) (*models.RiskAlert, error) {
	return s.transition(ctx, tenantID, alertID, constants.AlertActionResolved, func(alert *models.RiskAlert) error {
		if alert.Status == constants.AlertStatusResolved {
			return errors.ErrInvalidAlertTransition(alert.ID, string(alert.Status), string(constants.AlertStatusResolved))
		}
		now := s.clock.Now()
		alert.Status = constants.AlertStatusResolved
		alert.ResolvedAt = &now
		alert.ResolvedBy = actor
		return nil
	})
}

func (s *riskScoreAppServiceImpl) transition(ctx context.Context, tenantID, alertID string, action constants.AlertAction,
	apply func(*models.RiskAlert) error) (*models.RiskAlert, error) {
	if tenantID == "" {
		return nil, errors.ErrMissingRequiredParameter("tenantId")
	}
	if alertID == "" {
		return nil, errors.ErrMissingRequiredParameter("alertId")
	}

	unlock := s.locks.Lock(tenantID)
	defer unlock()

	alert, err := s.alerts.Get(ctx, tenantID, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, errors.ErrAlertNotFound(tenantID, alertID)
	}
	if err := apply(alert); err != nil {
		return nil, err
	}
	if err := s.alerts.Update(ctx, alert); err != nil {
		s.logger.Error(ctx, "Failed to update risk alert", err, logger.String("alert_id", alertID))
		return nil, err
	}
	s.recordTransition(ctx, alert, action)
	return alert, nil
}

// recordTransition publishes, counts and logs one alert transition. Publish failures do not fail the caller.
func (s *riskScoreAppServiceImpl) recordTransition(ctx context.Context, alert *models.RiskAlert, action constants.AlertAction) {
	s.metrics.RecordAlert(alert.Type, action)
	s.logger.Info(ctx, "Risk alert "+string(action),
		logger.String("alert_id", alert.ID),
		logger.String("alert_type", string(alert.Type)),
		logger.String("severity", string(alert.Severity)),
	)
	if s.publisher == nil {
		return
	}
	event := models.AlertEvent{Action: action, Alert: *alert, OccurredAt: s.clock.Now()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(ctx, "Failed to publish alert event",
			logger.String("alert_id", alert.ID),
			logger.String("error", err.Error()),
		)
	}
}
