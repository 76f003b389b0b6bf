package dto

import (
	"fmt"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/pkg/constants"
	"github.com/turtacn/pslrisk/pkg/errors"
	"github.com/turtacn/pslrisk/pkg/utils"
)

const timestampFormatHint = "RFC3339 timestamp or YYYY-MM-DD date"

// ================================================================================
// Requests
// ================================================================================

// CalculateRequest is the activity snapshot submitted for scoring. Timestamps are strings.
type CalculateRequest struct {
	EmployerID    string               `json:"employerId" validate:"required"`
	EmployerSize  string               `json:"employerSize" validate:"omitempty,oneof=small large"`
	EmployeeCount int                  `json:"employeeCount" validate:"gte=0"`
	Requests      []LeaveRequestDTO    `json:"requests" validate:"dive"`
	Balances      []AccrualBalanceDTO  `json:"balances" validate:"dive"`
	Alerts        []ComplianceAlertDTO `json:"alerts" validate:"dive"`
}

type LeaveRequestDTO struct {
	ID          string `json:"id"`
	Status      string `json:"status" validate:"required,oneof=pending approved denied"`
	RequestedAt string `json:"requestedAt" validate:"required,timestamp"`
	ReviewedAt  string `json:"reviewedAt,omitempty" validate:"omitempty,timestamp"`
}

type AccrualBalanceDTO struct {
	EmployeeID     string  `json:"employeeId" validate:"required"`
	CurrentBalance float64 `json:"currentBalance"`
	YearlyAccrued  float64 `json:"yearlyAccrued"`
	YearlyUsed     float64 `json:"yearlyUsed"`
	LastUpdated    string  `json:"lastUpdated,omitempty" validate:"omitempty,timestamp"`
}

type ComplianceAlertDTO struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	CreatedAt  string `json:"createdAt" validate:"required,timestamp"`
	ResolvedAt string `json:"resolvedAt,omitempty" validate:"omitempty,timestamp"`
}

// Validate checks required fields and timestamp formats.
func (r *CalculateRequest) Validate() error {
	if err := utils.ValidateStruct(r); err != nil {
		return err
	}
	return nil
}

// ToDomain parses the request into an activity snapshot for tenantID.
// A parse failure is an invalid_request error naming the offending field.
func (r *CalculateRequest) ToDomain(tenantID string) (*models.TenantActivity, error) {
	activity := &models.TenantActivity{
		TenantID:      tenantID,
		EmployerID:    r.EmployerID,
		EmployerSize:  constants.EmployerSize(r.EmployerSize),
		EmployeeCount: r.EmployeeCount,
		Requests:      make([]models.LeaveRequest, 0, len(r.Requests)),
		Balances:      make([]models.AccrualBalance, 0, len(r.Balances)),
		Alerts:        make([]models.ComplianceAlert, 0, len(r.Alerts)),
	}

	for i, req := range r.Requests {
		requestedAt, err := utils.ParseTimestamp(req.RequestedAt)
		if err != nil {
			return nil, timestampError(fmt.Sprintf("requests[%d].requestedAt", i), err)
		}
		reviewedAt, err := utils.ParseOptionalTimestamp(req.ReviewedAt)
		if err != nil {
			return nil, timestampError(fmt.Sprintf("requests[%d].reviewedAt", i), err)
		}
		activity.Requests = append(activity.Requests, models.LeaveRequest{
			ID:          req.ID,
			Status:      constants.RequestStatus(req.Status),
			RequestedAt: requestedAt,
			ReviewedAt:  reviewedAt,
		})
	}

	for i, b := range r.Balances {
		lastUpdated, err := utils.ParseOptionalTimestamp(b.LastUpdated)
		if err != nil {
			return nil, timestampError(fmt.Sprintf("balances[%d].lastUpdated", i), err)
		}
		balance := models.AccrualBalance{
			EmployeeID:     b.EmployeeID,
			CurrentBalance: b.CurrentBalance,
			YearlyAccrued:  b.YearlyAccrued,
			YearlyUsed:     b.YearlyUsed,
		}
		if lastUpdated != nil {
			balance.LastUpdated = *lastUpdated
		}
		activity.Balances = append(activity.Balances, balance)
	}

	for i, a := range r.Alerts {
		createdAt, err := utils.ParseTimestamp(a.CreatedAt)
		if err != nil {
			return nil, timestampError(fmt.Sprintf("alerts[%d].createdAt", i), err)
		}
		resolvedAt, err := utils.ParseOptionalTimestamp(a.ResolvedAt)
		if err != nil {
			return nil, timestampError(fmt.Sprintf("alerts[%d].resolvedAt", i), err)
		}
		activity.Alerts = append(activity.Alerts, models.ComplianceAlert{
			ID:         a.ID,
			Type:       a.Type,
			Severity:   a.Severity,
			CreatedAt:  createdAt,
			ResolvedAt: resolvedAt,
		})
	}
	return activity, nil
}

func timestampError(field string, cause error) error {
	return errors.ErrInvalidParameterFormat(field, timestampFormatHint).WithCause(cause)
}

// AlertActionRequest optionally names the actor of an acknowledge or resolve.
type AlertActionRequest struct {
	Actor string `json:"actor" validate:"omitempty,max=128"`
}

// ================================================================================
// Responses
// ================================================================================

// ScoreDTO is the score subset returned by calculate. Factors travel separately.
type ScoreDTO struct {
	ID                 string                  `json:"id"`
	TenantID           string                  `json:"tenantId"`
	OverallScore       float64                 `json:"overallScore"`
	RiskLevel          constants.RiskLevel     `json:"riskLevel"`
	RiskBracket        models.RiskBracket      `json:"riskBracket"`
	AnalysisPeriod     AnalysisPeriodDTO       `json:"analysisPeriod"`
	PrimaryRiskDrivers []string                `json:"primaryRiskDrivers"`
	Recommendations    []models.Recommendation `json:"recommendations"`
	Confidence         float64                 `json:"confidence"`
	ModelVersion       string                  `json:"modelVersion"`
	CalculatedAt       string                  `json:"calculatedAt"`
	PreviousScore      *PreviousScoreDTO       `json:"previousScore,omitempty"`
}

type AnalysisPeriodDTO struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Quarter string `json:"quarter"`
}

type PreviousScoreDTO struct {
	Score  float64 `json:"score"`
	Date   string  `json:"date"`
	Change float64 `json:"change"`
}

// CalculateResponse is the result of a calculate or recalculate call.
type CalculateResponse struct {
	Score     ScoreDTO            `json:"score"`
	Factors   []models.RiskFactor `json:"factors"`
	Alerts    []models.RiskAlert  `json:"alerts"`
	FromCache bool                `json:"fromCache"`
	Message   string              `json:"message"`
}

// NewScoreDTO converts a risk score to its boundary form.
func NewScoreDTO(s *models.RiskScore) ScoreDTO {
	out := ScoreDTO{
		ID:           s.ID,
		TenantID:     s.TenantID,
		OverallScore: s.OverallScore,
		RiskLevel:    s.RiskLevel,
		RiskBracket:  s.RiskBracket,
		AnalysisPeriod: AnalysisPeriodDTO{
			Start:   utils.TimeToISO8601(s.AnalysisPeriod.Start),
			End:     utils.TimeToISO8601(s.AnalysisPeriod.End),
			Quarter: s.AnalysisPeriod.Quarter,
		},
		PrimaryRiskDrivers: s.PrimaryRiskDrivers,
		Recommendations:    s.Recommendations,
		Confidence:         s.Confidence,
		ModelVersion:       s.ModelVersion,
		CalculatedAt:       utils.TimeToISO8601(s.CalculatedAt),
	}
	if s.PreviousScore != nil {
		out.PreviousScore = &PreviousScoreDTO{
			Score:  s.PreviousScore.Score,
			Date:   utils.TimeToISO8601(s.PreviousScore.Date),
			Change: s.PreviousScore.Change,
		}
	}
	return out
}

// SummaryMessage renders the human-readable line returned with a calculation.
func SummaryMessage(s *models.RiskScore) string {
	msg := fmt.Sprintf("Risk score: %.1f (%s).", s.OverallScore, s.RiskLevel)
	if len(s.PrimaryRiskDrivers) == 0 {
		return msg + " No significant risk drivers identified."
	}
	return fmt.Sprintf("%s Top driver: %s", msg, s.PrimaryRiskDrivers[0])
}
