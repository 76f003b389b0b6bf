package postgres

import (
	"time"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/pkg/constants"
)

// scoreHistoryDBM is the database model for the risk_score_history table.
type scoreHistoryDBM struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"`
	ScoreID      string  `gorm:"size:64;uniqueIndex"`
	TenantID     string  `gorm:"size:128;index:idx_history_tenant_time,priority:1"`
	OverallScore float64
	RiskLevel    string    `gorm:"size:16"`
	CalculatedAt time.Time `gorm:"index:idx_history_tenant_time,priority:2"`
}

func (scoreHistoryDBM) TableName() string { return constants.TableNameScoreHistory }

func (m *scoreHistoryDBM) toDomain() models.ScoreHistoryEntry {
	return models.ScoreHistoryEntry{
		ScoreID:      m.ScoreID,
		TenantID:     m.TenantID,
		OverallScore: m.OverallScore,
		RiskLevel:    constants.RiskLevel(m.RiskLevel),
		CalculatedAt: m.CalculatedAt.UTC(),
	}
}

func historyFromDomain(e *models.ScoreHistoryEntry) *scoreHistoryDBM {
	return &scoreHistoryDBM{
		ScoreID:      e.ScoreID,
		TenantID:     e.TenantID,
		OverallScore: e.OverallScore,
		RiskLevel:    string(e.RiskLevel),
		CalculatedAt: e.CalculatedAt,
	}
}

// riskAlertDBM is the database model for the risk_alerts table.
type riskAlertDBM struct {
	ID             string `gorm:"primaryKey;size:64"`
	TenantID       string `gorm:"size:128;index:idx_alert_tenant_type,priority:1"`
	Type           string `gorm:"size:32;index:idx_alert_tenant_type,priority:2"`
	Severity       string `gorm:"size:16"`
	Status         string `gorm:"size:16;index"`
	Message        string `gorm:"size:512"`
	ScoreID        string `gorm:"size:64"`
	Score          float64
	PreviousScore  *float64
	CreatedAt      time.Time
	AcknowledgedAt *time.Time
	AcknowledgedBy string `gorm:"size:128"`
	ResolvedAt     *time.Time
	ResolvedBy     string `gorm:"size:128"`
}

func (riskAlertDBM) TableName() string { return constants.TableNameRiskAlerts }

func (m *riskAlertDBM) toDomain() models.RiskAlert {
	return models.RiskAlert{
		ID:             m.ID,
		TenantID:       m.TenantID,
		Type:           constants.AlertType(m.Type),
		Severity:       constants.RiskLevel(m.Severity),
		Status:         constants.AlertStatus(m.Status),
		Message:        m.Message,
		ScoreID:        m.ScoreID,
		Score:          m.Score,
		PreviousScore:  m.PreviousScore,
		CreatedAt:      m.CreatedAt.UTC(),
		AcknowledgedAt: utcPtr(m.AcknowledgedAt),
		AcknowledgedBy: m.AcknowledgedBy,
		ResolvedAt:     utcPtr(m.ResolvedAt),
		ResolvedBy:     m.ResolvedBy,
	}
}

func alertFromDomain(a *models.RiskAlert) *riskAlertDBM {
	return &riskAlertDBM{
		ID:             a.ID,
		TenantID:       a.TenantID,
		Type:           string(a.Type),
		Severity:       string(a.Severity),
		Status:         string(a.Status),
		Message:        a.Message,
		ScoreID:        a.ScoreID,
		Score:          a.Score,
		PreviousScore:  a.PreviousScore,
		CreatedAt:      a.CreatedAt,
		AcknowledgedAt: a.AcknowledgedAt,
		AcknowledgedBy: a.AcknowledgedBy,
		ResolvedAt:     a.ResolvedAt,
		ResolvedBy:     a.ResolvedBy,
	}
}

// employerDBM, leaveRequestDBM, accrualBalanceDBM and complianceAlertDBM mirror the
// system-of-record tables. The service only reads them.
type employerDBM struct {
	TenantID      string `gorm:"primaryKey;size:128"`
	EmployerID    string `gorm:"size:128"`
	EmployerSize  string `gorm:"size:16"`
	EmployeeCount int
}

func (employerDBM) TableName() string { return constants.TableNameEmployers }

type leaveRequestDBM struct {
	ID          string    `gorm:"primaryKey;size:64"`
	TenantID    string    `gorm:"size:128;index:idx_request_tenant_time,priority:1"`
	Status      string    `gorm:"size:16"`
	RequestedAt time.Time `gorm:"index:idx_request_tenant_time,priority:2"`
	ReviewedAt  *time.Time
}

func (leaveRequestDBM) TableName() string { return constants.TableNameLeaveRequests }

func (m *leaveRequestDBM) toDomain() models.LeaveRequest {
	return models.LeaveRequest{
		ID:          m.ID,
		Status:      constants.RequestStatus(m.Status),
		RequestedAt: m.RequestedAt.UTC(),
		ReviewedAt:  utcPtr(m.ReviewedAt),
	}
}

type accrualBalanceDBM struct {
	TenantID       string `gorm:"primaryKey;size:128"`
	EmployeeID     string `gorm:"primaryKey;size:128"`
	CurrentBalance float64
	YearlyAccrued  float64
	YearlyUsed     float64
	LastUpdated    time.Time
}

func (accrualBalanceDBM) TableName() string { return constants.TableNameAccrualBalances }

func (m *accrualBalanceDBM) toDomain() models.AccrualBalance {
	return models.AccrualBalance{
		EmployeeID:     m.EmployeeID,
		CurrentBalance: m.CurrentBalance,
		YearlyAccrued:  m.YearlyAccrued,
		YearlyUsed:     m.YearlyUsed,
		LastUpdated:    m.LastUpdated.UTC(),
	}
}

type complianceAlertDBM struct {
	ID         string    `gorm:"primaryKey;size:64"`
	TenantID   string    `gorm:"size:128;index:idx_compliance_tenant_time,priority:1"`
	Type       string    `gorm:"size:64"`
	Severity   string    `gorm:"size:16"`
	CreatedAt  time.Time `gorm:"index:idx_compliance_tenant_time,priority:2"`
	ResolvedAt *time.Time
}

func (complianceAlertDBM) TableName() string { return constants.TableNameComplianceAlert }

func (m *complianceAlertDBM) toDomain() models.ComplianceAlert {
	return models.ComplianceAlert{
		ID:         m.ID,
		Type:       m.Type,
		Severity:   m.Severity,
		CreatedAt:  m.CreatedAt.UTC(),
		ResolvedAt: utcPtr(m.ResolvedAt),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
