package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/internal/domain/repository"
	"github.com/turtacn/pslrisk/pkg/constants"
	svcerrors "github.com/turtacn/pslrisk/pkg/errors"
)

type riskAlertRepository struct {
	db *gorm.DB
}

// NewRiskAlertRepository creates a gorm-backed risk alert repository.
func NewRiskAlertRepository(conn *DBConnection) repository.RiskAlertRepository {
	return &riskAlertRepository{db: conn.DB()}
}

func (r *riskAlertRepository) Create(ctx context.Context, alert *models.RiskAlert) error {
	if err := r.db.WithContext(ctx).Create(alertFromDomain(alert)).Error; err != nil {
		return svcerrors.ErrRepository("create risk alert").WithCause(err)
	}
	return nil
}

// Update overwrites every column of an existing alert. Unknown alerts yield not_found.
func (r *riskAlertRepository) Update(ctx context.Context, alert *models.RiskAlert) error {
	res := r.db.WithContext(ctx).
		Model(&riskAlertDBM{}).
		Where("id = ? AND tenant_id = ?", alert.ID, alert.TenantID).
		Select("*").
		Updates(alertFromDomain(alert))
	if res.Error != nil {
		return svcerrors.ErrRepository("update risk alert").WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return svcerrors.ErrAlertNotFound(alert.TenantID, alert.ID)
	}
	return nil
}

func (r *riskAlertRepository) Get(ctx context.Context, tenantID, alertID string) (*models.RiskAlert, error) {
	var row riskAlertDBM
	err := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", alertID, tenantID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, svcerrors.ErrRepository("get risk alert").WithCause(err)
	}
	alert := row.toDomain()
	return &alert, nil
}

func (r *riskAlertRepository) List(ctx context.Context, tenantID string) ([]models.RiskAlert, error) {
	var rows []riskAlertDBM
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, svcerrors.ErrRepository("list risk alerts").WithCause(err)
	}
	return alertsToDomain(rows), nil
}

func (r *riskAlertRepository) FindOpen(ctx context.Context, tenantID string, alertType constants.AlertType) ([]models.RiskAlert, error) {
	var rows []riskAlertDBM
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND type = ? AND status <> ?", tenantID, string(alertType), string(constants.AlertStatusResolved)).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, svcerrors.ErrRepository("find open risk alerts").WithCause(err)
	}
	return alertsToDomain(rows), nil
}

func alertsToDomain(rows []riskAlertDBM) []models.RiskAlert {
	alerts := make([]models.RiskAlert, 0, len(rows))
	for i := range rows {
		alerts = append(alerts, rows[i].toDomain())
	}
	return alerts
}
