package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/internal/domain/repository"
	"github.com/turtacn/pslrisk/pkg/constants"
	svcerrors "github.com/turtacn/pslrisk/pkg/errors"
)

// activityRepository reads the system-of-record tables. It never writes.
type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a read-only gorm adapter over tenant activity tables.
func NewActivityRepository(conn *DBConnection) repository.ActivityRepository {
	return &activityRepository{db: conn.DB()}
}

func (r *activityRepository) GetEmployer(ctx context.Context, tenantID string) (*models.TenantActivity, error) {
	var row employerDBM
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, svcerrors.ErrRepository("get employer").WithCause(err)
	}
	return &models.TenantActivity{
		TenantID:      row.TenantID,
		EmployerID:    row.EmployerID,
		EmployerSize:  constants.EmployerSize(row.EmployerSize),
		EmployeeCount: row.EmployeeCount,
	}, nil
}

func (r *activityRepository) ListRequests(ctx context.Context, tenantID string, since time.Time) ([]models.LeaveRequest, error) {
	var rows []leaveRequestDBM
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND requested_at >= ?", tenantID, since).
		Order("requested_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, svcerrors.ErrRepository("list leave requests").WithCause(err)
	}
	out := make([]models.LeaveRequest, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *activityRepository) ListBalances(ctx context.Context, tenantID string) ([]models.AccrualBalance, error) {
	var rows []accrualBalanceDBM
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("employee_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, svcerrors.ErrRepository("list accrual balances").WithCause(err)
	}
	out := make([]models.AccrualBalance, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *activityRepository) ListAlerts(ctx context.Context, tenantID string, since time.Time) ([]models.ComplianceAlert, error) {
	var rows []complianceAlertDBM
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND created_at >= ?", tenantID, since).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, svcerrors.ErrRepository("list compliance alerts").WithCause(err)
	}
	out := make([]models.ComplianceAlert, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}
