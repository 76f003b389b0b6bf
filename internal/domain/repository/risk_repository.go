// Package repository defines the storage contracts used by the risk scoring service.
package repository

import (
	"context"
	"time"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/pkg/constants"
)

// ScoreCache is the per-tenant cache of the latest computed score.
// ScoreCache 是每个租户最新评分的缓存。
type ScoreCache interface {
	// Get returns the cached entry, or (nil, nil) when absent or expired.
	Get(ctx context.Context, tenantID string) (*models.CachedScore, error)

	// Set stores or overwrites the entry for the tenant with the given ttl.
	Set(ctx context.Context, tenantID string, entry *models.CachedScore, ttl time.Duration) error

	// Delete drops the entry. Deleting an absent entry is not an error.
	Delete(ctx context.Context, tenantID string) error
}

// ScoreHistoryRepository stores computed scores per tenant.
// ScoreHistoryRepository 按租户存储历史评分。
type ScoreHistoryRepository interface {
	// Append stores entry and drops the oldest entries beyond limit.
	Append(ctx context.Context, entry *models.ScoreHistoryEntry, limit int) error

	// List returns the tenant's entries oldest first. An unknown tenant yields an empty slice.
	List(ctx context.Context, tenantID string) ([]models.ScoreHistoryEntry, error)

	// Latest returns the newest entry, or (nil, nil) when the tenant has no history.
	Latest(ctx context.Context, tenantID string) (*models.ScoreHistoryEntry, error)
}

// RiskAlertRepository stores tenant risk alerts.
// RiskAlertRepository 存储租户风险告警。
type RiskAlertRepository interface {
	// Create stores a new alert.
	Create(ctx context.Context, alert *models.RiskAlert) error

	// Update overwrites an existing alert.
	Update(ctx context.Context, alert *models.RiskAlert) error

	// Get returns the alert, or (nil, nil) when it does not exist for the tenant.
	Get(ctx context.Context, tenantID, alertID string) (*models.RiskAlert, error)

	// List returns the tenant's alerts newest first.
	List(ctx context.Context, tenantID string) ([]models.RiskAlert, error)

	// FindOpen returns unresolved alerts of alertType for the tenant.
	FindOpen(ctx context.Context, tenantID string, alertType constants.AlertType) ([]models.RiskAlert, error)
}

// ActivityRepository reads tenant activity from the system of record. It is read-only.
// ActivityRepository 从记录系统读取租户活动数据，只读。
type ActivityRepository interface {
	// GetEmployer returns the employer profile fields of the activity, or (nil, nil) if unknown.
	GetEmployer(ctx context.Context, tenantID string) (*models.TenantActivity, error)

	// ListRequests returns leave requests created on or after since.
	ListRequests(ctx context.Context, tenantID string, since time.Time) ([]models.LeaveRequest, error)

	// ListBalances returns current accrual balances.
	ListBalances(ctx context.Context, tenantID string) ([]models.AccrualBalance, error)

	// ListAlerts returns compliance alerts created on or after since.
	ListAlerts(ctx context.Context, tenantID string, since time.Time) ([]models.ComplianceAlert, error)
}
