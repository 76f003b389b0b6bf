package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/internal/domain/repository"
	svcerrors "github.com/turtacn/pslrisk/pkg/errors"
)

type scoreHistoryRepository struct {
	db *gorm.DB
}

// NewScoreHistoryRepository creates a gorm-backed score history repository.
func NewScoreHistoryRepository(conn *DBConnection) repository.ScoreHistoryRepository {
	return &scoreHistoryRepository{db: conn.DB()}
}

// Append inserts the entry and trims the tenant's oldest rows beyond limit in one transaction.
func (r *scoreHistoryRepository) Append(ctx context.Context, entry *models.ScoreHistoryEntry, limit int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(historyFromDomain(entry)).Error; err != nil {
			return err
		}
		if limit <= 0 {
			return nil
		}

		var count int64
		if err := tx.Model(&scoreHistoryDBM{}).Where("tenant_id = ?", entry.TenantID).Count(&count).Error; err != nil {
			return err
		}
		excess := int(count) - limit
		if excess <= 0 {
			return nil
		}

		var stale []uint
		if err := tx.Model(&scoreHistoryDBM{}).
			Where("tenant_id = ?", entry.TenantID).
			Order("calculated_at ASC, id ASC").
			Limit(excess).
			Pluck("id", &stale).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", stale).Delete(&scoreHistoryDBM{}).Error
	})
	if err != nil {
		return svcerrors.ErrRepository("append score history").WithCause(err)
	}
	return nil
}

func (r *scoreHistoryRepository) List(ctx context.Context, tenantID string) ([]models.ScoreHistoryEntry, error) {
	var rows []scoreHistoryDBM
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("calculated_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, svcerrors.ErrRepository("list score history").WithCause(err)
	}

	entries := make([]models.ScoreHistoryEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].toDomain())
	}
	return entries, nil
}

func (r *scoreHistoryRepository) Latest(ctx context.Context, tenantID string) (*models.ScoreHistoryEntry, error) {
	var row scoreHistoryDBM
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("calculated_at DESC, id DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, svcerrors.ErrRepository("latest score history").WithCause(err)
	}
	entry := row.toDomain()
	return &entry, nil
}
