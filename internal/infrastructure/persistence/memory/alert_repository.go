package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/internal/domain/repository"
	"github.com/turtacn/pslrisk/pkg/constants"
)

type alertRepository struct {
	mu     sync.RWMutex
	alerts map[string]map[string]models.RiskAlert // tenant -> id -> alert
}

// NewAlertRepository creates an in-memory risk alert store.
func NewAlertRepository() repository.RiskAlertRepository {
	return &alertRepository{alerts: make(map[string]map[string]models.RiskAlert)}
}

func (r *alertRepository) Create(_ context.Context, alert *models.RiskAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tenant, ok := r.alerts[alert.TenantID]
	if !ok {
		tenant = make(map[string]models.RiskAlert)
		r.alerts[alert.TenantID] = tenant
	}
	if _, exists := tenant[alert.ID]; exists {
		return fmt.Errorf("alert %s already exists", alert.ID)
	}
	tenant[alert.ID] = *alert
	return nil
}

func (r *alertRepository) Update(_ context.Context, alert *models.RiskAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tenant := r.alerts[alert.TenantID]
	if _, ok := tenant[alert.ID]; !ok {
		return fmt.Errorf("alert %s not found", alert.ID)
	}
	tenant[alert.ID] = *alert
	return nil
}

func (r *alertRepository) Get(_ context.Context, tenantID, alertID string) (*models.RiskAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.alerts[tenantID][alertID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *alertRepository) List(_ context.Context, tenantID string) ([]models.RiskAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.RiskAlert, 0, len(r.alerts[tenantID]))
	for _, a := range r.alerts[tenantID] {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *alertRepository) FindOpen(ctx context.Context, tenantID string, alertType constants.AlertType) ([]models.RiskAlert, error) {
	all, err := r.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	open := make([]models.RiskAlert, 0)
	for _, a := range all {
		if a.Type == alertType && a.IsOpen() {
			open = append(open, a)
		}
	}
	return open, nil
}
