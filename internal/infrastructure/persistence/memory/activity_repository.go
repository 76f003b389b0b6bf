package memory

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/internal/domain/repository"
)

var _ repository.ActivityRepository = (*ActivityStore)(nil)

// ActivityStore is an in-memory activity source. Put replaces a tenant's snapshot.
type ActivityStore struct {
	mu       sync.RWMutex
	activity map[string]models.TenantActivity
}

// NewActivityStore creates an empty activity store.
func NewActivityStore() *ActivityStore {
	return &ActivityStore{activity: make(map[string]models.TenantActivity)}
}

// Put stores a snapshot for activity.TenantID.
func (s *ActivityStore) Put(activity models.TenantActivity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity[activity.TenantID] = activity
}

func (s *ActivityStore) get(tenantID string) (models.TenantActivity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.activity[tenantID]
	return a, ok
}

func (s *ActivityStore) GetEmployer(_ context.Context, tenantID string) (*models.TenantActivity, error) {
	a, ok := s.get(tenantID)
	if !ok {
		return nil, nil
	}
	return &models.TenantActivity{
		TenantID:      a.TenantID,
		EmployerID:    a.EmployerID,
		EmployerSize:  a.EmployerSize,
		EmployeeCount: a.EmployeeCount,
	}, nil
}

func (s *ActivityStore) ListRequests(_ context.Context, tenantID string, since time.Time) ([]models.LeaveRequest, error) {
	a, _ := s.get(tenantID)
	out := make([]models.LeaveRequest, 0, len(a.Requests))
	for _, r := range a.Requests {
		if !r.RequestedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *ActivityStore) ListBalances(_ context.Context, tenantID string) ([]models.AccrualBalance, error) {
	a, _ := s.get(tenantID)
	out := make([]models.AccrualBalance, len(a.Balances))
	copy(out, a.Balances)
	return out, nil
}

func (s *ActivityStore) ListAlerts(_ context.Context, tenantID string, since time.Time) ([]models.ComplianceAlert, error) {
	a, _ := s.get(tenantID)
	out := make([]models.ComplianceAlert, 0, len(a.Alerts))
	for _, al := range a.Alerts {
		if !al.CreatedAt.Before(since) {
			out = append(out, al)
		}
	}
	return out, nil
}
