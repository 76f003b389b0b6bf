package memory

import (
	"context"
	"sync"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/internal/domain/repository"
)

type historyRepository struct {
	mu      sync.RWMutex
	entries map[string][]models.ScoreHistoryEntry
}

// NewHistoryRepository creates an in-memory score history store.
func NewHistoryRepository() repository.ScoreHistoryRepository {
	return &historyRepository{entries: make(map[string][]models.ScoreHistoryEntry)}
}

func (r *historyRepository) Append(_ context.Context, entry *models.ScoreHistoryEntry, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := append(r.entries[entry.TenantID], *entry)
	if limit > 0 && len(list) > limit {
		list = append([]models.ScoreHistoryEntry(nil), list[len(list)-limit:]...)
	}
	r.entries[entry.TenantID] = list
	return nil
}

func (r *historyRepository) List(_ context.Context, tenantID string) ([]models.ScoreHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ScoreHistoryEntry, len(r.entries[tenantID]))
	copy(out, r.entries[tenantID])
	return out, nil
}

func (r *historyRepository) Latest(_ context.Context, tenantID string) (*models.ScoreHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.entries[tenantID]
	if len(list) == 0 {
		return nil, nil
	}
	latest := list[len(list)-1]
	return &latest, nil
}
