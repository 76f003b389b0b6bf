package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/internal/domain/repository"
	domainservice "github.com/turtacn/pslrisk/internal/domain/service"
	"github.com/turtacn/pslrisk/pkg/errors"
)

// ActivityLookback covers the longest window the feature extractor reads.
const ActivityLookback = 365 * 24 * time.Hour

// ActivityLoader assembles a tenant activity snapshot from the system of record.
// ActivityLoader 从记录系统组装租户活动快照。
type ActivityLoader struct {
	repo  repository.ActivityRepository
	clock domainservice.Clock
}

// NewActivityLoader creates a loader over repo.
func NewActivityLoader(repo repository.ActivityRepository, clock domainservice.Clock) *ActivityLoader {
	if clock == nil {
		clock = domainservice.SystemClock{}
	}
	return &ActivityLoader{repo: repo, clock: clock}
}

// Load reads the employer profile, then requests, balances and alerts concurrently.
func (l *ActivityLoader) Load(ctx context.Context, tenantID string) (*models.TenantActivity, error) {
	activity, err := l.repo.GetEmployer(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, errors.ErrNotFound(fmt.Sprintf("No employer profile for tenant: %s", tenantID)).
			WithMetadata("tenant_id", tenantID)
	}
	activity.TenantID = tenantID

	since := l.clock.Now().Add(-ActivityLookback)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		requests, err := l.repo.ListRequests(gctx, tenantID, since)
		activity.Requests = requests
		return err
	})
	g.Go(func() error {
		balances, err := l.repo.ListBalances(gctx, tenantID)
		activity.Balances = balances
		return err
	})
	g.Go(func() error {
		alerts, err := l.repo.ListAlerts(gctx, tenantID, since)
		activity.Alerts = alerts
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return activity, nil
}
