package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pslrisk/internal/application/dto"
	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/internal/domain/repository"
	repomocks "github.com/turtacn/pslrisk/internal/domain/repository/mocks"
	servicemocks "github.com/turtacn/pslrisk/internal/domain/service/mocks"
	"github.com/turtacn/pslrisk/internal/infrastructure/persistence/memory"
	"github.com/turtacn/pslrisk/pkg/constants"
	svcerrors "github.com/turtacn/pslrisk/pkg/errors"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type sequenceIDs struct {
	n atomic.Int64
}

func (s *sequenceIDs) NewID() string {
	return fmt.Sprintf("id-%d", s.n.Add(1))
}

type fixture struct {
	svc      RiskScoreAppService
	clock    *testClock
	activity *memory.ActivityStore
}

func newFixture(t *testing.T, mutate func(*RiskScoreAppServiceConfig, *RiskScoreAppServiceDeps)) *fixture {
	t.Helper()
	clock := &testClock{t: testNow}
	activity := memory.NewActivityStore()

	cfg := DefaultRiskScoreAppServiceConfig()
	cfg.CacheTTL = time.Hour
	deps := RiskScoreAppServiceDeps{
		Cache:   memory.NewScoreCache(time.Hour, time.Minute),
		History: memory.NewHistoryRepository(),
		Alerts:  memory.NewAlertRepository(),
		Loader:  NewActivityLoader(activity, clock),
		Clock:   clock,
		IDs:     &sequenceIDs{},
	}
	if mutate != nil {
		mutate(&cfg, &deps)
	}
	return &fixture{
		svc:      NewRiskScoreAppService(cfg, deps),
		clock:    clock,
		activity: activity,
	}
}

func daysAgo(n float64) time.Time {
	return testNow.Add(-time.Duration(n * float64(24*time.Hour)))
}

// lowActivity scores 9.5 (low): only the empty-accrual and low-usage penalties apply.
func lowActivity(tenantID string) *models.TenantActivity {
	return &models.TenantActivity{TenantID: tenantID, EmployerID: "emp-" + tenantID}
}

// highActivity scores 52.25 (high): denial 100, accrual 100, usage 20, timeliness 60, policy 85.
func highActivity(tenantID string) *models.TenantActivity {
	a := lowActivity(tenantID)
	for i := 1; i <= 4; i++ {
		requested := daysAgo(float64(i) + 5)
		reviewed := requested.Add(100 * time.Hour)
		a.Requests = append(a.Requests, models.LeaveRequest{
			ID: fmt.Sprintf("r%d", i), Status: constants.RequestStatusDenied, RequestedAt: requested, ReviewedAt: &reviewed,
		})
		a.Balances = append(a.Balances, models.AccrualBalance{
			EmployeeID: fmt.Sprintf("e%d", i), CurrentBalance: -1, LastUpdated: daysAgo(60),
		})
	}
	for i := 1; i <= 3; i++ {
		a.Alerts = append(a.Alerts, models.ComplianceAlert{ID: fmt.Sprintf("c%d", i), Type: "late_payment", CreatedAt: daysAgo(float64(i))})
	}
	return a
}

func TestCalculate_ComputesThenServesCache(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.CalculateActivity(ctx, highActivity("t1"), false)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.InDelta(t, 52.25, first.Score.OverallScore, 1e-9)
	assert.Equal(t, constants.RiskLevelHigh, first.Score.RiskLevel)
	assert.Len(t, first.Factors, 8)
	assert.True(t, strings.HasPrefix(first.Message, "Risk score: 52."), first.Message)

	second, err := f.svc.CalculateActivity(ctx, highActivity("t1"), false)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Score.ID, second.Score.ID)
	assert.Empty(t, second.Alerts)

	forced, err := f.svc.CalculateActivity(ctx, highActivity("t1"), true)
	require.NoError(t, err)
	assert.False(t, forced.FromCache)
	assert.NotEqual(t, first.Score.ID, forced.Score.ID)
	require.NotNil(t, forced.Score.PreviousScore)
	assert.InDelta(t, 0, forced.Score.PreviousScore.Change, 1e-9)
}

func TestCalculate_StaleEntryIsRecomputed(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.svc.CalculateActivity(ctx, lowActivity("t1"), false)
	require.NoError(t, err)

	f.clock.Advance(2 * time.Hour)
	second, err := f.svc.CalculateActivity(ctx, lowActivity("t1"), false)
	require.NoError(t, err)
	assert.False(t, second.FromCache)
	assert.NotEqual(t, first.Score.ID, second.Score.ID)
}

func TestCalculate_FromRequestDTO(t *testing.T) {
	f := newFixture(t, nil)
	req := &dto.CalculateRequest{
		EmployerID:    "emp-1",
		EmployeeCount: 10,
		Requests: []dto.LeaveRequestDTO{
			{ID: "r1", Status: "approved", RequestedAt: "2024-06-10T09:00:00Z", ReviewedAt: "2024-06-11T09:00:00Z"},
		},
	}

	resp, err := f.svc.Calculate(context.Background(), "t1", req, false)
	require.NoError(t, err)
	assert.Equal(t, "t1", resp.Score.TenantID)
	assert.Equal(t, constants.ModelVersion, resp.Score.ModelVersion)
	assert.Equal(t, "2024-06-15T12:00:00Z", resp.Score.CalculatedAt)
}

func TestCalculate_BoundaryErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Calculate(ctx, "", &dto.CalculateRequest{EmployerID: "e"}, false)
	assert.Equal(t, http.StatusBadRequest, svcerrors.StatusOf(err))

	_, err = f.svc.Calculate(ctx, "t1", &dto.CalculateRequest{}, false)
	assert.Equal(t, http.StatusBadRequest, svcerrors.StatusOf(err))

	_, err = f.svc.Calculate(ctx, "t1", &dto.CalculateRequest{
		EmployerID: "e",
		Requests:   []dto.LeaveRequestDTO{{Status: "denied", RequestedAt: "last tuesday"}},
	}, false)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, svcerrors.StatusOf(err))

	_, err = f.svc.CalculateActivity(ctx, &models.TenantActivity{TenantID: "t1"}, false)
	assert.Equal(t, http.StatusBadRequest, svcerrors.StatusOf(err))
}

func TestCalculate_StrictValidation(t *testing.T) {
	invalid := lowActivity("t1")
	invalid.Balances = []models.AccrualBalance{{EmployeeID: "e1", YearlyAccrued: 40, YearlyUsed: -10}}

	strict := newFixture(t, nil)
	_, err := strict.svc.CalculateActivity(context.Background(), invalid, false)
	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, svcErr.HTTPStatus())
	assert.NotEmpty(t, svcErr.Metadata()["problems"])

	lenient := newFixture(t, func(cfg *RiskScoreAppServiceConfig, _ *RiskScoreAppServiceDeps) {
		cfg.StrictValidation = false
	})
	resp, err := lenient.svc.CalculateActivity(context.Background(), invalid, false)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Score.ID)
}

func TestCalculate_Metrics(t *testing.T) {
	metrics := &servicemocks.MockMetrics{}
	metrics.On("RecordCacheAccess", false).Once()
	metrics.On("RecordCacheAccess", true).Once()
	metrics.On("RecordScoreCalculated", constants.RiskLevelLow, mock.AnythingOfType("time.Duration")).Once()

	f := newFixture(t, func(_ *RiskScoreAppServiceConfig, deps *RiskScoreAppServiceDeps) {
		deps.Metrics = metrics
	})
	ctx := context.Background()
	_, err := f.svc.CalculateActivity(ctx, lowActivity("t1"), false)
	require.NoError(t, err)
	_, err = f.svc.CalculateActivity(ctx, lowActivity("t1"), false)
	require.NoError(t, err)

	metrics.AssertExpectations(t)
}

func TestCalculate_CacheFailuresDegrade(t *testing.T) {
	cache := &repomocks.MockScoreCache{}
	cache.On("Get", mock.Anything, "t1").Return(nil, svcerrors.ErrCacheUnavailable("down"))
	cache.On("Set", mock.Anything, "t1", mock.Anything, time.Hour).Return(svcerrors.ErrCacheUnavailable("down"))

	f := newFixture(t, func(_ *RiskScoreAppServiceConfig, deps *RiskScoreAppServiceDeps) {
		deps.Cache = cache
	})

	resp, err := f.svc.CalculateActivity(context.Background(), lowActivity("t1"), false)
	require.NoError(t, err)
	assert.False(t, resp.FromCache)
	cache.AssertExpectations(t)
}

func TestCalculate_HistoryFailureFails(t *testing.T) {
	history := &repomocks.MockScoreHistoryRepository{}
	history.On("Latest", mock.Anything, "t1").Return(nil, nil)
	history.On("Append", mock.Anything, mock.Anything, constants.DefaultHistoryLimit).Return(svcerrors.ErrRepository("append score history"))

	f := newFixture(t, func(_ *RiskScoreAppServiceConfig, deps *RiskScoreAppServiceDeps) {
		deps.History = history
	})

	_, err := f.svc.CalculateActivity(context.Background(), lowActivity("t1"), true)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, svcerrors.StatusOf(err))
}

func TestCalculate_ConcurrentCallsComputeOnce(t *testing.T) {
	f := newFixture(t, nil)
	impl := f.svc.(*riskScoreAppServiceImpl)

	var computed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.svc.CalculateActivity(context.Background(), lowActivity("t1"), false)
			if assert.NoError(t, err) && !resp.FromCache {
				computed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), computed.Load())
	history, err := f.svc.History(context.Background(), "t1")
	require.NoError(t, err)
	assert.Len(t, history.Entries, 1)
	assert.Equal(t, 0, impl.locks.size())
}

func TestCalculate_ConcurrentForcedCallsKeepCacheAndHistoryInStep(t *testing.T) {
	const n = 10
	f := newFixture(t, nil)
	impl := f.svc.(*riskScoreAppServiceImpl)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.svc.CalculateActivity(ctx, highActivity("t1"), true)
			if assert.NoError(t, err) {
				assert.False(t, resp.FromCache)
			}
		}()
	}
	wg.Wait()

	history, err := f.svc.History(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, history.Entries, n)

	cached, err := impl.cache.Get(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, history.Entries[n-1].ScoreID, cached.Score.ID)
	assert.Equal(t, 0, impl.locks.size())
}

// ================================================================================
// Alerts
// ================================================================================

func TestAlerts_RaisedOnElevationAndSpike(t *testing.T) {
	publisher := &servicemocks.MockAlertPublisher{}
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e models.AlertEvent) bool {
		return e.Action == constants.AlertActionRaised
	})).Return(nil).Twice()

	f := newFixture(t, func(_ *RiskScoreAppServiceConfig, deps *RiskScoreAppServiceDeps) {
		deps.Publisher = publisher
	})
	ctx := context.Background()

	low, err := f.svc.CalculateActivity(ctx, lowActivity("t1"), true)
	require.NoError(t, err)
	assert.Empty(t, low.Alerts)

	high, err := f.svc.CalculateActivity(ctx, highActivity("t1"), true)
	require.NoError(t, err)
	require.Len(t, high.Alerts, 2)

	elevated, spike := high.Alerts[0], high.Alerts[1]
	assert.Equal(t, constants.AlertTypeRiskLevelElevated, elevated.Type)
	assert.Equal(t, constants.RiskLevelHigh, elevated.Severity)
	assert.Equal(t, constants.AlertStatusActive, elevated.Status)
	assert.Equal(t, high.Score.ID, elevated.ScoreID)
	require.NotNil(t, elevated.PreviousScore)
	assert.InDelta(t, 9.5, *elevated.PreviousScore, 1e-9)

	assert.Equal(t, constants.AlertTypeScoreSpike, spike.Type)
	assert.Equal(t, constants.RiskLevelHigh, spike.Severity)
	assert.Contains(t, spike.Message, "+42.")

	again, err := f.svc.CalculateActivity(ctx, highActivity("t1"), true)
	require.NoError(t, err)
	assert.Empty(t, again.Alerts)

	publisher.AssertExpectations(t)
}

func TestAlerts_FirstScoreHighRaisesElevatedOnly(t *testing.T) {
	f := newFixture(t, nil)
	resp, err := f.svc.CalculateActivity(context.Background(), highActivity("t1"), false)
	require.NoError(t, err)
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, constants.AlertTypeRiskLevelElevated, resp.Alerts[0].Type)
	assert.Nil(t, resp.Alerts[0].PreviousScore)
}

// flakyAlerts fails the first failures Create calls.
type flakyAlerts struct {
	repository.RiskAlertRepository
	failures atomic.Int32
}

func (f *flakyAlerts) Create(ctx context.Context, alert *models.RiskAlert) error {
	if f.failures.Add(-1) >= 0 {
		return svcerrors.ErrRepository("create risk alert")
	}
	return f.RiskAlertRepository.Create(ctx, alert)
}

func TestAlerts_FailedAlertWriteIsRetriedOnNextCalculation(t *testing.T) {
	alerts := &flakyAlerts{RiskAlertRepository: memory.NewAlertRepository()}
	alerts.failures.Store(1)
	f := newFixture(t, func(_ *RiskScoreAppServiceConfig, deps *RiskScoreAppServiceDeps) {
		deps.Alerts = alerts
	})
	ctx := context.Background()

	_, err := f.svc.CalculateActivity(ctx, highActivity("t1"), false)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, svcerrors.StatusOf(err))

	history, err := f.svc.History(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, history.Entries)

	retry, err := f.svc.CalculateActivity(ctx, highActivity("t1"), false)
	require.NoError(t, err)
	assert.False(t, retry.FromCache)
	require.Len(t, retry.Alerts, 1)
	assert.Equal(t, constants.AlertTypeRiskLevelElevated, retry.Alerts[0].Type)

	cached, err := f.svc.CalculateActivity(ctx, highActivity("t1"), false)
	require.NoError(t, err)
	assert.True(t, cached.FromCache)

	stored, err := f.svc.ListAlerts(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, retry.Score.ID, stored[0].ScoreID)
}

func TestAlerts_DisabledRaisesNothing(t *testing.T) {
	f := newFixture(t, func(cfg *RiskScoreAppServiceConfig, _ *RiskScoreAppServiceDeps) {
		cfg.AlertsEnabled = false
	})
	resp, err := f.svc.CalculateActivity(context.Background(), highActivity("t1"), false)
	require.NoError(t, err)
	assert.Empty(t, resp.Alerts)
}

func TestAlerts_AutoResolvedWhenLevelNormalizes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.CalculateActivity(ctx, highActivity("t1"), true)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.svc.CalculateActivity(ctx, lowActivity("t1"), true)
	require.NoError(t, err)

	alerts, err := f.svc.ListAlerts(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, constants.AlertStatusResolved, alerts[0].Status)
	assert.Equal(t, constants.SystemActor, alerts[0].ResolvedBy)
	require.NotNil(t, alerts[0].ResolvedAt)
	assert.Equal(t, testNow.Add(time.Hour), *alerts[0].ResolvedAt)
}

func TestAlerts_Lifecycle(t *testing.T) {
	publisher := &servicemocks.MockAlertPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	f := newFixture(t, func(_ *RiskScoreAppServiceConfig, deps *RiskScoreAppServiceDeps) {
		deps.Publisher = publisher
	})
	ctx := context.Background()

	resp, err := f.svc.CalculateActivity(ctx, highActivity("t1"), false)
	require.NoError(t, err)
	alertID := resp.Alerts[0].ID

	f.clock.Advance(time.Minute)
	acked, err := f.svc.AcknowledgeAlert(ctx, "t1", alertID, "auditor")
	require.NoError(t, err)
	assert.Equal(t, constants.AlertStatusAcknowledged, acked.Status)
	assert.Equal(t, "auditor", acked.AcknowledgedBy)
	assert.Equal(t, testNow.Add(time.Minute), *acked.AcknowledgedAt)

	_, err = f.svc.AcknowledgeAlert(ctx, "t1", alertID, "auditor")
	assert.Equal(t, http.StatusBadRequest, svcerrors.StatusOf(err))

	resolved, err := f.svc.ResolveAlert(ctx, "t1", alertID, "auditor")
	require.NoError(t, err)
	assert.Equal(t, constants.AlertStatusResolved, resolved.Status)

	_, err = f.svc.ResolveAlert(ctx, "t1", alertID, "auditor")
	assert.Equal(t, http.StatusBadRequest, svcerrors.StatusOf(err))
	_, err = f.svc.AcknowledgeAlert(ctx, "t1", alertID, "auditor")
	assert.Equal(t, http.StatusBadRequest, svcerrors.StatusOf(err))

	_, err = f.svc.ResolveAlert(ctx, "t1", "missing", "auditor")
	assert.True(t, svcerrors.IsNotFoundError(err))
	_, err = f.svc.AcknowledgeAlert(ctx, "other-tenant", alertID, "auditor")
	assert.True(t, svcerrors.IsNotFoundError(err))

	publisher.AssertNumberOfCalls(t, "Publish", 3)
}

func TestListAlerts_EmptyTenant(t *testing.T) {
	f := newFixture(t, nil)
	alerts, err := f.svc.ListAlerts(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

// ================================================================================
// Read models
// ================================================================================

func TestSummary(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Summary(ctx, "t1")
	assert.True(t, svcerrors.IsNotFoundError(err))

	_, err = f.svc.CalculateActivity(ctx, highActivity("t1"), false)
	require.NoError(t, err)
	f.clock.Advance(90 * time.Second)

	summary, err := f.svc.Summary(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", summary.TenantID)
	assert.Equal(t, constants.RiskLevelHigh, summary.RiskLevel)
	assert.Equal(t, 75, summary.RiskBracket.Percentile)
	assert.True(t, strings.HasPrefix(summary.TopDriver, "High denial rate"))
	assert.Equal(t, 5, summary.RecommendationCount)
	assert.Equal(t, 3, summary.CriticalRecommendations)
	assert.Equal(t, "1m30s", summary.CacheAge)
}

func TestHistory(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	empty, err := f.svc.History(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, empty.HasHistory)
	assert.Empty(t, empty.Entries)
	assert.Equal(t, constants.HistoryTrendStable, empty.Trend)

	_, err = f.svc.CalculateActivity(ctx, lowActivity("t1"), true)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.svc.CalculateActivity(ctx, highActivity("t1"), true)
	require.NoError(t, err)

	history, err := f.svc.History(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, history.HasHistory)
	require.Len(t, history.Entries, 2)
	assert.InDelta(t, 9.5, history.Entries[0].OverallScore, 1e-9)
	assert.Equal(t, constants.HistoryTrendIncreasing, history.Trend)
	assert.InDelta(t, 42.75, history.ChangeFromFirst, 1e-9)

	f.clock.Advance(time.Hour)
	_, err = f.svc.CalculateActivity(ctx, lowActivity("t1"), true)
	require.NoError(t, err)
	history, err = f.svc.History(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, constants.HistoryTrendDecreasing, history.Trend)
	assert.InDelta(t, 0, history.ChangeFromFirst, 1e-9)
}

func TestHistoryTrend(t *testing.T) {
	assert.Equal(t, constants.HistoryTrendStable, historyTrend(1.99))
	assert.Equal(t, constants.HistoryTrendStable, historyTrend(-1.99))
	assert.Equal(t, constants.HistoryTrendIncreasing, historyTrend(2))
	assert.Equal(t, constants.HistoryTrendDecreasing, historyTrend(-2))
}

func TestClearCache(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.CalculateActivity(ctx, lowActivity("t1"), false)
	require.NoError(t, err)
	require.NoError(t, f.svc.ClearCache(ctx, "t1"))

	_, err = f.svc.Summary(ctx, "t1")
	assert.True(t, svcerrors.IsNotFoundError(err))

	resp, err := f.svc.CalculateActivity(ctx, lowActivity("t1"), false)
	require.NoError(t, err)
	assert.False(t, resp.FromCache)

	assert.Equal(t, http.StatusBadRequest, svcerrors.StatusOf(f.svc.ClearCache(ctx, "")))
}

func TestFactorsConfigAndModelInfo(t *testing.T) {
	f := newFixture(t, nil)
	assert.Len(t, f.svc.FactorsConfig().Weights, 8)
	assert.Equal(t, constants.ModelVersion, f.svc.ModelInfo().Version)
}

// ================================================================================
// Recalculate
// ================================================================================

func TestRecalculate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.activity.Put(*highActivity("t1"))

	_, err := f.svc.CalculateActivity(ctx, lowActivity("t1"), false)
	require.NoError(t, err)

	resp, err := f.svc.Recalculate(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, resp.FromCache)
	assert.Equal(t, constants.RiskLevelHigh, resp.Score.RiskLevel)

	_, err = f.svc.Recalculate(ctx, "unknown")
	assert.True(t, svcerrors.IsNotFoundError(err))
}

func TestRecalculate_NoLoader(t *testing.T) {
	f := newFixture(t, func(_ *RiskScoreAppServiceConfig, deps *RiskScoreAppServiceDeps) {
		deps.Loader = nil
	})
	_, err := f.svc.Recalculate(context.Background(), "t1")
	assert.Equal(t, http.StatusServiceUnavailable, svcerrors.StatusOf(err))
}
