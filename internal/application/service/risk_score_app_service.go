// Package service implements the application use cases around the risk scoring engine.
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/pslrisk/internal/application/dto"
	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/internal/domain/repository"
	domainservice "github.com/turtacn/pslrisk/internal/domain/service"
	"github.com/turtacn/pslrisk/pkg/constants"
	"github.com/turtacn/pslrisk/pkg/errors"
	"github.com/turtacn/pslrisk/pkg/logger"
	"github.com/turtacn/pslrisk/pkg/utils"
)

const tracerName = "github.com/turtacn/pslrisk/internal/application/service"

// RiskScoreAppService defines the scoring use cases exposed at the service boundary.
// RiskScoreAppService 风险评分应用服务接口。
type RiskScoreAppService interface {
	// Calculate scores the submitted activity, serving the cached score unless force is set or the entry is stale.
	// Calculate 计算评分，除非强制刷新或缓存过期，否则返回缓存结果。
	Calculate(ctx context.Context, tenantID string, req *dto.CalculateRequest, force bool) (*dto.CalculateResponse, error)

	// CalculateActivity is Calculate over an already parsed snapshot.
	// CalculateActivity 针对已解析的活动快照计算评分。
	CalculateActivity(ctx context.Context, activity *models.TenantActivity, force bool) (*dto.CalculateResponse, error)

	// Recalculate loads the tenant's activity from the system of record and forces a fresh score.
	// Recalculate 从记录系统加载活动数据并强制重新计算。
	Recalculate(ctx context.Context, tenantID string) (*dto.CalculateResponse, error)

	// Summary returns the dashboard view of the latest cached score.
	// Summary 返回最新评分的摘要视图。
	Summary(ctx context.Context, tenantID string) (*models.ScoreSummary, error)

	// History returns stored scores oldest first with their trend.
	// History 返回按时间排序的历史评分及趋势。
	History(ctx context.Context, tenantID string) (*models.ScoreHistory, error)

	// ClearCache drops the tenant's cached score.
	// ClearCache 清除租户的评分缓存。
	ClearCache(ctx context.Context, tenantID string) error

	// ListAlerts returns the tenant's alerts newest first.
	// ListAlerts 列出租户告警。
	ListAlerts(ctx context.Context, tenantID string) ([]models.RiskAlert, error)

	// AcknowledgeAlert moves an active alert to acknowledged.
	// AcknowledgeAlert 确认告警。
	AcknowledgeAlert(ctx context.Context, tenantID, alertID, actor string) (*models.RiskAlert, error)

	// ResolveAlert moves an open alert to resolved.
	// ResolveAlert 解决告警。
	ResolveAlert(ctx context.Context, tenantID, alertID, actor string) (*models.RiskAlert, error)

	// FactorsConfig returns the static weight and threshold tables.
	FactorsConfig() domainservice.FactorsConfig

	// ModelInfo returns the scoring model metadata.
	ModelInfo() domainservice.ModelInfo
}

// RiskScoreAppServiceConfig tunes caching, history and alerting.
type RiskScoreAppServiceConfig struct {
	CacheTTL         time.Duration
	HistoryLimit     int
	StrictValidation bool
	AlertsEnabled    bool
	SpikeThreshold   float64
}

// DefaultRiskScoreAppServiceConfig returns the production defaults.
func DefaultRiskScoreAppServiceConfig() RiskScoreAppServiceConfig {
	return RiskScoreAppServiceConfig{
		CacheTTL:         constants.DefaultScoreCacheTTL,
		HistoryLimit:     constants.DefaultHistoryLimit,
		StrictValidation: true,
		AlertsEnabled:    true,
		SpikeThreshold:   constants.DefaultSpikeThreshold,
	}
}

// RiskScoreAppServiceDeps are the collaborators of the service. Loader, Publisher, Metrics, Clock, IDs
// and Logger are optional.
type RiskScoreAppServiceDeps struct {
	Cache     repository.ScoreCache
	History   repository.ScoreHistoryRepository
	Alerts    repository.RiskAlertRepository
	Loader    *ActivityLoader
	Publisher domainservice.AlertPublisher
	Metrics   domainservice.Metrics
	Clock     domainservice.Clock
	IDs       domainservice.IDGenerator
	Logger    logger.Logger
}

type riskScoreAppServiceImpl struct {
	cfg       RiskScoreAppServiceConfig
	engine    *domainservice.ScoringEngine
	cache     repository.ScoreCache
	history   repository.ScoreHistoryRepository
	alerts    repository.RiskAlertRepository
	loader    *ActivityLoader
	publisher domainservice.AlertPublisher
	metrics   domainservice.Metrics
	clock     domainservice.Clock
	ids       domainservice.IDGenerator
	logger    logger.Logger
	locks     *tenantLocks
	tracer    trace.Tracer
}

// NewRiskScoreAppService creates a new instance of RiskScoreAppService.
// NewRiskScoreAppService 创建风险评分应用服务实例。
func NewRiskScoreAppService(cfg RiskScoreAppServiceConfig, deps RiskScoreAppServiceDeps) RiskScoreAppService {
	if deps.Clock == nil {
		deps.Clock = domainservice.SystemClock{}
	}
	if deps.IDs == nil {
		deps.IDs = domainservice.UUIDGenerator{}
	}
	if deps.Metrics == nil {
		deps.Metrics = domainservice.NoopMetrics{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoopLogger()
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = constants.DefaultHistoryLimit
	}
	if cfg.SpikeThreshold <= 0 {
		cfg.SpikeThreshold = constants.DefaultSpikeThreshold
	}

	return &riskScoreAppServiceImpl{
		cfg:       cfg,
		engine:    domainservice.NewScoringEngine(deps.Clock, deps.IDs),
		cache:     deps.Cache,
		history:   deps.History,
		alerts:    deps.Alerts,
		loader:    deps.Loader,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		clock:     deps.Clock,
		ids:       deps.IDs,
		logger:    deps.Logger.WithComponent("RiskScoreAppService"),
		locks:     newTenantLocks(),
		tracer:    otel.Tracer(tracerName),
	}
}

// ================================================================================
// Scoring
// ================================================================================

func (s *riskScoreAppServiceImpl) Calculate(ctx context.Context, tenantID string, req *dto.CalculateRequest, force bool) (*dto.CalculateResponse, error) {
	if tenantID == "" {
		return nil, errors.ErrMissingRequiredParameter("tenantId")
	}
	if req == nil {
		return nil, errors.ErrInvalidRequest("Request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	activity, err := req.ToDomain(tenantID)
	if err != nil {
		return nil, err
	}
	return s.CalculateActivity(ctx, activity, force)
}

func (s *riskScoreAppServiceImpl) CalculateActivity(ctx context.Context, activity *models.TenantActivity, force bool) (*dto.CalculateResponse, error) {
	if activity == nil || activity.TenantID == "" {
		return nil, errors.ErrMissingRequiredParameter("tenantId")
	}
	if activity.EmployerID == "" {
		return nil, errors.ErrMissingRequiredParameter("employerId")
	}
	tenantID := activity.TenantID

	ctx, span := s.tracer.Start(ctx, "RiskScoreAppService.Calculate",
		trace.WithAttributes(attribute.String("tenant_id", tenantID), attribute.Bool("force", force)))
	defer span.End()
	ctx = context.WithValue(ctx, constants.ContextKeyTenantID, tenantID)

	unlock := s.locks.Lock(tenantID)
	defer unlock()

	if !force {
		if cached := s.freshCachedScore(ctx, tenantID); cached != nil {
			s.metrics.RecordCacheAccess(true)
			s.logger.Debug(ctx, "Serving cached risk score", logger.String("score_id", cached.Score.ID))
			span.SetAttributes(attribute.Bool("from_cache", true))
			return newCalculateResponse(cached.Score, nil, true), nil
		}
		s.metrics.RecordCacheAccess(false)
	}

	resp, err := s.compute(ctx, activity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return resp, nil
}

// freshCachedScore returns the usable cache entry or nil. Read failures degrade to a miss.
func (s *riskScoreAppServiceImpl) freshCachedScore(ctx context.Context, tenantID string) *models.CachedScore {
	cached, err := s.cache.Get(ctx, tenantID)
	if err != nil {
		s.logger.Warn(ctx, "Score cache read failed, recomputing", logger.String("error", err.Error()))
		return nil
	}
	if cached.IsStale(s.clock.Now(), s.cfg.CacheTTL) {
		return nil
	}
	return cached
}

func (s *riskScoreAppServiceImpl) compute(ctx context.Context, activity *models.TenantActivity) (*dto.CalculateResponse, error) {
	tenantID := activity.TenantID
	start := time.Now()

	previous, err := s.history.Latest(ctx, tenantID)
	if err != nil {
		s.logger.Error(ctx, "Failed to load previous score", err)
		return nil, err
	}

	features := s.engine.ExtractFeatures(activity)
	if s.cfg.StrictValidation {
		if result := domainservice.ValidateFeatures(features); !result.IsValid {
			s.logger.Warn(ctx, "Feature vector rejected", logger.Any("problems", result.Messages()))
			return nil, errors.ErrInvalidFeatures(result.Messages())
		}
	}

	score := s.engine.CalculateScore(tenantID, features, previous)

	// Nothing is persisted until the alert policy has succeeded.
	var raised []models.RiskAlert
	if s.cfg.AlertsEnabled && s.alerts != nil {
		raised, err = s.applyAlertPolicy(ctx, score, previous)
		if err != nil {
			return nil, err
		}
	}

	entry := &models.ScoreHistoryEntry{
		ScoreID:      score.ID,
		TenantID:     tenantID,
		OverallScore: score.OverallScore,
		RiskLevel:    score.RiskLevel,
		CalculatedAt: score.CalculatedAt,
	}
	if err := s.history.Append(ctx, entry, s.cfg.HistoryLimit); err != nil {
		s.logger.Error(ctx, "Failed to append score history", err)
		return nil, err
	}

	if err := s.cache.Set(ctx, tenantID, &models.CachedScore{Score: score, ComputedAt: score.CalculatedAt}, s.cfg.CacheTTL); err != nil {
		s.logger.Warn(ctx, "Score cache write failed", logger.String("error", err.Error()))
	}

	duration := time.Since(start)
	s.metrics.RecordScoreCalculated(score.RiskLevel, duration)
	s.logger.Info(ctx, "Risk score calculated",
		logger.String("score_id", score.ID),
		logger.Float64("overall_score", score.OverallScore),
		logger.String("risk_level", string(score.RiskLevel)),
		logger.Int("alerts_raised", len(raised)),
		logger.Duration("duration", duration),
	)
	return newCalculateResponse(score, raised, false), nil
}

func newCalculateResponse(score *models.RiskScore, alerts []models.RiskAlert, fromCache bool) *dto.CalculateResponse {
	if alerts == nil {
		alerts = []models.RiskAlert{}
	}
	return &dto.CalculateResponse{
		Score:     dto.NewScoreDTO(score),
		Factors:   score.Factors,
		Alerts:    alerts,
		FromCache: fromCache,
		Message:   dto.SummaryMessage(score),
	}
}

func (s *riskScoreAppServiceImpl) Recalculate(ctx context.Context, tenantID string) (*dto.CalculateResponse, error) {
	if tenantID == "" {
		return nil, errors.ErrMissingRequiredParameter("tenantId")
	}
	if s.loader == nil {
		return nil, errors.ErrTemporarilyUnavailable("No activity source is configured")
	}
	activity, err := s.loader.Load(ctx, tenantID)
	if err != nil {
		s.logger.Error(ctx, "Failed to load tenant activity", err, logger.String("tenant_id", tenantID))
		return nil, err
	}
	return s.CalculateActivity(ctx, activity, true)
}

// ================================================================================
// Read models
// ================================================================================

func (s *riskScoreAppServiceImpl) Summary(ctx context.Context, tenantID string) (*models.ScoreSummary, error) {
	if tenantID == "" {
		return nil, errors.ErrMissingRequiredParameter("tenantId")
	}
	cached, err := s.cache.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if cached.IsStale(now, s.cfg.CacheTTL) {
		return nil, errors.ErrScoreNotFound(tenantID)
	}

	score := cached.Score
	summary := &models.ScoreSummary{
		TenantID:            tenantID,
		OverallScore:        score.OverallScore,
		RiskLevel:           score.RiskLevel,
		RiskBracket:         score.RiskBracket,
		RecommendationCount: len(score.Recommendations),
		CalculatedAt:        score.CalculatedAt,
		CacheAge:            utils.FormatDuration(now.Sub(cached.ComputedAt)),
	}
	if len(score.PrimaryRiskDrivers) > 0 {
		summary.TopDriver = score.PrimaryRiskDrivers[0]
	}
	for _, r := range score.Recommendations {
		if r.Priority == constants.PriorityCritical {
			summary.CriticalRecommendations++
		}
	}
	return summary, nil
}

func (s *riskScoreAppServiceImpl) History(ctx context.Context, tenantID string) (*models.ScoreHistory, error) {
	if tenantID == "" {
		return nil, errors.ErrMissingRequiredParameter("tenantId")
	}
	entries, err := s.history.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	history := &models.ScoreHistory{
		TenantID:   tenantID,
		HasHistory: len(entries) > 0,
		Entries:    entries,
		Trend:      constants.HistoryTrendStable,
	}
	if history.Entries == nil {
		history.Entries = []models.ScoreHistoryEntry{}
	}
	if n := len(entries); n > 0 {
		history.ChangeFromFirst = utils.Round(entries[n-1].OverallScore-entries[0].OverallScore, 2)
		if n > 1 {
			history.Trend = historyTrend(entries[n-1].OverallScore - entries[n-2].OverallScore)
		}
	}
	return history, nil
}

func historyTrend(delta float64) constants.HistoryTrend {
	switch {
	case math.Abs(delta) < constants.HistoryStableBand:
		return constants.HistoryTrendStable
	case delta > 0:
		return constants.HistoryTrendIncreasing
	default:
		return constants.HistoryTrendDecreasing
	}
}

func (s *riskScoreAppServiceImpl) ClearCache(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return errors.ErrMissingRequiredParameter("tenantId")
	}
	unlock := s.locks.Lock(tenantID)
	defer unlock()

	if err := s.cache.Delete(ctx, tenantID); err != nil {
		s.logger.Error(ctx, "Failed to clear score cache", err, logger.String("tenant_id", tenantID))
		return err
	}
	s.logger.Info(ctx, "Score cache cleared", logger.String("tenant_id", tenantID))
	return nil
}

func (s *riskScoreAppServiceImpl) FactorsConfig() domainservice.FactorsConfig {
	return domainservice.GetFactorsConfig()
}

func (s *riskScoreAppServiceImpl) ModelInfo() domainservice.ModelInfo {
	return domainservice.GetModelInfo()
}

// describeDelta formats a signed score change for alert messages.
func describeDelta(delta float64) string {
	return fmt.Sprintf("%+.1f", delta)
}

//Personal.AI order the ending
