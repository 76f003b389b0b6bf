package service

import (
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/pkg/constants"
)

type sequenceIDs struct {
	n atomic.Int64
}

func (s *sequenceIDs) NewID() string {
	return fmt.Sprintf("score-%d", s.n.Add(1))
}

func newTestEngine() *ScoringEngine {
	return NewScoringEngine(FixedClock{T: testNow}, &sequenceIDs{})
}

func TestCalculateScore_HighRisk(t *testing.T) {
	score := newTestEngine().CalculateScore("tenant-1", highRiskVector(), nil)

	assert.Equal(t, "score-1", score.ID)
	assert.Equal(t, "tenant-1", score.TenantID)
	assert.InDelta(t, 57.125, score.OverallScore, 1e-9)
	assert.Equal(t, constants.RiskLevelHigh, score.RiskLevel)
	assert.Equal(t, 75, score.RiskBracket.Percentile)
	assert.Len(t, score.Factors, 8)
	assert.Len(t, score.PrimaryRiskDrivers, 3)
	assert.Len(t, score.Recommendations, 5)
	assert.InDelta(t, 0.9, score.Confidence, 1e-9)
	assert.Equal(t, constants.ModelVersion, score.ModelVersion)
	assert.Equal(t, testNow, score.CalculatedAt)
	assert.Nil(t, score.PreviousScore)
}

func TestCalculateScore_AnalysisPeriod(t *testing.T) {
	score := newTestEngine().CalculateScore("t", models.FeatureVector{}, nil)

	assert.Equal(t, testNow, score.AnalysisPeriod.End)
	assert.Equal(t, testNow.Add(-90*24*time.Hour), score.AnalysisPeriod.Start)
	assert.Equal(t, "Q2 2024", score.AnalysisPeriod.Quarter)
}

func TestCalculateScore_PreviousScoreDelta(t *testing.T) {
	prevAt := testNow.Add(-48 * time.Hour)
	previous := &models.ScoreHistoryEntry{ScoreID: "old", OverallScore: 40, CalculatedAt: prevAt}

	score := newTestEngine().CalculateScore("t", highRiskVector(), previous)

	require.NotNil(t, score.PreviousScore)
	assert.Equal(t, 40.0, score.PreviousScore.Score)
	assert.Equal(t, prevAt, score.PreviousScore.Date)
	assert.InDelta(t, 17.125, score.PreviousScore.Change, 1e-9)
}

func TestCalculateScore_Deterministic(t *testing.T) {
	engine := NewScoringEngine(nil, nil)
	v := highRiskVector()

	a := engine.CalculateScore("t", v, nil)
	b := engine.CalculateScore("t", v, nil)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.OverallScore, b.OverallScore)
	assert.Equal(t, a.RiskLevel, b.RiskLevel)
	assert.Equal(t, a.RiskBracket, b.RiskBracket)
	assert.Equal(t, factorScores(a.Factors), factorScores(b.Factors))
	assert.Equal(t, a.PrimaryRiskDrivers, b.PrimaryRiskDrivers)
	assert.Equal(t, a.Recommendations, b.Recommendations)
}

func TestScore_EmptyInput(t *testing.T) {
	score, features := newTestEngine().Score(&models.TenantActivity{TenantID: "empty"}, nil)

	assert.Equal(t, "empty", score.TenantID)
	assert.Zero(t, features.DenialRate30Days)
	assert.Zero(t, features.AvgRequestsPerEmployee)
	// untracked accrual (50 x 0.15) plus low usage (20 x 0.10)
	assert.InDelta(t, 9.5, score.OverallScore, 1e-9)
	assert.Equal(t, constants.RiskLevelLow, score.RiskLevel)
	assert.LessOrEqual(t, score.RiskBracket.Percentile, 25)
	assert.LessOrEqual(t, len(score.Recommendations), 5)
}

func TestCalculateScore_NaNPropagatesUnvalidated(t *testing.T) {
	v := models.FeatureVector{DenialRate30Days: math.NaN(), DocumentationRate: 1, RecordRetentionCompliance: 1}

	score := newTestEngine().CalculateScore("t", v, nil)

	assert.True(t, math.IsNaN(score.OverallScore))
	assert.Equal(t, constants.RiskLevelLow, score.RiskLevel)
	assert.False(t, ValidateFeatures(v).IsValid)
}

func TestGetFactorsConfig(t *testing.T) {
	cfg := GetFactorsConfig()

	require.Len(t, cfg.Weights, 8)
	sum := 0.0
	for _, w := range cfg.Weights {
		sum += w.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Len(t, cfg.RiskLevels, 4)
	assert.Len(t, cfg.RiskBrackets, 6)
	assert.Equal(t, "denial rate", cfg.Weights[0].Label)
}

func TestGetModelInfo(t *testing.T) {
	info := GetModelInfo()

	assert.Equal(t, constants.ModelVersion, info.Version)
	assert.Equal(t, constants.FeatureCount, info.FeatureCount)
	assert.Len(t, info.Features, constants.FeatureCount)
	assert.Len(t, info.Categories, 8)
	assert.True(t, info.Deterministic)
}
