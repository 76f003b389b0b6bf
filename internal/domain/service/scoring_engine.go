package service

import (
	"math"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/pkg/constants"
	"github.com/turtacn/pslrisk/pkg/utils"
)

// ScoringEngine runs the full pipeline from feature vector to risk score.
// It holds no mutable state and is safe for concurrent use.
type ScoringEngine struct {
	clock     Clock
	ids       IDGenerator
	extractor *FeatureExtractor
}

// NewScoringEngine creates an engine. Nil collaborators default to the wall clock and random UUIDs.
func NewScoringEngine(clock Clock, ids IDGenerator) *ScoringEngine {
	if clock == nil {
		clock = SystemClock{}
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &ScoringEngine{
		clock:     clock,
		ids:       ids,
		extractor: NewFeatureExtractor(clock),
	}
}

// ExtractFeatures reduces activity to a feature vector using the engine's clock.
func (e *ScoringEngine) ExtractFeatures(activity *models.TenantActivity) models.FeatureVector {
	return e.extractor.Extract(activity)
}

// CalculateScore scores a feature vector. When previous is non-nil the delta against it is recorded.
// The vector is not validated here; see ValidateFeatures.
func (e *ScoringEngine) CalculateScore(tenantID string, features models.FeatureVector, previous *models.ScoreHistoryEntry) *models.RiskScore {
	now := e.clock.Now()

	factors := CalculateFactors(features)
	overall := Aggregate(factors)
	level := ClassifyLevel(overall)

	dataPoints := 0
	for _, f := range factors {
		dataPoints += f.DataPoints
	}

	score := &models.RiskScore{
		ID:           e.ids.NewID(),
		TenantID:     tenantID,
		OverallScore: overall,
		RiskLevel:    level,
		RiskBracket:  ClassifyBracket(overall),
		Factors:      factors,
		AnalysisPeriod: models.AnalysisPeriod{
			Start:   now.Add(-constants.AnalysisWindow),
			End:     now,
			Quarter: utils.QuarterLabel(now),
		},
		PrimaryRiskDrivers: PrimaryDrivers(factors),
		Recommendations:    Recommend(factors, level),
		Confidence:         math.Min(0.95, 0.5+float64(dataPoints)*0.05),
		ModelVersion:       constants.ModelVersion,
		CalculatedAt:       now,
	}

	if previous != nil {
		score.PreviousScore = &models.PreviousScore{
			Score:  previous.OverallScore,
			Date:   previous.CalculatedAt,
			Change: overall - previous.OverallScore,
		}
	}
	return score
}

// Score extracts features from activity and scores them in one call.
func (e *ScoringEngine) Score(activity *models.TenantActivity, previous *models.ScoreHistoryEntry) (*models.RiskScore, models.FeatureVector) {
	features := e.ExtractFeatures(activity)
	tenantID := ""
	if activity != nil {
		tenantID = activity.TenantID
	}
	return e.CalculateScore(tenantID, features, previous), features
}
