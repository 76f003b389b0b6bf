package service

import (
	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/pkg/constants"
)

// FactorWeight is one row of the weight table.
type FactorWeight struct {
	Category constants.RiskCategory `json:"category"`
	Label    string                 `json:"label"`
	Weight   float64                `json:"weight"`
}

// FactorsConfig is the static configuration of the scoring model.
type FactorsConfig struct {
	Weights           []FactorWeight     `json:"weights"`
	RiskLevels        []LevelThreshold   `json:"riskLevels"`
	RiskBrackets      []BracketThreshold `json:"riskBrackets"`
	PriorityBands     map[string]float64 `json:"priorityBands"`
	RecommendationMin float64            `json:"recommendationMinScore"`
}

// ModelInfo describes the scoring model.
type ModelInfo struct {
	Name          string                   `json:"name"`
	Version       string                   `json:"version"`
	FeatureCount  int                      `json:"featureCount"`
	Features      []string                 `json:"features"`
	Categories    []constants.RiskCategory `json:"categories"`
	Deterministic bool                     `json:"deterministic"`
	Description   string                   `json:"description"`
	Placeholders  []string                 `json:"placeholderFeatures"`
}

// GetFactorsConfig returns the weight table and threshold tables.
func GetFactorsConfig() FactorsConfig {
	weights := make([]FactorWeight, 0, len(constants.AllCategories))
	for _, c := range constants.AllCategories {
		weights = append(weights, FactorWeight{Category: c, Label: CategoryLabel(c), Weight: constants.CategoryWeights[c]})
	}
	levels := make([]LevelThreshold, len(LevelThresholds))
	copy(levels, LevelThresholds)
	brackets := make([]BracketThreshold, len(BracketThresholds))
	copy(brackets, BracketThresholds)

	return FactorsConfig{
		Weights:      weights,
		RiskLevels:   levels,
		RiskBrackets: brackets,
		PriorityBands: map[string]float64{
			string(constants.PriorityCritical): 70,
			string(constants.PriorityHigh):     50,
			string(constants.PriorityMedium):   35,
			string(constants.PriorityLow):      constants.RecommendationMinScore,
		},
		RecommendationMin: constants.RecommendationMinScore,
	}
}

// GetModelInfo returns descriptive metadata for the model.
func GetModelInfo() ModelInfo {
	values := models.FeatureVector{}.Values()
	features := make([]string, 0, len(values))
	for _, v := range values {
		features = append(features, v.Name)
	}
	categories := make([]constants.RiskCategory, len(constants.AllCategories))
	copy(categories, constants.AllCategories)

	return ModelInfo{
		Name:          constants.ModelName,
		Version:       constants.ModelVersion,
		FeatureCount:  len(features),
		Features:      features,
		Categories:    categories,
		Deterministic: true,
		Description:   "Hand-weighted multi-factor model scoring eight compliance risk categories from 0 to 100 and aggregating them by fixed weights. No training or probabilistic inference is involved.",
		Placeholders: []string{
			"documentationRate",
			"missingDocumentationCount",
			"lateDocumentationRate",
			"employeeTurnoverRate",
			"complaintRate",
			"recordRetentionCompliance",
			"auditTrailGaps",
			"dataIntegrityIssues",
			"priorAuditFindings",
			"yearsInBusiness",
		},
	}
}
