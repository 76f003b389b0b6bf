package models

import (
	"time"

	"github.com/turtacn/pslrisk/pkg/constants"
)

// RiskFactor is the score of a single risk category.
type RiskFactor struct {
	Category    constants.RiskCategory `json:"category"`
	Score       float64                `json:"score"`
	Weight      float64                `json:"weight"`
	Description string                 `json:"description"`
	Trend       constants.Trend        `json:"trend"`
	DataPoints  int                    `json:"dataPoints"`
	Details     map[string]float64     `json:"details"`
}

// WeightedScore is the factor's contribution to the overall score.
func (f RiskFactor) WeightedScore() float64 {
	return f.Score * f.Weight
}

// RiskBracket places a score among peers by percentile.
type RiskBracket struct {
	Percentile  int    `json:"percentile"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// AnalysisPeriod is the window a score covers.
type AnalysisPeriod struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Quarter string    `json:"quarter"`
}

// PreviousScore is the delta against the tenant's prior score.
type PreviousScore struct {
	Score  float64   `json:"score"`
	Date   time.Time `json:"date"`
	Change float64   `json:"change"`
}

// RiskScore is the aggregate output of one scoring run.
type RiskScore struct {
	ID                 string              `json:"id"`
	TenantID           string              `json:"tenantId"`
	OverallScore       float64             `json:"overallScore"`
	RiskLevel          constants.RiskLevel `json:"riskLevel"`
	RiskBracket        RiskBracket         `json:"riskBracket"`
	Factors            []RiskFactor        `json:"factors"`
	AnalysisPeriod     AnalysisPeriod      `json:"analysisPeriod"`
	PrimaryRiskDrivers []string            `json:"primaryRiskDrivers"`
	Recommendations    []Recommendation    `json:"recommendations"`
	Confidence         float64             `json:"confidence"`
	ModelVersion       string              `json:"modelVersion"`
	CalculatedAt       time.Time           `json:"calculatedAt"`
	PreviousScore      *PreviousScore      `json:"previousScore,omitempty"`
}

// Factor returns the factor for category, if present.
func (s *RiskScore) Factor(category constants.RiskCategory) (RiskFactor, bool) {
	for _, f := range s.Factors {
		if f.Category == category {
			return f, true
		}
	}
	return RiskFactor{}, false
}

// CachedScore is a cache entry: the score and when it was computed.
type CachedScore struct {
	Score      *RiskScore `json:"score"`
	ComputedAt time.Time  `json:"computedAt"`
}

// IsStale reports whether the entry is older than ttl at now.
func (c *CachedScore) IsStale(now time.Time, ttl time.Duration) bool {
	if c == nil || c.Score == nil {
		return true
	}
	return ttl > 0 && now.Sub(c.ComputedAt) > ttl
}
