package models

import (
	"time"

	"github.com/turtacn/pslrisk/pkg/constants"
)

// ScoreHistoryEntry is one stored computation for a tenant.
type ScoreHistoryEntry struct {
	ScoreID      string              `json:"scoreId"`
	TenantID     string              `json:"tenantId"`
	OverallScore float64             `json:"overallScore"`
	RiskLevel    constants.RiskLevel `json:"riskLevel"`
	CalculatedAt time.Time           `json:"calculatedAt"`
}

// ScoreHistory is a tenant's history, oldest first.
type ScoreHistory struct {
	TenantID        string                 `json:"tenantId"`
	HasHistory      bool                   `json:"hasHistory"`
	Entries         []ScoreHistoryEntry    `json:"entries"`
	Trend           constants.HistoryTrend `json:"trend"`
	ChangeFromFirst float64                `json:"changeFromFirst"`
}

// ScoreSummary is the lightweight dashboard view of the latest score.
type ScoreSummary struct {
	TenantID                string              `json:"tenantId"`
	OverallScore            float64             `json:"overallScore"`
	RiskLevel               constants.RiskLevel `json:"riskLevel"`
	RiskBracket             RiskBracket         `json:"riskBracket"`
	TopDriver               string              `json:"topDriver,omitempty"`
	RecommendationCount     int                 `json:"recommendationCount"`
	CriticalRecommendations int                 `json:"criticalRecommendations"`
	CalculatedAt            time.Time           `json:"calculatedAt"`
	CacheAge                string              `json:"cacheAge"`
}
