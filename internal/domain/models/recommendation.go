package models

import "github.com/turtacn/pslrisk/pkg/constants"

// Recommendation is an actionable remediation item derived from a high-scoring factor.
type Recommendation struct {
	ID                      string                 `json:"id"`
	Category                constants.RiskCategory `json:"category"`
	Priority                constants.Priority     `json:"priority"`
	Title                   string                 `json:"title"`
	Description             string                 `json:"description"`
	ExpectedImpact          string                 `json:"expectedImpact"`
	EstimatedScoreReduction float64                `json:"estimatedScoreReduction"`
	ActionItems             []string               `json:"actionItems"`
	Resources               []string               `json:"resources,omitempty"`
}
