package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/pkg/constants"
)

// LevelThreshold maps a minimum score to a risk level.
type LevelThreshold struct {
	MinScore float64             `json:"minScore"`
	Level    constants.RiskLevel `json:"level"`
}

// BracketThreshold maps a minimum score to a peer bracket.
type BracketThreshold struct {
	MinScore float64            `json:"minScore"`
	Bracket  models.RiskBracket `json:"bracket"`
}

// LevelThresholds is evaluated top to bottom; the first match wins.
var LevelThresholds = []LevelThreshold{
	{MinScore: constants.CriticalThreshold, Level: constants.RiskLevelCritical},
	{MinScore: constants.HighThreshold, Level: constants.RiskLevelHigh},
	{MinScore: constants.MediumThreshold, Level: constants.RiskLevelMedium},
	{MinScore: 0, Level: constants.RiskLevelLow},
}

// BracketThresholds is evaluated top to bottom; the first match wins.
var BracketThresholds = []BracketThreshold{
	{MinScore: 80, Bracket: models.RiskBracket{Percentile: 92, Label: "top 8%", Description: "Higher audit risk than 92% of comparable employers. An audit is likely without immediate remediation."}},
	{MinScore: 65, Bracket: models.RiskBracket{Percentile: 85, Label: "top 15%", Description: "Higher audit risk than 85% of comparable employers. Remediation should be prioritized this quarter."}},
	{MinScore: 50, Bracket: models.RiskBracket{Percentile: 75, Label: "top 25%", Description: "Higher audit risk than 75% of comparable employers. Several practices would draw attention in an audit."}},
	{MinScore: 35, Bracket: models.RiskBracket{Percentile: 50, Label: "above average", Description: "Audit risk is above the median for comparable employers."}},
	{MinScore: 20, Bracket: models.RiskBracket{Percentile: 25, Label: "below average", Description: "Audit risk is below the median for comparable employers."}},
	{MinScore: 0, Bracket: models.RiskBracket{Percentile: 10, Label: "low risk", Description: "Audit risk is among the lowest of comparable employers."}},
}

// Aggregate returns the weighted mean of the factor scores.
// An empty list yields NaN (0/0); callers that can produce one must check.
func Aggregate(factors []models.RiskFactor) float64 {
	var weighted, weights float64
	for _, f := range factors {
		weighted += f.Score * f.Weight
		weights += f.Weight
	}
	return weighted / weights
}

// ClassifyLevel maps a score to a risk level. NaN classifies as low.
func ClassifyLevel(score float64) constants.RiskLevel {
	for _, t := range LevelThresholds {
		if score >= t.MinScore {
			return t.Level
		}
	}
	return constants.RiskLevelLow
}

// ClassifyBracket maps a score to a peer percentile bracket.
func ClassifyBracket(score float64) models.RiskBracket {
	for _, t := range BracketThresholds {
		if score >= t.MinScore {
			return t.Bracket
		}
	}
	return BracketThresholds[len(BracketThresholds)-1].Bracket
}

// PrimaryDrivers returns up to three explanations for the biggest weighted contributors scoring above 20.
func PrimaryDrivers(factors []models.RiskFactor) []string {
	sorted := make([]models.RiskFactor, len(factors))
	copy(sorted, factors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeightedScore() > sorted[j].WeightedScore()
	})

	drivers := make([]string, 0, constants.MaxPrimaryDrivers)
	for _, f := range sorted {
		if len(drivers) == constants.MaxPrimaryDrivers {
			break
		}
		if f.Score <= constants.DriverMinScore {
			continue
		}
		drivers = append(drivers, fmt.Sprintf("High %s: %s", CategoryLabel(f.Category), f.Description))
	}
	return drivers
}

// CategoryLabel renders a category for display, e.g. "denial rate".
func CategoryLabel(category constants.RiskCategory) string {
	return strings.ReplaceAll(string(category), "_", " ")
}
