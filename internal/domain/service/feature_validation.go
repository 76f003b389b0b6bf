package service

import (
	"fmt"
	"math"

	"github.com/turtacn/pslrisk/internal/domain/models"
)

// rateFeatures must lie in [0,1].
var rateFeatures = map[string]bool{
	"denialRate30Days":          true,
	"denialRate90Days":          true,
	"denialRateYearly":          true,
	"avgAccrualUtilization":     true,
	"usageVariance":             true,
	"documentationRate":         true,
	"lateDocumentationRate":     true,
	"employeeTurnoverRate":      true,
	"complaintRate":             true,
	"recordRetentionCompliance": true,
}

// trendFeatures must lie in [-1,1].
var trendFeatures = map[string]bool{
	"denialTrend": true,
}

// ValidateFeatures checks a vector for NaN, infinite, and out-of-range values.
// It reports problems in the result and never returns an error. Scoring does not call it.
func ValidateFeatures(v models.FeatureVector) models.FeatureValidationResult {
	result := models.FeatureValidationResult{IsValid: true, Errors: []models.FeatureValidationError{}}
	add := func(name string, value float64, msg string) {
		result.IsValid = false
		result.Errors = append(result.Errors, models.FeatureValidationError{Field: name, Value: value, Message: msg})
	}

	for _, fv := range v.Values() {
		switch {
		case math.IsNaN(fv.Value):
			add(fv.Name, fv.Value, "value is NaN")
		case math.IsInf(fv.Value, 0):
			add(fv.Name, fv.Value, "value is infinite")
		case rateFeatures[fv.Name] && (fv.Value < 0 || fv.Value > 1):
			add(fv.Name, fv.Value, fmt.Sprintf("rate %.4f outside [0,1]", fv.Value))
		case trendFeatures[fv.Name] && (fv.Value < -1 || fv.Value > 1):
			add(fv.Name, fv.Value, fmt.Sprintf("trend %.4f outside [-1,1]", fv.Value))
		case !rateFeatures[fv.Name] && !trendFeatures[fv.Name] && fv.Value < 0:
			add(fv.Name, fv.Value, "value must not be negative")
		}
	}
	return result
}
