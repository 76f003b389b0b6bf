package service

import (
	"fmt"
	"math"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/pkg/constants"
)

// factorScorer scores one category from the feature vector.
type factorScorer func(v models.FeatureVector) models.RiskFactor

// factorScorers is the closed category to scorer table.
var factorScorers = map[constants.RiskCategory]factorScorer{
	constants.CategoryDenialRate:              scoreDenialRate,
	constants.CategoryAccrualPatterns:         scoreAccrualPatterns,
	constants.CategoryUsagePatterns:           scoreUsagePatterns,
	constants.CategoryDocumentationCompliance: scoreDocumentationCompliance,
	constants.CategoryTimeliness:              scoreTimeliness,
	constants.CategoryEmployeeComplaints:      scoreEmployeeComplaints,
	constants.CategoryRecordKeeping:           scoreRecordKeeping,
	constants.CategoryPolicyAdherence:         scorePolicyAdherence,
}

// CalculateFactors scores all eight categories in canonical order.
// Non-finite scores and details are zeroed so an unvalidated vector still encodes as JSON;
// an infinite score clamps to its bound.
func CalculateFactors(v models.FeatureVector) []models.RiskFactor {
	factors := make([]models.RiskFactor, 0, len(constants.AllCategories))
	for _, category := range constants.AllCategories {
		f := factorScorers[category](v)
		f.Category = category
		f.Weight = constants.CategoryWeights[category]
		if math.IsNaN(f.Score) {
			f.Score = 0
		}
		f.Score = clamp(f.Score, 0, 100)
		for k, d := range f.Details {
			if math.IsNaN(d) || math.IsInf(d, 0) {
				f.Details[k] = 0
			}
		}
		if f.Trend == "" {
			f.Trend = constants.TrendStable
		}
		if f.DataPoints == 0 {
			f.DataPoints = 1
		}
		factors = append(factors, f)
	}
	return factors
}

func capped(v, limit float64) float64 {
	return math.Min(v, limit)
}

func scoreDenialRate(v models.FeatureVector) models.RiskFactor {
	blended := (v.DenialRate30Days*0.5 + v.DenialRate90Days*0.3 + v.DenialRateYearly*0.2) * 100
	streakPenalty := capped(float64(v.ConsecutiveDenials)*5, 20)
	trendPenalty := 0.0
	if v.DenialTrend > 0 {
		trendPenalty = v.DenialTrend * 15
	}

	trend := constants.TrendStable
	switch {
	case v.DenialTrend > 0.1:
		trend = constants.TrendWorsening
	case v.DenialTrend < -0.1:
		trend = constants.TrendImproving
	}

	return models.RiskFactor{
		Score:       blended + streakPenalty + trendPenalty,
		Description: fmt.Sprintf("%.1f%% of requests denied in the last 30 days, %d consecutive denials", v.DenialRate30Days*100, v.ConsecutiveDenials),
		Trend:       trend,
		Details: map[string]float64{
			"denialRate30Days":   v.DenialRate30Days,
			"denialRate90Days":   v.DenialRate90Days,
			"denialRateYearly":   v.DenialRateYearly,
			"denialTrend":        v.DenialTrend,
			"consecutiveDenials": float64(v.ConsecutiveDenials),
		},
	}
}

func scoreAccrualPatterns(v models.FeatureVector) models.RiskFactor {
	score := 0.0
	description := fmt.Sprintf("Average accrual utilization of %.1f%%", v.AvgAccrualUtilization*100)
	switch {
	case v.AvgAccrualUtilization < 0.1:
		// Almost no recorded usage usually means accrual is not being tracked.
		score = 50
		description += ", suggesting accrual may not be tracked"
	case v.AvgAccrualUtilization > 0.9:
		score = 30
		description += ", balances are close to exhausted"
	}
	score += capped(float64(v.AccrualCalculationErrors)*10, 30)
	score += capped(float64(v.LateAccrualUpdates)*5, 20)

	return models.RiskFactor{
		Score:       score,
		Description: description,
		Details: map[string]float64{
			"avgAccrualUtilization":    v.AvgAccrualUtilization,
			"accrualCalculationErrors": float64(v.AccrualCalculationErrors),
			"lateAccrualUpdates":       float64(v.LateAccrualUpdates),
		},
	}
}

func scoreUsagePatterns(v models.FeatureVector) models.RiskFactor {
	score := 0.0
	switch {
	case v.AvgRequestsPerEmployee > 10:
		score = 30
	case v.AvgRequestsPerEmployee < 0.5:
		score = 20
	}
	score += capped(v.UsageVariance*20, 20)

	return models.RiskFactor{
		Score:       score,
		Description: fmt.Sprintf("%.2f requests per employee with usage variance %.2f", v.AvgRequestsPerEmployee, v.UsageVariance),
		Details: map[string]float64{
			"avgRequestsPerEmployee": v.AvgRequestsPerEmployee,
			"usageVariance":          v.UsageVariance,
		},
	}
}

func scoreDocumentationCompliance(v models.FeatureVector) models.RiskFactor {
	score := (1 - v.DocumentationRate) * 50
	score += capped(float64(v.MissingDocumentationCount)*5, 25)
	score += capped(v.LateDocumentationRate*25, 25)

	return models.RiskFactor{
		Score:       score,
		Description: fmt.Sprintf("%.1f%% of requests documented, %d missing", v.DocumentationRate*100, v.MissingDocumentationCount),
		Details: map[string]float64{
			"documentationRate":         v.DocumentationRate,
			"missingDocumentationCount": float64(v.MissingDocumentationCount),
			"lateDocumentationRate":     v.LateDocumentationRate,
		},
	}
}

func scoreTimeliness(v models.FeatureVector) models.RiskFactor {
	score := 0.0
	switch {
	case v.RequestApprovalLatency > 72:
		score = 60
	case v.RequestApprovalLatency > 48:
		score = 40
	case v.RequestApprovalLatency > 24:
		score = 20
	}

	return models.RiskFactor{
		Score:       score,
		Description: fmt.Sprintf("Requests take %.1f hours on average to be reviewed", v.RequestApprovalLatency),
		Details: map[string]float64{
			"requestApprovalLatency": v.RequestApprovalLatency,
		},
	}
}

func scoreEmployeeComplaints(v models.FeatureVector) models.RiskFactor {
	score := v.ComplaintRate * 100
	switch {
	case v.EmployeeTurnoverRate > 0.3:
		score += 30
	case v.EmployeeTurnoverRate > 0.2:
		score += 15
	}

	return models.RiskFactor{
		Score:       score,
		Description: fmt.Sprintf("Complaint rate %.1f%%, turnover %.1f%%", v.ComplaintRate*100, v.EmployeeTurnoverRate*100),
		Details: map[string]float64{
			"complaintRate":        v.ComplaintRate,
			"employeeTurnoverRate": v.EmployeeTurnoverRate,
		},
	}
}

func scoreRecordKeeping(v models.FeatureVector) models.RiskFactor {
	score := (1 - v.RecordRetentionCompliance) * 50
	score += capped(float64(v.AuditTrailGaps)*10, 30)
	score += capped(float64(v.DataIntegrityIssues)*10, 20)

	return models.RiskFactor{
		Score:       score,
		Description: fmt.Sprintf("%.1f%% record retention compliance, %d audit trail gaps", v.RecordRetentionCompliance*100, v.AuditTrailGaps),
		Details: map[string]float64{
			"recordRetentionCompliance": v.RecordRetentionCompliance,
			"auditTrailGaps":            float64(v.AuditTrailGaps),
			"dataIntegrityIssues":       float64(v.DataIntegrityIssues),
		},
	}
}

func scorePolicyAdherence(v models.FeatureVector) models.RiskFactor {
	score := capped(float64(v.PolicyViolations30Days)*15, 40)
	score += capped(float64(v.PolicyViolations90Days)*5, 20)
	score += capped(float64(v.UnresolvedAlerts)*10, 40)

	trend := constants.TrendStable
	if float64(v.PolicyViolations30Days) > float64(v.PolicyViolations90Days)/3 {
		trend = constants.TrendWorsening
	}

	return models.RiskFactor{
		Score:       score,
		Description: fmt.Sprintf("%d compliance alerts in the last 30 days, %d unresolved", v.PolicyViolations30Days, v.UnresolvedAlerts),
		Trend:       trend,
		Details: map[string]float64{
			"policyViolations30Days": float64(v.PolicyViolations30Days),
			"policyViolations90Days": float64(v.PolicyViolations90Days),
			"totalAlerts":            float64(v.TotalAlerts),
			"unresolvedAlerts":       float64(v.UnresolvedAlerts),
		},
	}
}
