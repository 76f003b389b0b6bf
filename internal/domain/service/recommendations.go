package service

import (
	"math"
	"sort"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/pkg/constants"
)

// recommendationTemplate is the hand-authored remediation for one category.
type recommendationTemplate struct {
	title          string
	description    string
	expectedImpact string
	actionItems    []string
	resources      []string

	// reductionMultiplier and reductionCap bound the estimated score reduction.
	reductionMultiplier float64
	reductionCap        float64
}

// escalationActionItem is prepended when the overall level is high or critical.
const escalationActionItem = "Escalate this finding to compliance leadership and assign an owner within 5 business days"

var recommendationTemplates = map[constants.RiskCategory]recommendationTemplate{
	constants.CategoryDenialRate: {
		title:          "Review leave denial practices",
		description:    "Denial rates are high enough to suggest paid sick leave is being refused without a lawful basis.",
		expectedImpact: "Lower denial rates reduce the most heavily weighted audit risk factor.",
		actionItems: []string{
			"Audit every denial from the last 90 days against the statutory grounds for refusal",
			"Require a documented reason code for each denial",
			"Train approving managers on protected uses of sick leave",
			"Reverse denials that lacked a lawful basis and restore the affected balances",
		},
		resources: []string{
			"Statutory guidance on permitted uses of paid sick leave",
			"Manager training checklist for leave approvals",
		},
		reductionMultiplier: 0.4,
		reductionCap:        25,
	},
	constants.CategoryAccrualPatterns: {
		title:          "Verify accrual calculations",
		description:    "Accrual balances show patterns consistent with tracking errors or missed updates.",
		expectedImpact: "Accurate accrual records remove a common source of back-pay findings.",
		actionItems: []string{
			"Reconcile each employee balance against hours worked",
			"Correct negative balances and document the cause",
			"Schedule accrual updates at least every pay period",
		},
		resources: []string{
			"Accrual rate reference table",
		},
		reductionMultiplier: 0.3,
		reductionCap:        15,
	},
	constants.CategoryUsagePatterns: {
		title:          "Investigate unusual usage patterns",
		description:    "Leave usage per employee is unusually high, unusually low, or highly irregular.",
		expectedImpact: "Explaining usage anomalies prevents them from being read as suppression or poor tracking.",
		actionItems: []string{
			"Confirm employees know how to request paid sick leave",
			"Compare usage by department to identify outliers",
			"Check whether requests are being recorded outside the system",
		},
		reductionMultiplier: 0.25,
		reductionCap:        10,
	},
	constants.CategoryDocumentationCompliance: {
		title:          "Improve documentation handling",
		description:    "Documentation for leave requests is missing or collected late.",
		expectedImpact: "Complete documentation shortens audits and supports every approval decision.",
		actionItems: []string{
			"Only request documentation where the law allows it",
			"Track documentation receipt dates for each request",
			"Follow up on outstanding documentation within 7 days",
		},
		reductionMultiplier: 0.35,
		reductionCap:        15,
	},
	constants.CategoryTimeliness: {
		title:          "Shorten request review times",
		description:    "Leave requests wait too long for a decision.",
		expectedImpact: "Faster decisions reduce the appearance of constructive denial.",
		actionItems: []string{
			"Set a 24 hour review target for leave requests",
			"Route unreviewed requests to a backup approver automatically",
			"Report review latency to managers weekly",
		},
		reductionMultiplier: 0.3,
		reductionCap:        12,
	},
	constants.CategoryEmployeeComplaints: {
		title:          "Address employee complaints and turnover",
		description:    "Complaint or turnover levels indicate dissatisfaction that often precedes a claim.",
		expectedImpact: "Resolving complaints internally reduces the chance of an external complaint triggering an audit.",
		actionItems: []string{
			"Provide an anonymous channel for leave related concerns",
			"Review exit interviews for mentions of leave",
			"Respond to each complaint in writing",
		},
		reductionMultiplier: 0.3,
		reductionCap:        12,
	},
	constants.CategoryRecordKeeping: {
		title:          "Strengthen record keeping",
		description:    "Records are incomplete or not retained for the required period.",
		expectedImpact: "Complete records are the first thing an auditor requests.",
		actionItems: []string{
			"Retain leave records for at least three years",
			"Enable audit logging on all balance changes",
			"Run a quarterly integrity check on leave data",
		},
		reductionMultiplier: 0.3,
		reductionCap:        10,
	},
	constants.CategoryPolicyAdherence: {
		title:          "Resolve open compliance alerts",
		description:    "Recent compliance alerts show policy violations that remain unaddressed.",
		expectedImpact: "Closing alerts quickly demonstrates good faith compliance.",
		actionItems: []string{
			"Triage every unresolved alert and assign an owner",
			"Document the corrective action taken for each alert",
			"Review the written leave policy against current law",
		},
		reductionMultiplier: 0.35,
		reductionCap:        15,
	},
}

// PriorityForScore maps a factor score to a recommendation priority.
func PriorityForScore(score float64) constants.Priority {
	switch {
	case score >= 70:
		return constants.PriorityCritical
	case score >= 50:
		return constants.PriorityHigh
	case score >= 35:
		return constants.PriorityMedium
	default:
		return constants.PriorityLow
	}
}

// Recommend builds up to five recommendations from factors scoring 20 or more, highest score first.
// For high or critical overall levels each item starts with an escalation action.
func Recommend(factors []models.RiskFactor, level constants.RiskLevel) []models.Recommendation {
	sorted := make([]models.RiskFactor, len(factors))
	copy(sorted, factors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	escalate := level.Rank() >= constants.RiskLevelHigh.Rank()
	recs := make([]models.Recommendation, 0, constants.MaxRecommendations)
	for _, f := range sorted {
		if len(recs) == constants.MaxRecommendations {
			break
		}
		if f.Score < constants.RecommendationMinScore {
			continue
		}
		tmpl, ok := recommendationTemplates[f.Category]
		if !ok {
			continue
		}
		recs = append(recs, tmpl.build(f, escalate))
	}
	return recs
}

func (t recommendationTemplate) build(f models.RiskFactor, escalate bool) models.Recommendation {
	actions := make([]string, 0, len(t.actionItems)+1)
	if escalate {
		actions = append(actions, escalationActionItem)
	}
	actions = append(actions, t.actionItems...)

	var resources []string
	if len(t.resources) > 0 {
		resources = append(resources, t.resources...)
	}

	return models.Recommendation{
		ID:                      "rec-" + string(f.Category),
		Category:                f.Category,
		Priority:                PriorityForScore(f.Score),
		Title:                   t.title,
		Description:             t.description,
		ExpectedImpact:          t.expectedImpact,
		EstimatedScoreReduction: math.Min(f.Score*t.reductionMultiplier, t.reductionCap),
		ActionItems:             actions,
		Resources:               resources,
	}
}
