package service

import (
	"math"
	"sort"
	"time"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/pkg/constants"
)

const (
	day = 24 * time.Hour

	window30Days  = 30 * day
	window90Days  = 90 * day
	window365Days = 365 * day

	// lateAccrualAge is how stale a balance may be before it counts as a late accrual update.
	lateAccrualAge = 30 * day

	// usageMonths is the number of trailing 30-day buckets used for usage variance.
	usageMonths = 12
)

// Placeholder values for features that have no upstream data source yet.
// They describe a fully compliant employer and are not measurements.
const (
	placeholderDocumentationRate         = 1.0
	placeholderMissingDocumentationCount = 0
	placeholderLateDocumentationRate     = 0.0
	placeholderEmployeeTurnoverRate      = 0.0
	placeholderComplaintRate             = 0.0
	placeholderRecordRetentionCompliance = 1.0
	placeholderAuditTrailGaps            = 0
	placeholderDataIntegrityIssues       = 0
	placeholderPriorAuditFindings        = 0
	placeholderYearsInBusiness           = 0.0
)

// FeatureExtractor reduces tenant activity into a feature vector.
// It never fails: empty or missing collections degrade to zero or default values.
type FeatureExtractor struct {
	clock Clock
}

// NewFeatureExtractor creates an extractor that measures windows relative to clock.
func NewFeatureExtractor(clock Clock) *FeatureExtractor {
	if clock == nil {
		clock = SystemClock{}
	}
	return &FeatureExtractor{clock: clock}
}

// Extract computes the feature vector for activity.
func (e *FeatureExtractor) Extract(activity *models.TenantActivity) models.FeatureVector {
	if activity == nil {
		activity = &models.TenantActivity{}
	}
	now := e.clock.Now()

	v := models.FeatureVector{
		DocumentationRate:         placeholderDocumentationRate,
		MissingDocumentationCount: placeholderMissingDocumentationCount,
		LateDocumentationRate:     placeholderLateDocumentationRate,
		EmployeeTurnoverRate:      placeholderEmployeeTurnoverRate,
		ComplaintRate:             placeholderComplaintRate,
		RecordRetentionCompliance: placeholderRecordRetentionCompliance,
		AuditTrailGaps:            placeholderAuditTrailGaps,
		DataIntegrityIssues:       placeholderDataIntegrityIssues,
		IsSmallEmployer:           activity.EmployerSize == constants.EmployerSizeSmall,
		PriorAuditFindings:        placeholderPriorAuditFindings,
		YearsInBusiness:           placeholderYearsInBusiness,
	}

	// Denials
	v.DenialRate30Days = denialRate(activity.Requests, now, window30Days)
	v.DenialRate90Days = denialRate(activity.Requests, now, window90Days)
	v.DenialRateYearly = denialRate(activity.Requests, now, window365Days)
	v.DenialTrend = denialTrend(activity.Requests, now)
	v.ConsecutiveDenials = consecutiveDenials(activity.Requests)

	// Accrual
	v.AvgAccrualUtilization = accrualUtilization(activity.Balances)
	v.AccrualCalculationErrors, v.LateAccrualUpdates = accrualAnomalies(activity.Balances, now)

	// Usage
	if activity.EmployeeCount > 0 {
		v.AvgRequestsPerEmployee = float64(len(activity.Requests)) / float64(activity.EmployeeCount)
	}
	v.UsageVariance = usageVariance(activity.Requests, now)

	// Timeliness
	v.RequestApprovalLatency = approvalLatencyHours(activity.Requests)

	// Policy
	for _, a := range activity.Alerts {
		if within(a.CreatedAt, now, window30Days) {
			v.PolicyViolations30Days++
		}
		if within(a.CreatedAt, now, window90Days) {
			v.PolicyViolations90Days++
		}
		if a.IsUnresolved() {
			v.UnresolvedAlerts++
		}
	}
	v.TotalAlerts = len(activity.Alerts)

	return v
}

// within reports whether t falls inside the trailing period ending at now.
func within(t, now time.Time, period time.Duration) bool {
	return !t.Before(now.Add(-period))
}

func denialRate(requests []models.LeaveRequest, now time.Time, period time.Duration) float64 {
	total, denied := 0, 0
	for _, r := range requests {
		if !within(r.RequestedAt, now, period) {
			continue
		}
		total++
		if r.Status == constants.RequestStatusDenied {
			denied++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(denied) / float64(total)
}

// denialTrend compares the last 30 days against the 30 to 90 days before that.
func denialTrend(requests []models.LeaveRequest, now time.Time) float64 {
	recentTotal, recentDenied := 0, 0
	prevTotal, prevDenied := 0, 0
	for _, r := range requests {
		switch {
		case within(r.RequestedAt, now, window30Days):
			recentTotal++
			if r.Status == constants.RequestStatusDenied {
				recentDenied++
			}
		case within(r.RequestedAt, now, window90Days):
			prevTotal++
			if r.Status == constants.RequestStatusDenied {
				prevDenied++
			}
		}
	}
	if recentTotal == 0 || prevTotal == 0 {
		return 0
	}
	recent := float64(recentDenied) / float64(recentTotal)
	previous := float64(prevDenied) / float64(prevTotal)
	return clamp((recent-previous)*2, -1, 1)
}

// consecutiveDenials walks requests newest first. Denials extend the streak, the first
// approval ends it, and non-terminal statuses are skipped.
func consecutiveDenials(requests []models.LeaveRequest) int {
	sorted := make([]models.LeaveRequest, len(requests))
	copy(sorted, requests)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RequestedAt.After(sorted[j].RequestedAt)
	})

	streak := 0
	for _, r := range sorted {
		switch r.Status {
		case constants.RequestStatusDenied:
			streak++
		case constants.RequestStatusApproved:
			return streak
		}
	}
	return streak
}

func accrualUtilization(balances []models.AccrualBalance) float64 {
	sum, n := 0.0, 0
	for _, b := range balances {
		if b.YearlyAccrued <= 0 {
			continue
		}
		sum += math.Min(1, b.YearlyUsed/b.YearlyAccrued)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// accrualAnomalies counts negative balances and balances not updated in the last 30 days.
// Balances without a last-updated timestamp are not counted as late.
func accrualAnomalies(balances []models.AccrualBalance, now time.Time) (calcErrors, late int) {
	for _, b := range balances {
		if b.CurrentBalance < 0 {
			calcErrors++
		}
		if !b.LastUpdated.IsZero() && now.Sub(b.LastUpdated) > lateAccrualAge {
			late++
		}
	}
	return calcErrors, late
}

func approvalLatencyHours(requests []models.LeaveRequest) float64 {
	sum, n := 0.0, 0
	for _, r := range requests {
		if r.ReviewedAt == nil || !r.Status.IsTerminal() {
			continue
		}
		// A review stamped before its request counts as zero latency.
		sum += math.Max(0, r.ReviewedAt.Sub(r.RequestedAt).Hours())
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// usageVariance is the coefficient of variation of request counts across the trailing
// twelve 30-day buckets, clamped to [0,1]. Fewer than two active buckets yield 0.
func usageVariance(requests []models.LeaveRequest, now time.Time) float64 {
	var buckets [usageMonths]float64
	for _, r := range requests {
		age := now.Sub(r.RequestedAt)
		if age < 0 {
			age = 0
		}
		idx := int(age / window30Days)
		if idx >= usageMonths {
			continue
		}
		buckets[idx]++
	}

	active, total := 0, 0.0
	for _, c := range buckets {
		if c > 0 {
			active++
		}
		total += c
	}
	if active < 2 {
		return 0
	}

	mean := total / usageMonths
	sq := 0.0
	for _, c := range buckets {
		sq += (c - mean) * (c - mean)
	}
	std := math.Sqrt(sq / usageMonths)
	return clamp(std/mean, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

//Personal.AI order the ending
