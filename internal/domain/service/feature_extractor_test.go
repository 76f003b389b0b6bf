package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/pkg/constants"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func request(id string, status constants.RequestStatus, requested time.Time) models.LeaveRequest {
	return models.LeaveRequest{ID: id, Status: status, RequestedAt: requested}
}

func newTestExtractor() *FeatureExtractor {
	return NewFeatureExtractor(FixedClock{T: testNow})
}

func TestExtract_DenialRate30Days(t *testing.T) {
	activity := &models.TenantActivity{
		TenantID: "t1",
		Requests: []models.LeaveRequest{
			request("r1", constants.RequestStatusApproved, daysAgo(1)),
			request("r2", constants.RequestStatusDenied, daysAgo(5)),
			request("r3", constants.RequestStatusApproved, daysAgo(10)),
			request("r4", constants.RequestStatusDenied, daysAgo(20)),
		},
	}

	v := newTestExtractor().Extract(activity)

	assert.Equal(t, 0.5, v.DenialRate30Days)
	assert.Equal(t, 0.5, v.DenialRate90Days)
	assert.Equal(t, 0.5, v.DenialRateYearly)
	assert.Equal(t, 0.0, v.DenialTrend, "no requests in the preceding window")
}

func TestExtract_DenialWindows(t *testing.T) {
	activity := &models.TenantActivity{
		Requests: []models.LeaveRequest{
			request("r1", constants.RequestStatusDenied, daysAgo(3)),
			request("r2", constants.RequestStatusApproved, daysAgo(4)),
			request("r3", constants.RequestStatusApproved, daysAgo(45)),
			request("r4", constants.RequestStatusApproved, daysAgo(60)),
			request("r5", constants.RequestStatusDenied, daysAgo(200)),
			request("r6", constants.RequestStatusDenied, daysAgo(400)),
		},
	}

	v := newTestExtractor().Extract(activity)

	assert.Equal(t, 0.5, v.DenialRate30Days)
	assert.Equal(t, 0.25, v.DenialRate90Days)
	assert.Equal(t, 0.4, v.DenialRateYearly)
	// recent 0.5 vs previous 0.0, doubled and clamped
	assert.Equal(t, 1.0, v.DenialTrend)
}

func TestExtract_DenialTrendImproving(t *testing.T) {
	activity := &models.TenantActivity{
		Requests: []models.LeaveRequest{
			request("r1", constants.RequestStatusApproved, daysAgo(2)),
			request("r2", constants.RequestStatusApproved, daysAgo(3)),
			request("r3", constants.RequestStatusApproved, daysAgo(4)),
			request("r4", constants.RequestStatusDenied, daysAgo(5)),
			request("r5", constants.RequestStatusDenied, daysAgo(40)),
			request("r6", constants.RequestStatusApproved, daysAgo(50)),
		},
	}

	v := newTestExtractor().Extract(activity)

	// (0.25 - 0.5) * 2
	assert.InDelta(t, -0.5, v.DenialTrend, 1e-9)
}

func TestExtract_ConsecutiveDenials(t *testing.T) {
	tests := []struct {
		name     string
		requests []models.LeaveRequest
		want     int
	}{
		{
			name: "three denials then approval",
			requests: []models.LeaveRequest{
				request("r1", constants.RequestStatusDenied, daysAgo(1)),
				request("r2", constants.RequestStatusDenied, daysAgo(2)),
				request("r3", constants.RequestStatusDenied, daysAgo(3)),
				request("r4", constants.RequestStatusApproved, daysAgo(4)),
			},
			want: 3,
		},
		{
			name: "input order does not matter",
			requests: []models.LeaveRequest{
				request("r4", constants.RequestStatusApproved, daysAgo(4)),
				request("r2", constants.RequestStatusDenied, daysAgo(2)),
				request("r3", constants.RequestStatusDenied, daysAgo(3)),
				request("r1", constants.RequestStatusDenied, daysAgo(1)),
			},
			want: 3,
		},
		{
			name: "pending requests are skipped",
			requests: []models.LeaveRequest{
				request("r1", constants.RequestStatusDenied, daysAgo(1)),
				request("r2", constants.RequestStatusPending, daysAgo(2)),
				request("r3", constants.RequestStatusDenied, daysAgo(3)),
				request("r4", constants.RequestStatusApproved, daysAgo(4)),
				request("r5", constants.RequestStatusDenied, daysAgo(5)),
			},
			want: 2,
		},
		{
			name: "most recent approved",
			requests: []models.LeaveRequest{
				request("r1", constants.RequestStatusApproved, daysAgo(1)),
				request("r2", constants.RequestStatusDenied, daysAgo(2)),
			},
			want: 0,
		},
		{
			name:     "no requests",
			requests: nil,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestExtractor().Extract(&models.TenantActivity{Requests: tt.requests})
			assert.Equal(t, tt.want, v.ConsecutiveDenials)
		})
	}
}

func TestExtract_AccrualUtilization(t *testing.T) {
	activity := &models.TenantActivity{
		Balances: []models.AccrualBalance{
			{EmployeeID: "e1", CurrentBalance: 20, YearlyAccrued: 40, YearlyUsed: 20, LastUpdated: daysAgo(1)},
			{EmployeeID: "e2", CurrentBalance: 10, YearlyAccrued: 40, YearlyUsed: 30, LastUpdated: daysAgo(1)},
			{EmployeeID: "e3", CurrentBalance: 0, YearlyAccrued: 0, YearlyUsed: 5, LastUpdated: daysAgo(1)},
		},
	}

	v := newTestExtractor().Extract(activity)

	assert.InDelta(t, 0.625, v.AvgAccrualUtilization, 1e-9)
	assert.Equal(t, 0, v.AccrualCalculationErrors)
	assert.Equal(t, 0, v.LateAccrualUpdates)
}

func TestExtract_AccrualUtilizationCapsAtOne(t *testing.T) {
	activity := &models.TenantActivity{
		Balances: []models.AccrualBalance{
			{EmployeeID: "e1", YearlyAccrued: 10, YearlyUsed: 50},
		},
	}
	v := newTestExtractor().Extract(activity)
	assert.Equal(t, 1.0, v.AvgAccrualUtilization)
}

func TestExtract_AccrualAnomalies(t *testing.T) {
	activity := &models.TenantActivity{
		Balances: []models.AccrualBalance{
			{EmployeeID: "e1", CurrentBalance: -4, YearlyAccrued: 40, YearlyUsed: 44, LastUpdated: daysAgo(2)},
			{EmployeeID: "e2", CurrentBalance: 8, YearlyAccrued: 40, YearlyUsed: 32, LastUpdated: daysAgo(45)},
			{EmployeeID: "e3", CurrentBalance: 8, YearlyAccrued: 40, YearlyUsed: 32},
		},
	}

	v := newTestExtractor().Extract(activity)

	assert.Equal(t, 1, v.AccrualCalculationErrors)
	assert.Equal(t, 1, v.LateAccrualUpdates)
}

func TestExtract_ApprovalLatency(t *testing.T) {
	r1 := request("r1", constants.RequestStatusApproved, daysAgo(10))
	r1Reviewed := r1.RequestedAt.Add(24 * time.Hour)
	r1.ReviewedAt = &r1Reviewed

	r2 := request("r2", constants.RequestStatusDenied, daysAgo(8))
	r2Reviewed := r2.RequestedAt.Add(24 * time.Hour)
	r2.ReviewedAt = &r2Reviewed

	// pending with a reviewed timestamp does not qualify
	r3 := request("r3", constants.RequestStatusPending, daysAgo(6))
	r3Reviewed := r3.RequestedAt.Add(200 * time.Hour)
	r3.ReviewedAt = &r3Reviewed

	// no reviewed timestamp does not qualify
	r4 := request("r4", constants.RequestStatusApproved, daysAgo(4))

	v := newTestExtractor().Extract(&models.TenantActivity{Requests: []models.LeaveRequest{r1, r2, r3, r4}})

	assert.Equal(t, 24.0, v.RequestApprovalLatency)
}

func TestExtract_ApprovalLatencyReviewBeforeRequest(t *testing.T) {
	r1 := request("r1", constants.RequestStatusApproved, daysAgo(10))
	r1Reviewed := r1.RequestedAt.Add(-48 * time.Hour)
	r1.ReviewedAt = &r1Reviewed

	r2 := request("r2", constants.RequestStatusApproved, daysAgo(8))
	r2Reviewed := r2.RequestedAt.Add(10 * time.Hour)
	r2.ReviewedAt = &r2Reviewed

	v := newTestExtractor().Extract(&models.TenantActivity{Requests: []models.LeaveRequest{r1, r2}})

	assert.Equal(t, 5.0, v.RequestApprovalLatency)
	assert.True(t, ValidateFeatures(v).IsValid)
}

func TestExtract_AlertCounts(t *testing.T) {
	resolved := daysAgo(1)
	activity := &models.TenantActivity{
		Alerts: []models.ComplianceAlert{
			{ID: "a1", CreatedAt: daysAgo(5)},
			{ID: "a2", CreatedAt: daysAgo(20), ResolvedAt: &resolved},
			{ID: "a3", CreatedAt: daysAgo(60)},
			{ID: "a4", CreatedAt: daysAgo(120), ResolvedAt: &resolved},
		},
	}

	v := newTestExtractor().Extract(activity)

	assert.Equal(t, 2, v.PolicyViolations30Days)
	assert.Equal(t, 3, v.PolicyViolations90Days)
	assert.Equal(t, 4, v.TotalAlerts)
	assert.Equal(t, 2, v.UnresolvedAlerts)
}

func TestExtract_UsageRatios(t *testing.T) {
	activity := &models.TenantActivity{
		EmployerSize:  constants.EmployerSizeSmall,
		EmployeeCount: 4,
		Requests: []models.LeaveRequest{
			request("r1", constants.RequestStatusApproved, daysAgo(1)),
			request("r2", constants.RequestStatusApproved, daysAgo(2)),
		},
	}

	v := newTestExtractor().Extract(activity)

	assert.Equal(t, 0.5, v.AvgRequestsPerEmployee)
	assert.True(t, v.IsSmallEmployer)
	assert.Equal(t, 0.0, v.UsageVariance, "a single active month has no variance")
}

func TestExtract_UsageVariance(t *testing.T) {
	var requests []models.LeaveRequest
	for i := 0; i < 12; i++ {
		requests = append(requests, request("even", constants.RequestStatusApproved, daysAgo(i*30+1)))
	}
	v := newTestExtractor().Extract(&models.TenantActivity{EmployeeCount: 1, Requests: requests})
	assert.InDelta(t, 0.0, v.UsageVariance, 1e-9, "flat usage across every month")

	bursty := []models.LeaveRequest{
		request("b1", constants.RequestStatusApproved, daysAgo(1)),
		request("b2", constants.RequestStatusApproved, daysAgo(2)),
		request("b3", constants.RequestStatusApproved, daysAgo(31)),
		request("b4", constants.RequestStatusApproved, daysAgo(32)),
	}
	v = newTestExtractor().Extract(&models.TenantActivity{EmployeeCount: 1, Requests: bursty})
	assert.Equal(t, 1.0, v.UsageVariance)
}

func TestExtract_EmptyInput(t *testing.T) {
	for name, activity := range map[string]*models.TenantActivity{
		"nil":   nil,
		"empty": {TenantID: "t1", EmployerSize: constants.EmployerSizeLarge},
	} {
		t.Run(name, func(t *testing.T) {
			v := newTestExtractor().Extract(activity)

			assert.Zero(t, v.DenialRate30Days)
			assert.Zero(t, v.DenialRate90Days)
			assert.Zero(t, v.DenialRateYearly)
			assert.Zero(t, v.DenialTrend)
			assert.Zero(t, v.ConsecutiveDenials)
			assert.Zero(t, v.AvgAccrualUtilization)
			assert.Zero(t, v.AvgRequestsPerEmployee)
			assert.Zero(t, v.UsageVariance)
			assert.Zero(t, v.RequestApprovalLatency)
			assert.Zero(t, v.TotalAlerts)
			assert.False(t, v.IsSmallEmployer)

			assert.Equal(t, 1.0, v.DocumentationRate)
			assert.Equal(t, 1.0, v.RecordRetentionCompliance)
			assert.Zero(t, v.ComplaintRate)
			assert.Zero(t, v.EmployeeTurnoverRate)
			assert.Zero(t, v.PriorAuditFindings)
			assert.Zero(t, v.YearsInBusiness)

			require.True(t, ValidateFeatures(v).IsValid)
		})
	}
}

func TestFeatureVectorFieldCount(t *testing.T) {
	values := models.FeatureVector{}.Values()
	assert.Len(t, values, constants.FeatureCount)

	names := make(map[string]bool, len(values))
	for _, v := range values {
		names[v.Name] = true
	}
	for _, placeholder := range GetModelInfo().Placeholders {
		assert.True(t, names[placeholder], placeholder)
	}
	assert.True(t, names["priorAuditFindings"])
	assert.True(t, names["yearsInBusiness"])
}
