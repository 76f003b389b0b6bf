// Package constants defines system-wide constants for the PSL compliance risk service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Model Constants
// ================================================================================

const (
	// ModelVersion is the version tag stamped on every computed risk score
	ModelVersion = "1.0.0"

	// ModelName is the human-readable name of the scoring model
	ModelName = "PSL Compliance Risk Model"

	// FeatureCount is the number of fields in a feature vector: the extracted signals, the
	// sub-metrics the factor scorers consume, and the placeholders.
	FeatureCount = 26

	// AnalysisWindow is the look-back period reported on a score's analysis period
	AnalysisWindow = 90 * 24 * time.Hour
)

// ================================================================================
// Risk Factor Category Constants
// ================================================================================

// RiskCategory identifies one of the eight fixed risk dimensions
type RiskCategory string

const (
	CategoryDenialRate              RiskCategory = "denial_rate"
	CategoryAccrualPatterns         RiskCategory = "accrual_patterns"
	CategoryUsagePatterns           RiskCategory = "usage_patterns"
	CategoryDocumentationCompliance RiskCategory = "documentation_compliance"
	CategoryTimeliness              RiskCategory = "timeliness"
	CategoryEmployeeComplaints      RiskCategory = "employee_complaints"
	CategoryRecordKeeping           RiskCategory = "record_keeping"
	CategoryPolicyAdherence         RiskCategory = "policy_adherence"
)

// AllCategories lists the risk categories in their canonical scoring order
var AllCategories = []RiskCategory{
	CategoryDenialRate,
	CategoryAccrualPatterns,
	CategoryUsagePatterns,
	CategoryDocumentationCompliance,
	CategoryTimeliness,
	CategoryEmployeeComplaints,
	CategoryRecordKeeping,
	CategoryPolicyAdherence,
}

// CategoryWeights holds the fixed aggregation weight of each category. The weights sum to 1.0.
var CategoryWeights = map[RiskCategory]float64{
	CategoryDenialRate:              0.25,
	CategoryAccrualPatterns:         0.15,
	CategoryUsagePatterns:           0.10,
	CategoryDocumentationCompliance: 0.15,
	CategoryTimeliness:              0.10,
	CategoryEmployeeComplaints:      0.10,
	CategoryRecordKeeping:           0.10,
	CategoryPolicyAdherence:         0.05,
}

// ================================================================================
// Risk Level Constants
// ================================================================================

// RiskLevel is the coarse classification of an overall score
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// Rank orders risk levels so that transitions can be compared
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLevelCritical:
		return 3
	case RiskLevelHigh:
		return 2
	case RiskLevelMedium:
		return 1
	default:
		return 0
	}
}

const (
	// CriticalThreshold is the minimum score classified as critical
	CriticalThreshold = 75.0
	// HighThreshold is the minimum score classified as high
	HighThreshold = 50.0
	// MediumThreshold is the minimum score classified as medium
	MediumThreshold = 25.0
)

// ================================================================================
// Trend Constants
// ================================================================================

// Trend tags the direction of a single risk factor
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendWorsening Trend = "worsening"
)

// HistoryTrend tags the direction of a tenant's score history
type HistoryTrend string

const (
	HistoryTrendIncreasing HistoryTrend = "increasing"
	HistoryTrendDecreasing HistoryTrend = "decreasing"
	HistoryTrendStable     HistoryTrend = "stable"
)

// HistoryStableBand is the absolute score change below which history is considered stable
const HistoryStableBand = 2.0

// ================================================================================
// Recommendation Priority Constants
// ================================================================================

// Priority ranks remediation recommendations
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

const (
	// MaxRecommendations caps the recommendation list on a score
	MaxRecommendations = 5

	// MaxPrimaryDrivers caps the driver list on a score
	MaxPrimaryDrivers = 3

	// RecommendationMinScore is the factor score below which no recommendation is produced
	RecommendationMinScore = 20.0

	// DriverMinScore is the factor score a driver must exceed
	DriverMinScore = 20.0
)

// ================================================================================
// Activity Constants
// ================================================================================

// RequestStatus is the lifecycle state of a leave request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusDenied   RequestStatus = "denied"
)

// IsTerminal reports whether a request has been reviewed
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusDenied
}

// EmployerSize is the statutory size class of an employer
type EmployerSize string

const (
	EmployerSizeSmall EmployerSize = "small"
	EmployerSizeLarge EmployerSize = "large"
)

// ================================================================================
// Risk Alert Constants
// ================================================================================

// AlertType classifies a tenant risk alert
type AlertType string

const (
	// AlertTypeRiskLevelElevated is raised when a tenant enters the high or critical level
	AlertTypeRiskLevelElevated AlertType = "risk_level_elevated"

	// AlertTypeScoreSpike is raised when the score jumps sharply between computations
	AlertTypeScoreSpike AlertType = "score_spike"
)

// AlertStatus is the lifecycle state of a risk alert
type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "active"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
)

// AlertAction names an alert transition for events and metrics
type AlertAction string

const (
	AlertActionRaised       AlertAction = "raised"
	AlertActionAcknowledged AlertAction = "acknowledged"
	AlertActionResolved     AlertAction = "resolved"
)

// SystemActor is recorded when the service itself resolves an alert
const SystemActor = "system"

// DefaultSpikeThreshold is the score increase that raises a score_spike alert
const DefaultSpikeThreshold = 15.0

// ================================================================================
// Error Code Constants
// ================================================================================

// ErrorCode represents API error codes
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates the request is missing required parameters or is malformed
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeNotFound indicates the referenced resource does not exist
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeServerError indicates an internal server error occurred
	ErrCodeServerError ErrorCode = "server_error"

	// ErrCodeTemporarilyUnavailable indicates a dependency is unavailable
	ErrCodeTemporarilyUnavailable ErrorCode = "temporarily_unavailable"
)

// ================================================================================
// Cache Constants
// ================================================================================

const (
	// DefaultScoreCacheTTL is how long a computed score is served from cache
	DefaultScoreCacheTTL = 24 * time.Hour

	// DefaultCacheCleanupInterval is how often expired in-memory entries are purged
	DefaultCacheCleanupInterval = 1 * time.Hour

	// CacheKeyPrefixScore is the prefix for tenant score cache entries
	CacheKeyPrefixScore = "pslrisk:score:"

	// DefaultHistoryLimit caps the stored score history per tenant
	DefaultHistoryLimit = 100
)

// ================================================================================
// Database Table Name Constants
// ================================================================================

const (
	TableNameScoreHistory    = "risk_score_history"
	TableNameRiskAlerts      = "risk_alerts"
	TableNameLeaveRequests   = "leave_requests"
	TableNameAccrualBalances = "accrual_balances"
	TableNameComplianceAlert = "compliance_alerts"
	TableNameEmployers       = "employers"
)

// ================================================================================
// Context Key Constants
// ================================================================================

type contextKey string

const (
	// ContextKeyRequestID carries the request identifier
	ContextKeyRequestID contextKey = "request_id"

	// ContextKeyTenantID carries the tenant identifier
	ContextKeyTenantID contextKey = "tenant_id"
)

const (
	// HeaderRequestID is the HTTP header used to propagate request IDs
	HeaderRequestID = "X-Request-ID"
)

//Personal.AI order the ending
