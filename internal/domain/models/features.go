package models

// FeatureVector is the normalized numeric summary of a tenant's activity.
//
// Rate fields are in [0,1] and DenialTrend is in [-1,1]. Fields marked as placeholders
// have no upstream data source yet and carry fully-compliant defaults; they are not measurements.
type FeatureVector struct {
	// Denials
	DenialRate30Days   float64 `json:"denialRate30Days"`
	DenialRate90Days   float64 `json:"denialRate90Days"`
	DenialRateYearly   float64 `json:"denialRateYearly"`
	DenialTrend        float64 `json:"denialTrend"`
	ConsecutiveDenials int     `json:"consecutiveDenials"`

	// Accrual
	AvgAccrualUtilization    float64 `json:"avgAccrualUtilization"`
	AccrualCalculationErrors int     `json:"accrualCalculationErrors"`
	LateAccrualUpdates       int     `json:"lateAccrualUpdates"`

	// Usage
	AvgRequestsPerEmployee float64 `json:"avgRequestsPerEmployee"`
	UsageVariance          float64 `json:"usageVariance"`

	// Documentation (placeholders)
	DocumentationRate         float64 `json:"documentationRate"`
	MissingDocumentationCount int     `json:"missingDocumentationCount"`
	LateDocumentationRate     float64 `json:"lateDocumentationRate"`

	// Timeliness
	RequestApprovalLatency float64 `json:"requestApprovalLatency"` // hours

	// Workforce (placeholders)
	EmployeeTurnoverRate float64 `json:"employeeTurnoverRate"`
	ComplaintRate        float64 `json:"complaintRate"`

	// Record keeping (placeholders)
	RecordRetentionCompliance float64 `json:"recordRetentionCompliance"`
	AuditTrailGaps            int     `json:"auditTrailGaps"`
	DataIntegrityIssues       int     `json:"dataIntegrityIssues"`

	// Policy
	PolicyViolations30Days int `json:"policyViolations30Days"`
	PolicyViolations90Days int `json:"policyViolations90Days"`
	TotalAlerts            int `json:"totalAlerts"`
	UnresolvedAlerts       int `json:"unresolvedAlerts"`

	// Employer
	IsSmallEmployer bool `json:"isSmallEmployer"`

	// Employer history (placeholders)
	PriorAuditFindings int     `json:"priorAuditFindings"`
	YearsInBusiness    float64 `json:"yearsInBusiness"`
}

// FeatureValue is one named entry of a feature vector.
type FeatureValue struct {
	Name  string
	Value float64
}

// Values lists every field in declaration order, booleans as 0/1.
func (f FeatureVector) Values() []FeatureValue {
	small := 0.0
	if f.IsSmallEmployer {
		small = 1
	}
	return []FeatureValue{
		{"denialRate30Days", f.DenialRate30Days},
		{"denialRate90Days", f.DenialRate90Days},
		{"denialRateYearly", f.DenialRateYearly},
		{"denialTrend", f.DenialTrend},
		{"consecutiveDenials", float64(f.ConsecutiveDenials)},
		{"avgAccrualUtilization", f.AvgAccrualUtilization},
		{"accrualCalculationErrors", float64(f.AccrualCalculationErrors)},
		{"lateAccrualUpdates", float64(f.LateAccrualUpdates)},
		{"avgRequestsPerEmployee", f.AvgRequestsPerEmployee},
		{"usageVariance", f.UsageVariance},
		{"documentationRate", f.DocumentationRate},
		{"missingDocumentationCount", float64(f.MissingDocumentationCount)},
		{"lateDocumentationRate", f.LateDocumentationRate},
		{"requestApprovalLatency", f.RequestApprovalLatency},
		{"employeeTurnoverRate", f.EmployeeTurnoverRate},
		{"complaintRate", f.ComplaintRate},
		{"recordRetentionCompliance", f.RecordRetentionCompliance},
		{"auditTrailGaps", float64(f.AuditTrailGaps)},
		{"dataIntegrityIssues", float64(f.DataIntegrityIssues)},
		{"policyViolations30Days", float64(f.PolicyViolations30Days)},
		{"policyViolations90Days", float64(f.PolicyViolations90Days)},
		{"totalAlerts", float64(f.TotalAlerts)},
		{"unresolvedAlerts", float64(f.UnresolvedAlerts)},
		{"isSmallEmployer", small},
		{"priorAuditFindings", float64(f.PriorAuditFindings)},
		{"yearsInBusiness", f.YearsInBusiness},
	}
}

// FeatureValidationError describes one invalid feature.
type FeatureValidationError struct {
	Field   string  `json:"field"`
	Value   float64 `json:"value"`
	Message string  `json:"message"`
}

// FeatureValidationResult is returned by feature validation instead of an error.
type FeatureValidationResult struct {
	IsValid bool                     `json:"isValid"`
	Errors  []FeatureValidationError `json:"errors"`
}

// Messages flattens the validation errors for error metadata.
func (r FeatureValidationResult) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Field+": "+e.Message)
	}
	return out
}
