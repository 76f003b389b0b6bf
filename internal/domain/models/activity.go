package models

import (
	"time"

	"github.com/turtacn/pslrisk/pkg/constants"
)

// TenantActivity is the read-only activity snapshot a tenant supplies for scoring.
// All timestamps are already parsed; string handling belongs to the boundary.
type TenantActivity struct {
	TenantID      string                 `json:"tenantId"`
	EmployerID    string                 `json:"employerId"`
	EmployerSize  constants.EmployerSize `json:"employerSize"`
	EmployeeCount int                    `json:"employeeCount"`

	Requests []LeaveRequest    `json:"requests"`
	Balances []AccrualBalance  `json:"balances"`
	Alerts   []ComplianceAlert `json:"alerts"`
}

// LeaveRequest is a single paid-sick-leave request.
type LeaveRequest struct {
	ID          string                  `json:"id"`
	Status      constants.RequestStatus `json:"status"`
	RequestedAt time.Time               `json:"requestedAt"`
	ReviewedAt  *time.Time              `json:"reviewedAt,omitempty"`
}

// AccrualBalance is an employee's accrual position as produced by the accrual rules engine.
type AccrualBalance struct {
	EmployeeID     string    `json:"employeeId"`
	CurrentBalance float64   `json:"currentBalance"`
	YearlyAccrued  float64   `json:"yearlyAccrued"`
	YearlyUsed     float64   `json:"yearlyUsed"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// ComplianceAlert is an upstream compliance alert, counted as a policy violation signal.
type ComplianceAlert struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Severity   string     `json:"severity"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

// IsUnresolved reports whether the alert is still open.
func (a ComplianceAlert) IsUnresolved() bool {
	return a.ResolvedAt == nil
}
