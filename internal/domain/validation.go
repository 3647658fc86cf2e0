package domain

import "github.com/shopspring/decimal"

// Validation issue codes
const (
	ValidationOverAllocation    = "over_allocation"
	ValidationUnderAllocation   = "under_allocation"
	ValidationInvalidDateRange  = "invalid_date_range"
	ValidationInvalidTotal      = "invalid_total_amount"
	ValidationNegativeAlloc     = "negative_allocation"
	ValidationMissingName       = "missing_name"
	ValidationInvalidPeriodKind = "invalid_period_kind"
)

// ValidationIssue is a single error or warning found in a candidate budget
type ValidationIssue struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Amount  decimal.Decimal `json:"amount,omitempty"`
}

// ValidationResult aggregates every check outcome for a candidate budget.
// Warnings never block acceptance; a budget is valid iff it has no errors.
type ValidationResult struct {
	IsValid  bool              `json:"isValid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}
