package domain

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInternalError     = errors.New("internal error")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrBudgetNotFound    = errors.New("budget not found")
	ErrInvalidAmount     = errors.New("amount must be zero or positive")
	ErrInvalidPeriodKind = errors.New("period kind must be week or month")
	ErrBudgetConflict    = errors.New("an active budget of the same period kind overlaps this date range")
	ErrNameRequired      = errors.New("name is required")
	ErrNameTooLong       = errors.New("name exceeds maximum length")

	// ErrNonPositiveTotal means a budget with a non-positive total reached
	// the usage calculator. Validation rejects such budgets before they are
	// saved, so hitting this is an integration error, not user input.
	ErrNonPositiveTotal = errors.New("budget total amount must be positive")

	// ErrCalendarStalled means the day-by-day walk failed to advance.
	// Treated as a fatal configuration error rather than a silent skip.
	ErrCalendarStalled = errors.New("calendar day step did not advance")
)

// Validation constants
const (
	MaxBudgetNameLength = 255
)
