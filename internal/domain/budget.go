package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodKind is the recurrence granularity of a budget
type PeriodKind string

const (
	PeriodKindWeek  PeriodKind = "week"
	PeriodKindMonth PeriodKind = "month"
)

// Valid reports whether the period kind is one of the known values
func (k PeriodKind) Valid() bool {
	return k == PeriodKindWeek || k == PeriodKindMonth
}

// BudgetStatus classifies how much of a budget has been consumed
type BudgetStatus string

const (
	BudgetStatusSafe     BudgetStatus = "safe"
	BudgetStatusWarning  BudgetStatus = "warning"
	BudgetStatusExceeded BudgetStatus = "exceeded"
)

// Usage thresholds, in percent. At or above WarningThreshold is a warning;
// strictly above ExceededThreshold is exceeded.
var (
	WarningThreshold  = decimal.NewFromInt(80)
	ExceededThreshold = decimal.NewFromInt(100)
)

// StatusForPercentage classifies a usage percentage against the fixed thresholds
func StatusForPercentage(percentage decimal.Decimal) BudgetStatus {
	switch {
	case percentage.GreaterThan(ExceededThreshold):
		return BudgetStatusExceeded
	case percentage.GreaterThanOrEqual(WarningThreshold):
		return BudgetStatusWarning
	default:
		return BudgetStatusSafe
	}
}

// CategoryAllocation is a category's earmarked share of a budget's total.
// Allocations have no identity of their own; they are owned by their budget
// and stored inline with it. Order is user-defined priority and is preserved.
type CategoryAllocation struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
}

type Budget struct {
	ID          uuid.UUID            `json:"id"`
	WorkspaceID int32                `json:"workspaceId"`
	Name        string               `json:"name"`
	TotalAmount decimal.Decimal      `json:"totalAmount"`
	PeriodKind  PeriodKind           `json:"periodKind"`
	StartDate   time.Time            `json:"startDate"`
	EndDate     time.Time            `json:"endDate"`
	IsActive    bool                 `json:"isActive"`
	Allocations []CategoryAllocation `json:"allocations"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// AllocatedTotal returns the sum of all category allocations
func (b *Budget) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range b.Allocations {
		total = total.Add(a.Amount)
	}
	return total
}

// Overlaps reports whether two closed date intervals intersect
func (b *Budget) Overlaps(other *Budget) bool {
	return !(b.EndDate.Before(other.StartDate) || b.StartDate.After(other.EndDate))
}

type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	Update(budget *Budget) (*Budget, error)
	GetByID(workspaceID int32, id uuid.UUID) (*Budget, error)
	ListByPeriodKind(workspaceID int32, kind PeriodKind) ([]*Budget, error)
	// ListEndedByPeriodKind returns budgets whose period has ended,
	// most recently ended first, at most limit entries.
	ListEndedByPeriodKind(workspaceID int32, kind PeriodKind, before time.Time, limit int) ([]*Budget, error)
	// ApplyActivation activates the target and deactivates the given budgets
	// as a single transaction. A partially applied activation must never be
	// observable.
	ApplyActivation(workspaceID int32, targetID uuid.UUID, deactivateIDs []uuid.UUID) error
}
