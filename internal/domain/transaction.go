package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an expense record captured by the voice pipeline.
// The engine never mutates transactions; it only aggregates amounts over
// date ranges. Soft-deleted rows are excluded at the repository.
type Transaction struct {
	ID          int64           `json:"id"`
	WorkspaceID int32           `json:"workspaceId"`
	CategoryID  string          `json:"categoryId"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Note        *string         `json:"note,omitempty"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty"`
}

type TransactionRepository interface {
	// ListByDateRange returns non-deleted transactions with date in
	// [start, end], optionally filtered by category. No ordering is
	// guaranteed; callers sort where order matters.
	ListByDateRange(workspaceID int32, categoryID *string, start, end time.Time) ([]*Transaction, error)
	SumByDateRange(workspaceID int32, categoryID *string, start, end time.Time) (decimal.Decimal, error)
}
