package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetUsage is a derived snapshot of one budget's consumption as of a
// given date. It is recomputed on every query and never persisted; the
// underlying transaction set can change between calls.
type BudgetUsage struct {
	BudgetID          string          `json:"budgetId"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	UsedAmount        decimal.Decimal `json:"usedAmount"`
	RemainingAmount   decimal.Decimal `json:"remainingAmount"`
	UsagePercentage   float64         `json:"usagePercentage"`
	Status            BudgetStatus    `json:"status"`
	DaysRemaining     int             `json:"daysRemaining"`
	AverageDailySpend decimal.Decimal `json:"averageDailySpend"`
	ProjectedTotal    decimal.Decimal `json:"projectedTotal"`
	OnTrack           bool            `json:"onTrack"`
}

// CategoryBudgetUsage is the per-allocation analogue of BudgetUsage
type CategoryBudgetUsage struct {
	CategoryID       string          `json:"categoryId"`
	CategoryName     string          `json:"categoryName"`
	AllocatedAmount  decimal.Decimal `json:"allocatedAmount"`
	UsedAmount       decimal.Decimal `json:"usedAmount"`
	RemainingAmount  decimal.Decimal `json:"remainingAmount"`
	UsagePercentage  float64         `json:"usagePercentage"`
	Status           BudgetStatus    `json:"status"`
	TransactionCount int             `json:"transactionCount"`
}

// BudgetExecutionDatum is one calendar day of a budget's execution trend:
// actual cumulative spend against the straight-line pacing target.
type BudgetExecutionDatum struct {
	Date            time.Time       `json:"date"`
	DailySpend      decimal.Decimal `json:"dailySpend"`
	CumulativeSpend decimal.Decimal `json:"cumulativeSpend"`
	TargetSpend     decimal.Decimal `json:"targetSpend"`
	RemainingBudget decimal.Decimal `json:"remainingBudget"`
}
