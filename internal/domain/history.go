package domain

import "github.com/shopspring/decimal"

// SpendTrend classifies how spending has moved across past budgets
type SpendTrend string

const (
	SpendTrendIncreasing SpendTrend = "increasing"
	SpendTrendDecreasing SpendTrend = "decreasing"
	SpendTrendStable     SpendTrend = "stable"
)

// BudgetPerformance pairs a past budget with its usage at period end
type BudgetPerformance struct {
	Budget        *Budget
	Usage         *BudgetUsage
	CategoryUsage []*CategoryBudgetUsage
}

// CategoryHistoryStat aggregates a single category across past budgets
type CategoryHistoryStat struct {
	CategoryID       string          `json:"categoryId"`
	CategoryName     string          `json:"categoryName"`
	AverageAllocated decimal.Decimal `json:"averageAllocated"`
	AverageSpent     decimal.Decimal `json:"averageSpent"`
	PeriodCount      int             `json:"periodCount"`
}

// BudgetHistoryAnalysis aggregates the most recent N budgets of a period
// kind. An empty history yields a zero-valued analysis with a stable
// trend; it is a valid state, not an error.
type BudgetHistoryAnalysis struct {
	PeriodKind       PeriodKind             `json:"periodKind"`
	PeriodCount      int                    `json:"periodCount"`
	AverageSpent     decimal.Decimal        `json:"averageSpent"`
	AverageBudget    decimal.Decimal        `json:"averageBudget"`
	AverageUsageRate float64                `json:"averageUsageRate"`
	SuccessRate      float64                `json:"successRate"`
	Trend            SpendTrend             `json:"trend"`
	Categories       []*CategoryHistoryStat `json:"categories"`
}

// SuggestedAllocation is one category line of a suggested budget
type SuggestedAllocation struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
}

// BudgetSuggestion is a synthesized next budget derived from history (or
// from the fixed defaults when the caller opts out of history).
type BudgetSuggestion struct {
	PeriodKind      PeriodKind            `json:"periodKind"`
	SuggestedTotal  decimal.Decimal       `json:"suggestedTotal"`
	Allocations     []SuggestedAllocation `json:"allocations"`
	ConfidenceScore float64               `json:"confidenceScore"`
	BasedOnPeriods  int                   `json:"basedOnPeriods"`
}
