package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/voxpense/voxpense-backend/internal/domain"
)

const (
	// DefaultHistoryCount is how many past budgets are analyzed when the
	// caller does not say otherwise
	DefaultHistoryCount = 6

	// trendWindowSize is how many budgets make up the recent and older
	// comparison windows
	trendWindowSize = 3
)

// Trend comparison multipliers: recent spend more than 10% above the
// older window is increasing, more than 10% below is decreasing.
var (
	trendIncreaseFactor = decimal.NewFromFloat(1.1)
	trendDecreaseFactor = decimal.NewFromFloat(0.9)

	// suggestionBuffer is the fixed 10% headroom added on top of average
	// historical spend
	suggestionBuffer = decimal.NewFromFloat(1.1)
)

// HistoryService aggregates past budget performance and synthesizes
// suggested future budgets from it.
type HistoryService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(budgetRepo domain.BudgetRepository, transactionRepo domain.TransactionRepository) *HistoryService {
	return &HistoryService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
	}
}

// Analyze loads the most recent count ended budgets of a period kind,
// computes each one's usage at period end, and aggregates them.
func (s *HistoryService) Analyze(workspaceID int32, kind domain.PeriodKind, count int) (*domain.BudgetHistoryAnalysis, error) {
	performances, err := s.loadPerformances(workspaceID, kind, count)
	if err != nil {
		return nil, err
	}
	return AnalyzeHistory(kind, performances), nil
}

// Suggest synthesizes a next budget for the period kind. With useHistory
// false the fixed default allocation set is returned instead, for callers
// that explicitly opt out of history-based suggestion.
func (s *HistoryService) Suggest(workspaceID int32, kind domain.PeriodKind, count int, useHistory bool) (*domain.BudgetSuggestion, error) {
	if !useHistory {
		return DefaultSuggestion(kind), nil
	}

	analysis, err := s.Analyze(workspaceID, kind, count)
	if err != nil {
		return nil, err
	}
	if analysis.PeriodCount == 0 {
		return DefaultSuggestion(kind), nil
	}
	return SuggestBudget(analysis), nil
}

// loadPerformances pairs each past budget with its usage at period end
func (s *HistoryService) loadPerformances(workspaceID int32, kind domain.PeriodKind, count int) ([]*domain.BudgetPerformance, error) {
	if count <= 0 {
		count = DefaultHistoryCount
	}

	budgets, err := s.budgetRepo.ListEndedByPeriodKind(workspaceID, kind, time.Now().UTC(), count)
	if err != nil {
		return nil, err
	}

	performances := make([]*domain.BudgetPerformance, 0, len(budgets))
	for _, budget := range budgets {
		transactions, err := s.transactionRepo.ListByDateRange(workspaceID, nil, budget.StartDate, budget.EndDate)
		if err != nil {
			return nil, err
		}

		usage, err := ComputeUsage(budget, transactions, budget.EndDate)
		if err != nil {
			return nil, err
		}

		performances = append(performances, &domain.BudgetPerformance{
			Budget:        budget,
			Usage:         usage,
			CategoryUsage: ComputeCategoryUsage(budget, transactions),
		})
	}
	return performances, nil
}

// AnalyzeHistory aggregates past budget performances, ordered most recent
// first. Empty input is a valid "no history yet" state and produces a
// zero-valued analysis with a stable trend.
func AnalyzeHistory(kind domain.PeriodKind, performances []*domain.BudgetPerformance) *domain.BudgetHistoryAnalysis {
	analysis := &domain.BudgetHistoryAnalysis{
		PeriodKind:    kind,
		PeriodCount:   len(performances),
		AverageSpent:  decimal.Zero,
		AverageBudget: decimal.Zero,
		Trend:         domain.SpendTrendStable,
		Categories:    []*domain.CategoryHistoryStat{},
	}
	if len(performances) == 0 {
		return analysis
	}

	n := decimal.NewFromInt(int64(len(performances)))
	spentSum := decimal.Zero
	budgetSum := decimal.Zero
	succeeded := 0
	for _, p := range performances {
		spentSum = spentSum.Add(p.Usage.UsedAmount)
		budgetSum = budgetSum.Add(p.Budget.TotalAmount)
		if p.Usage.Status != domain.BudgetStatusExceeded {
			succeeded++
		}
	}

	analysis.AverageSpent = spentSum.Div(n)
	analysis.AverageBudget = budgetSum.Div(n)
	if analysis.AverageBudget.IsPositive() {
		analysis.AverageUsageRate = analysis.AverageSpent.
			Mul(decimal.NewFromInt(100)).
			Div(analysis.AverageBudget).
			InexactFloat64()
	}
	analysis.SuccessRate = float64(succeeded) / float64(len(performances)) * 100

	analysis.Trend = classifyTrend(performances)
	analysis.Categories = aggregateCategories(performances)

	return analysis
}

// classifyTrend compares the most recent window against the oldest one.
// With fewer than three budgets there is not enough signal and the trend
// is stable. With fewer than six budgets the windows overlap; that
// matches the product's established behavior and is kept as is.
func classifyTrend(performances []*domain.BudgetPerformance) domain.SpendTrend {
	if len(performances) < trendWindowSize {
		return domain.SpendTrendStable
	}

	recent := decimal.Zero
	for _, p := range performances[:trendWindowSize] {
		recent = recent.Add(p.Usage.UsedAmount)
	}

	older := decimal.Zero
	for _, p := range performances[len(performances)-trendWindowSize:] {
		older = older.Add(p.Usage.UsedAmount)
	}

	switch {
	case recent.GreaterThan(older.Mul(trendIncreaseFactor)):
		return domain.SpendTrendIncreasing
	case recent.LessThan(older.Mul(trendDecreaseFactor)):
		return domain.SpendTrendDecreasing
	default:
		return domain.SpendTrendStable
	}
}

// aggregateCategories builds per-category averages across the set. The
// accumulator map is keyed by category id and ordered by first
// appearance; it lives only for the duration of one analysis call.
func aggregateCategories(performances []*domain.BudgetPerformance) []*domain.CategoryHistoryStat {
	type accumulator struct {
		name      string
		allocated decimal.Decimal
		spent     decimal.Decimal
		count     int
	}

	var order []string
	accumulators := make(map[string]*accumulator)

	for _, p := range performances {
		for _, cu := range p.CategoryUsage {
			acc, ok := accumulators[cu.CategoryID]
			if !ok {
				acc = &accumulator{name: cu.CategoryName, allocated: decimal.Zero, spent: decimal.Zero}
				accumulators[cu.CategoryID] = acc
				order = append(order, cu.CategoryID)
			}
			acc.allocated = acc.allocated.Add(cu.AllocatedAmount)
			acc.spent = acc.spent.Add(cu.UsedAmount)
			acc.count++
		}
	}

	stats := make([]*domain.CategoryHistoryStat, len(order))
	for i, id := range order {
		acc := accumulators[id]
		n := decimal.NewFromInt(int64(acc.count))
		stats[i] = &domain.CategoryHistoryStat{
			CategoryID:       id,
			CategoryName:     acc.name,
			AverageAllocated: acc.allocated.Div(n),
			AverageSpent:     acc.spent.Div(n),
			PeriodCount:      acc.count,
		}
	}
	return stats
}

// SuggestBudget turns a history analysis into a concrete next budget:
// average spend plus a fixed 10% buffer, per category and in total.
// Confidence grows with the breadth of category history observed, capped
// at 0.9 with a floor keeping it non-zero for a single category.
func SuggestBudget(analysis *domain.BudgetHistoryAnalysis) *domain.BudgetSuggestion {
	allocations := make([]domain.SuggestedAllocation, len(analysis.Categories))
	for i, cat := range analysis.Categories {
		allocations[i] = domain.SuggestedAllocation{
			CategoryID:   cat.CategoryID,
			CategoryName: cat.CategoryName,
			Amount:       cat.AverageSpent.Mul(suggestionBuffer),
		}
	}

	confidence := float64(len(analysis.Categories))/4*0.8 + 0.1
	if confidence > 0.9 {
		confidence = 0.9
	}

	return &domain.BudgetSuggestion{
		PeriodKind:      analysis.PeriodKind,
		SuggestedTotal:  analysis.AverageSpent.Mul(suggestionBuffer),
		Allocations:     allocations,
		ConfidenceScore: confidence,
		BasedOnPeriods:  analysis.PeriodCount,
	}
}

// DefaultSuggestion is the fixed starter budget handed out when no usable
// history exists or the caller opts out of history-based suggestion.
func DefaultSuggestion(kind domain.PeriodKind) *domain.BudgetSuggestion {
	total := decimal.NewFromInt(2000)
	allocations := []domain.SuggestedAllocation{
		{CategoryID: "food", CategoryName: "Food & Dining", Amount: decimal.NewFromInt(700)},
		{CategoryID: "transport", CategoryName: "Transport", Amount: decimal.NewFromInt(300)},
		{CategoryID: "shopping", CategoryName: "Shopping", Amount: decimal.NewFromInt(400)},
		{CategoryID: "utilities", CategoryName: "Utilities", Amount: decimal.NewFromInt(300)},
		{CategoryID: "entertainment", CategoryName: "Entertainment", Amount: decimal.NewFromInt(300)},
	}

	if kind == domain.PeriodKindWeek {
		divisor := decimal.NewFromInt(4)
		total = total.Div(divisor)
		for i := range allocations {
			allocations[i].Amount = allocations[i].Amount.Div(divisor)
		}
	}

	return &domain.BudgetSuggestion{
		PeriodKind:      kind,
		SuggestedTotal:  total,
		Allocations:     allocations,
		ConfidenceScore: 0.5,
		BasedOnPeriods:  0,
	}
}
