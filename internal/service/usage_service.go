package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/voxpense/voxpense-backend/internal/domain"
	"github.com/voxpense/voxpense-backend/internal/util"
)

// UsageService computes budget consumption snapshots. All calculation is
// pure and recomputed per call; only budget/transaction lookup touches
// the repositories.
type UsageService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
}

// NewUsageService creates a new UsageService
func NewUsageService(budgetRepo domain.BudgetRepository, transactionRepo domain.TransactionRepository) *UsageService {
	return &UsageService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
	}
}

// GetUsage resolves the budget and the total spent in its transaction
// window, then computes the usage snapshot as of the given date. The
// total comes from the repository aggregate; no rows are hydrated.
func (s *UsageService) GetUsage(workspaceID int32, budgetID uuid.UUID, asOf time.Time) (*domain.BudgetUsage, error) {
	budget, err := s.budgetRepo.GetByID(workspaceID, budgetID)
	if err != nil {
		return nil, err
	}

	used, err := s.sumWindow(workspaceID, budget, asOf)
	if err != nil {
		return nil, err
	}

	return computeUsageFromTotal(budget, used, asOf)
}

// GetCategoryUsage computes per-allocation usage for a budget as of the
// given date, one entry per allocation in allocation order.
func (s *UsageService) GetCategoryUsage(workspaceID int32, budgetID uuid.UUID, asOf time.Time) ([]*domain.CategoryBudgetUsage, error) {
	budget, err := s.budgetRepo.GetByID(workspaceID, budgetID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.listWindow(workspaceID, budget, asOf)
	if err != nil {
		return nil, err
	}

	return ComputeCategoryUsage(budget, transactions), nil
}

// listWindow loads non-deleted transactions in [start, min(end, asOf)]
func (s *UsageService) listWindow(workspaceID int32, budget *domain.Budget, asOf time.Time) ([]*domain.Transaction, error) {
	end := budget.EndDate
	if asOf.Before(end) {
		end = asOf
	}
	if end.Before(budget.StartDate) {
		// Query window is empty when asOf precedes the budget start
		return nil, nil
	}
	return s.transactionRepo.ListByDateRange(workspaceID, nil, budget.StartDate, end)
}

// sumWindow totals non-deleted transactions in [start, min(end, asOf)]
// at the repository
func (s *UsageService) sumWindow(workspaceID int32, budget *domain.Budget, asOf time.Time) (decimal.Decimal, error) {
	end := budget.EndDate
	if asOf.Before(end) {
		end = asOf
	}
	if end.Before(budget.StartDate) {
		// Query window is empty when asOf precedes the budget start
		return decimal.Zero, nil
	}
	return s.transactionRepo.SumByDateRange(workspaceID, nil, budget.StartDate, end)
}

// ComputeUsage derives a usage snapshot for one budget from the
// transactions dated within [start, min(end, asOf)]. It is a pure
// function of its inputs. A non-positive total amount means validation
// was bypassed and yields ErrNonPositiveTotal.
func ComputeUsage(budget *domain.Budget, transactions []*domain.Transaction, asOf time.Time) (*domain.BudgetUsage, error) {
	used := decimal.Zero
	for _, tx := range transactions {
		used = used.Add(tx.Amount)
	}
	return computeUsageFromTotal(budget, used, asOf)
}

func computeUsageFromTotal(budget *domain.Budget, used decimal.Decimal, asOf time.Time) (*domain.BudgetUsage, error) {
	if !budget.TotalAmount.IsPositive() {
		return nil, domain.ErrNonPositiveTotal
	}

	remaining := budget.TotalAmount.Sub(used) // not clamped; negative when exceeded
	percentage := used.Mul(decimal.NewFromInt(100)).Div(budget.TotalAmount)
	status := domain.StatusForPercentage(percentage)

	daysElapsed := util.WholeDaysBetween(budget.StartDate, asOf)
	if daysElapsed < 1 {
		daysElapsed = 1
	}

	totalDays := util.WholeDaysBetween(budget.StartDate, budget.EndDate)
	if totalDays < 1 {
		totalDays = 1
	}

	averageDaily := used.Div(decimal.NewFromInt(int64(daysElapsed)))
	projected := averageDaily.Mul(decimal.NewFromInt(int64(totalDays)))

	daysRemaining := util.WholeDaysBetween(asOf, budget.EndDate)
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	return &domain.BudgetUsage{
		BudgetID:          budget.ID.String(),
		TotalAmount:       budget.TotalAmount,
		UsedAmount:        used,
		RemainingAmount:   remaining,
		UsagePercentage:   percentage.InexactFloat64(),
		Status:            status,
		DaysRemaining:     daysRemaining,
		AverageDailySpend: averageDaily,
		ProjectedTotal:    projected,
		OnTrack:           isOnTrack(status, projected, budget.TotalAmount),
	}, nil
}

// isOnTrack: exceeded budgets are never on track; a warning budget is on
// track only while its linear projection stays within the total; safe
// budgets are on track unconditionally.
func isOnTrack(status domain.BudgetStatus, projected, total decimal.Decimal) bool {
	switch status {
	case domain.BudgetStatusExceeded:
		return false
	case domain.BudgetStatusWarning:
		return projected.LessThanOrEqual(total)
	default:
		return true
	}
}

// ComputeCategoryUsage partitions the transaction window by category and
// derives one usage entry per allocation, preserving allocation order.
// Transactions whose category matches no allocation are ignored.
func ComputeCategoryUsage(budget *domain.Budget, transactions []*domain.Transaction) []*domain.CategoryBudgetUsage {
	type bucket struct {
		sum   decimal.Decimal
		count int
	}
	buckets := make(map[string]*bucket, len(budget.Allocations))
	for _, alloc := range budget.Allocations {
		buckets[alloc.CategoryID] = &bucket{sum: decimal.Zero}
	}
	for _, tx := range transactions {
		if b, ok := buckets[tx.CategoryID]; ok {
			b.sum = b.sum.Add(tx.Amount)
			b.count++
		}
	}

	result := make([]*domain.CategoryBudgetUsage, len(budget.Allocations))
	for i, alloc := range budget.Allocations {
		b := buckets[alloc.CategoryID]

		// Zero-allocation categories are valid ("not yet budgeted");
		// report 0% instead of dividing by zero.
		percentage := decimal.Zero
		if alloc.Amount.IsPositive() {
			percentage = b.sum.Mul(decimal.NewFromInt(100)).Div(alloc.Amount)
		}

		result[i] = &domain.CategoryBudgetUsage{
			CategoryID:       alloc.CategoryID,
			CategoryName:     alloc.CategoryName,
			AllocatedAmount:  alloc.Amount,
			UsedAmount:       b.sum,
			RemainingAmount:  alloc.Amount.Sub(b.sum),
			UsagePercentage:  percentage.InexactFloat64(),
			Status:           domain.StatusForPercentage(percentage),
			TransactionCount: b.count,
		}
	}
	return result
}
