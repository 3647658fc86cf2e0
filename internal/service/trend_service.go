package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/voxpense/voxpense-backend/internal/domain"
	"github.com/voxpense/voxpense-backend/internal/util"
)

// TrendService produces the day-by-day execution series for a budget
type TrendService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
}

// NewTrendService creates a new TrendService
func NewTrendService(budgetRepo domain.BudgetRepository, transactionRepo domain.TransactionRepository) *TrendService {
	return &TrendService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
	}
}

// GetTrend loads the budget's full transaction window and computes the
// execution series across the whole period.
func (s *TrendService) GetTrend(workspaceID int32, budgetID uuid.UUID) ([]*domain.BudgetExecutionDatum, error) {
	budget, err := s.budgetRepo.GetByID(workspaceID, budgetID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.ListByDateRange(workspaceID, nil, budget.StartDate, budget.EndDate)
	if err != nil {
		return nil, err
	}

	return ComputeTrend(budget, transactions)
}

// ComputeTrend walks every calendar day in [start, end] inclusive and
// emits cumulative spend against a straight-line pacing target. The daily
// target is constant across the series (totalAmount / totalDaysInPeriod).
// Both boundaries are normalized to midnight UTC before the walk.
func ComputeTrend(budget *domain.Budget, transactions []*domain.Transaction) ([]*domain.BudgetExecutionDatum, error) {
	start := util.MidnightUTC(budget.StartDate)
	end := util.MidnightUTC(budget.EndDate)

	// Pre-bucket spend per calendar day; repository order is not
	// guaranteed.
	dailySpend := make(map[int64]decimal.Decimal)
	for _, tx := range transactions {
		key := util.MidnightUTC(tx.Date).Unix()
		dailySpend[key] = dailySpend[key].Add(tx.Amount)
	}

	totalDays := util.WholeDaysBetween(start, end)
	if totalDays < 1 {
		totalDays = 1
	}
	dailyTarget := budget.TotalAmount.Div(decimal.NewFromInt(int64(totalDays)))

	series := make([]*domain.BudgetExecutionDatum, 0, util.InclusiveDayCount(start, end))
	cumulative := decimal.Zero

	day := start
	for index := 0; !day.After(end); index++ {
		spend := dailySpend[day.Unix()]
		cumulative = cumulative.Add(spend)

		series = append(series, &domain.BudgetExecutionDatum{
			Date:            day,
			DailySpend:      spend,
			CumulativeSpend: cumulative,
			TargetSpend:     dailyTarget.Mul(decimal.NewFromInt(int64(index + 1))),
			RemainingBudget: budget.TotalAmount.Sub(cumulative),
		})

		next := day.AddDate(0, 0, 1)
		if !next.After(day) {
			// A non-advancing step would loop forever; fail loudly.
			return nil, domain.ErrCalendarStalled
		}
		day = next
	}

	return series, nil
}
