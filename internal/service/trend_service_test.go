package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/voxpense/voxpense-backend/internal/domain"
	"github.com/voxpense/voxpense-backend/internal/testutil"
)

func TestComputeTrend_OneDatumPerCalendarDay(t *testing.T) {
	budget := &domain.Budget{
		ID:          uuid.New(),
		WorkspaceID: 1,
		Name:        "First third",
		TotalAmount: decimal.NewFromInt(900),
		PeriodKind:  domain.PeriodKindWeek,
		StartDate:   day(2026, time.January, 1),
		EndDate:     day(2026, time.January, 10),
	}

	// Unsorted on purpose; two entries share a day
	transactions := []*domain.Transaction{
		tx(1, "food", 40, day(2026, time.January, 7)),
		tx(1, "food", 100, day(2026, time.January, 2)),
		tx(1, "transport", 60, day(2026, time.January, 2)),
	}

	series, err := ComputeTrend(budget, transactions)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(series) != 10 {
		t.Fatalf("Expected 10 data points, got %d", len(series))
	}

	first := series[0]
	if !first.Date.Equal(day(2026, time.January, 1)) {
		t.Errorf("Expected series to start at the budget start, got %s", first.Date)
	}
	if !first.DailySpend.IsZero() {
		t.Errorf("Expected no spend on day 1, got %s", first.DailySpend.String())
	}
	if !first.TargetSpend.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected first target 100, got %s", first.TargetSpend.String())
	}

	second := series[1]
	if !second.DailySpend.Equal(decimal.NewFromInt(160)) {
		t.Errorf("Expected same-day spends merged into 160, got %s", second.DailySpend.String())
	}
	if !second.CumulativeSpend.Equal(decimal.NewFromInt(160)) {
		t.Errorf("Expected cumulative 160, got %s", second.CumulativeSpend.String())
	}

	last := series[len(series)-1]
	if !last.CumulativeSpend.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected final cumulative 200, got %s", last.CumulativeSpend.String())
	}
	if !last.RemainingBudget.Equal(decimal.NewFromInt(700)) {
		t.Errorf("Expected final remaining 700, got %s", last.RemainingBudget.String())
	}
}

func TestComputeTrend_CumulativeNeverDecreases(t *testing.T) {
	budget := &domain.Budget{
		ID:          uuid.New(),
		WorkspaceID: 1,
		Name:        "March",
		TotalAmount: decimal.NewFromInt(3000),
		PeriodKind:  domain.PeriodKindMonth,
		StartDate:   day(2026, time.March, 1),
		EndDate:     day(2026, time.March, 31),
	}
	transactions := []*domain.Transaction{
		tx(1, "food", 120, day(2026, time.March, 28)),
		tx(1, "food", 75, day(2026, time.March, 3)),
		tx(1, "shopping", 410, day(2026, time.March, 15)),
	}

	series, err := ComputeTrend(budget, transactions)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(series) != 31 {
		t.Fatalf("Expected 31 data points, got %d", len(series))
	}

	prev := decimal.Zero
	for i, datum := range series {
		if datum.CumulativeSpend.LessThan(prev) {
			t.Fatalf("Cumulative spend decreased at index %d", i)
		}
		prev = datum.CumulativeSpend
	}
}

func TestComputeTrend_SingleDayPeriod(t *testing.T) {
	budget := &domain.Budget{
		ID:          uuid.New(),
		WorkspaceID: 1,
		Name:        "One day",
		TotalAmount: decimal.NewFromInt(100),
		PeriodKind:  domain.PeriodKindWeek,
		StartDate:   day(2026, time.May, 5),
		EndDate:     day(2026, time.May, 5),
	}

	series, err := ComputeTrend(budget, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("Expected a single datum, got %d", len(series))
	}
	if !series[0].TargetSpend.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected the whole total as day-one target, got %s", series[0].TargetSpend.String())
	}
}

func TestComputeTrend_FinalCumulativeMatchesUsageAtPeriodEnd(t *testing.T) {
	budget := monthBudget(1, 3000)
	transactions := []*domain.Transaction{
		tx(1, "food", 421.35, day(2026, time.March, 2)),
		tx(1, "transport", 88.60, day(2026, time.March, 2)),
		tx(1, "food", 1099.99, day(2026, time.March, 17)),
		tx(1, "shopping", 250, day(2026, time.March, 31)),
	}

	series, err := ComputeTrend(budget, transactions)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	usage, err := ComputeUsage(budget, transactions, budget.EndDate)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	last := series[len(series)-1]
	if !last.CumulativeSpend.Equal(usage.UsedAmount) {
		t.Errorf("Expected final cumulative %s to equal used amount %s",
			last.CumulativeSpend.String(), usage.UsedAmount.String())
	}
	if !last.RemainingBudget.Equal(usage.RemainingAmount) {
		t.Errorf("Expected final remaining %s to equal remaining amount %s",
			last.RemainingBudget.String(), usage.RemainingAmount.String())
	}
}

func TestGetTrend_BudgetNotFound(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	trendService := NewTrendService(budgetRepo, transactionRepo)

	_, err := trendService.GetTrend(1, uuid.New())
	if err != domain.ErrBudgetNotFound {
		t.Fatalf("Expected ErrBudgetNotFound, got %v", err)
	}
}
