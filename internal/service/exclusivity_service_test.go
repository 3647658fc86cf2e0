package service

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/voxpense/voxpense-backend/internal/domain"
	"github.com/voxpense/voxpense-backend/internal/testutil"
)

func activeBudget(workspaceID int32, kind domain.PeriodKind, start, end time.Time) *domain.Budget {
	return &domain.Budget{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        "budget",
		TotalAmount: decimal.NewFromInt(1000),
		PeriodKind:  kind,
		StartDate:   start,
		EndDate:     end,
		IsActive:    true,
	}
}

func TestHasConflict_OverlappingActiveSameKind(t *testing.T) {
	candidate := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))
	other := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 15), day(2026, time.April, 14))

	if !HasConflict(candidate, []*domain.Budget{other}) {
		t.Error("Expected conflict for overlapping active budgets of same kind")
	}
	// Symmetric: swapping candidate and existing must agree
	if !HasConflict(other, []*domain.Budget{candidate}) {
		t.Error("Expected conflict to be symmetric")
	}
}

func TestHasConflict_InactiveCandidateNeverConflicts(t *testing.T) {
	candidate := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))
	candidate.IsActive = false
	other := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))

	if HasConflict(candidate, []*domain.Budget{other}) {
		t.Error("Inactive candidate must not conflict")
	}
}

func TestHasConflict_InactiveExistingIgnored(t *testing.T) {
	candidate := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))
	other := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))
	other.IsActive = false

	if HasConflict(candidate, []*domain.Budget{other}) {
		t.Error("Inactive existing budget must not conflict")
	}
}

func TestHasConflict_DifferentKindCoexists(t *testing.T) {
	candidate := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))
	weekly := activeBudget(1, domain.PeriodKindWeek, day(2026, time.March, 2), day(2026, time.March, 8))

	if HasConflict(candidate, []*domain.Budget{weekly}) {
		t.Error("A weekly budget inside a monthly one must not conflict")
	}
}

func TestHasConflict_TouchingBoundariesOverlap(t *testing.T) {
	candidate := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))
	adjacent := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 31), day(2026, time.April, 29))

	// Closed intervals: sharing a single day is an overlap
	if !HasConflict(candidate, []*domain.Budget{adjacent}) {
		t.Error("Budgets sharing a boundary day must conflict")
	}
}

func TestHasConflict_DisjointRanges(t *testing.T) {
	candidate := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))
	next := activeBudget(1, domain.PeriodKindMonth, day(2026, time.April, 1), day(2026, time.April, 30))

	if HasConflict(candidate, []*domain.Budget{next}) {
		t.Error("Disjoint ranges must not conflict")
	}
}

func TestHasConflict_IgnoresItself(t *testing.T) {
	candidate := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))

	if HasConflict(candidate, []*domain.Budget{candidate}) {
		t.Error("A budget must not conflict with itself")
	}
}

func TestActivate_DeactivatesOtherActiveBudgets(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	publisher := testutil.NewMockEventPublisher()
	exclusivity := NewExclusivityService(budgetRepo, publisher)

	current := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))
	target := activeBudget(1, domain.PeriodKindMonth, day(2026, time.April, 1), day(2026, time.April, 30))
	target.IsActive = false
	budgetRepo.Budgets[current.ID] = current
	budgetRepo.Budgets[target.ID] = target

	activated, err := exclusivity.Activate(1, target.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !activated.IsActive {
		t.Error("Expected target to be active")
	}
	if budgetRepo.Budgets[current.ID].IsActive {
		t.Error("Expected previously active budget to be deactivated")
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "budget.activated" {
		t.Errorf("Expected one budget.activated event, got %v", types)
	}
}

func TestActivate_Idempotent(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	publisher := testutil.NewMockEventPublisher()
	exclusivity := NewExclusivityService(budgetRepo, publisher)

	target := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))
	budgetRepo.Budgets[target.ID] = target

	activated, err := exclusivity.Activate(1, target.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !activated.IsActive {
		t.Error("Expected budget to stay active")
	}
}

func TestActivate_NotFound(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	exclusivity := NewExclusivityService(budgetRepo, nil)

	_, err := exclusivity.Activate(1, uuid.New())
	if err != domain.ErrBudgetNotFound {
		t.Fatalf("Expected ErrBudgetNotFound, got %v", err)
	}
}

func TestActivate_ConcurrentActivationsLeaveOneActive(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	exclusivity := NewExclusivityService(budgetRepo, nil)

	a := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))
	b := activeBudget(1, domain.PeriodKindMonth, day(2026, time.April, 1), day(2026, time.April, 30))
	a.IsActive = false
	b.IsActive = false
	budgetRepo.Budgets[a.ID] = a
	budgetRepo.Budgets[b.ID] = b

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		id := a.ID
		if i%2 == 0 {
			id = b.ID
		}
		wg.Add(1)
		go func(target uuid.UUID) {
			defer wg.Done()
			if _, err := exclusivity.Activate(1, target); err != nil {
				t.Errorf("Activate failed: %v", err)
			}
		}(id)
	}
	wg.Wait()

	active := 0
	for _, budget := range budgetRepo.Budgets {
		if budget.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("Expected exactly one active budget after the race, got %d", active)
	}
}

func TestDeactivate_ClearsActiveFlagOnly(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	publisher := testutil.NewMockEventPublisher()
	exclusivity := NewExclusivityService(budgetRepo, publisher)

	target := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))
	bystander := activeBudget(1, domain.PeriodKindWeek, day(2026, time.March, 2), day(2026, time.March, 8))
	budgetRepo.Budgets[target.ID] = target
	budgetRepo.Budgets[bystander.ID] = bystander

	updated, err := exclusivity.Deactivate(1, target.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.IsActive {
		t.Error("Expected budget to be inactive")
	}
	if !budgetRepo.Budgets[bystander.ID].IsActive {
		t.Error("Deactivation must not touch other budgets")
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "budget.deactivated" {
		t.Errorf("Expected one budget.deactivated event, got %v", types)
	}
}

func TestCheckConflict_UsesStoredBudget(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	exclusivity := NewExclusivityService(budgetRepo, nil)

	current := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 1), day(2026, time.March, 31))
	overlapping := activeBudget(1, domain.PeriodKindMonth, day(2026, time.March, 20), day(2026, time.April, 19))
	budgetRepo.Budgets[current.ID] = current
	budgetRepo.Budgets[overlapping.ID] = overlapping

	hasConflict, err := exclusivity.CheckConflict(1, overlapping.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !hasConflict {
		t.Error("Expected stored overlap to be reported")
	}
}
