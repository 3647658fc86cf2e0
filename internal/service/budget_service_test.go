package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/voxpense/voxpense-backend/internal/domain"
	"github.com/voxpense/voxpense-backend/internal/testutil"
)

func newBudgetService() (*BudgetService, *testutil.MockBudgetRepository, *testutil.MockEventPublisher) {
	budgetRepo := testutil.NewMockBudgetRepository()
	publisher := testutil.NewMockEventPublisher()
	exclusivity := NewExclusivityService(budgetRepo, publisher)
	return NewBudgetService(budgetRepo, exclusivity, publisher), budgetRepo, publisher
}

func TestCreateBudget_Valid(t *testing.T) {
	budgetService, budgetRepo, publisher := newBudgetService()

	result, err := budgetService.Create(1, validBudget())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Validation.IsValid {
		t.Fatalf("Expected valid result, got %v", result.Validation.Errors)
	}
	if result.Budget == nil {
		t.Fatal("Expected a saved budget")
	}
	if result.Budget.ID == uuid.Nil {
		t.Error("Expected an assigned ID")
	}
	if result.Budget.WorkspaceID != 1 {
		t.Errorf("Expected workspace 1, got %d", result.Budget.WorkspaceID)
	}
	if len(budgetRepo.Budgets) != 1 {
		t.Errorf("Expected 1 stored budget, got %d", len(budgetRepo.Budgets))
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "budget.created" {
		t.Errorf("Expected one budget.created event, got %v", types)
	}
}

func TestCreateBudget_NormalizesDatesToMidnightUTC(t *testing.T) {
	budgetService, _, _ := newBudgetService()

	budget := validBudget()
	budget.StartDate = time.Date(2026, time.April, 1, 15, 30, 0, 0, time.UTC)

	result, err := budgetService.Create(1, budget)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !result.Budget.StartDate.Equal(day(2026, time.April, 1)) {
		t.Errorf("Expected midnight UTC start, got %s", result.Budget.StartDate)
	}
}

func TestCreateBudget_NameRules(t *testing.T) {
	budgetService, _, _ := newBudgetService()

	budget := validBudget()
	budget.Name = ""
	if _, err := budgetService.Create(1, budget); err != domain.ErrNameRequired {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}

	budget = validBudget()
	budget.Name = strings.Repeat("x", domain.MaxBudgetNameLength+1)
	if _, err := budgetService.Create(1, budget); err != domain.ErrNameTooLong {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}
}

func TestCreateBudget_InvalidPeriodKind(t *testing.T) {
	budgetService, _, _ := newBudgetService()

	budget := validBudget()
	budget.PeriodKind = "fortnight"
	if _, err := budgetService.Create(1, budget); err != domain.ErrInvalidPeriodKind {
		t.Errorf("Expected ErrInvalidPeriodKind, got %v", err)
	}
}

func TestCreateBudget_InvalidBudgetNotSaved(t *testing.T) {
	budgetService, budgetRepo, publisher := newBudgetService()

	budget := validBudget()
	budget.TotalAmount = decimal.NewFromInt(-100)

	result, err := budgetService.Create(1, budget)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Validation.IsValid {
		t.Fatal("Expected invalid result")
	}
	if result.Budget != nil {
		t.Error("Invalid budget must not be saved")
	}
	if len(budgetRepo.Budgets) != 0 {
		t.Errorf("Expected nothing stored, got %d", len(budgetRepo.Budgets))
	}
	if len(publisher.Events) != 0 {
		t.Errorf("Expected no events, got %d", len(publisher.Events))
	}
}

func TestCreateBudget_ActiveConflictRejected(t *testing.T) {
	budgetService, budgetRepo, _ := newBudgetService()

	existing := validBudget()
	existing.ID = uuid.New()
	existing.WorkspaceID = 1
	existing.IsActive = true
	budgetRepo.Budgets[existing.ID] = existing

	candidate := validBudget()
	candidate.IsActive = true

	_, err := budgetService.Create(1, candidate)
	if err != domain.ErrBudgetConflict {
		t.Fatalf("Expected ErrBudgetConflict, got %v", err)
	}
}

func TestCreateBudget_InactiveOverlapAllowed(t *testing.T) {
	budgetService, budgetRepo, _ := newBudgetService()

	existing := validBudget()
	existing.ID = uuid.New()
	existing.WorkspaceID = 1
	existing.IsActive = true
	budgetRepo.Budgets[existing.ID] = existing

	candidate := validBudget()
	candidate.IsActive = false

	result, err := budgetService.Create(1, candidate)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Budget == nil {
		t.Fatal("Expected inactive overlapping budget to be saved")
	}
}

func TestUpdateBudget_PreservesIdentity(t *testing.T) {
	budgetService, budgetRepo, publisher := newBudgetService()

	created, err := budgetService.Create(1, validBudget())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated := validBudget()
	updated.ID = created.Budget.ID
	updated.Name = "Renamed"
	updated.WorkspaceID = 99 // must be ignored

	result, err := budgetService.Update(1, updated)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Budget.Name != "Renamed" {
		t.Errorf("Expected renamed budget, got %s", result.Budget.Name)
	}
	if result.Budget.WorkspaceID != 1 {
		t.Errorf("Workspace must be preserved, got %d", result.Budget.WorkspaceID)
	}
	if !result.Budget.CreatedAt.Equal(created.Budget.CreatedAt) {
		t.Error("CreatedAt must be preserved across updates")
	}
	if len(budgetRepo.Budgets) != 1 {
		t.Errorf("Expected 1 stored budget, got %d", len(budgetRepo.Budgets))
	}

	types := publisher.EventTypes()
	if len(types) != 2 || types[1] != "budget.updated" {
		t.Errorf("Expected created then updated events, got %v", types)
	}
}

func TestUpdateBudget_NotFound(t *testing.T) {
	budgetService, _, _ := newBudgetService()

	budget := validBudget()
	budget.ID = uuid.New()

	_, err := budgetService.Update(1, budget)
	if err != domain.ErrBudgetNotFound {
		t.Fatalf("Expected ErrBudgetNotFound, got %v", err)
	}
}

func TestListBudgets_InvalidKind(t *testing.T) {
	budgetService, _, _ := newBudgetService()

	_, err := budgetService.List(1, "yearly")
	if err != domain.ErrInvalidPeriodKind {
		t.Fatalf("Expected ErrInvalidPeriodKind, got %v", err)
	}
}
