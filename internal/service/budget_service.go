package service

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/voxpense/voxpense-backend/internal/domain"
	"github.com/voxpense/voxpense-backend/internal/util"
	"github.com/voxpense/voxpense-backend/internal/websocket"
)

// BudgetService handles budget lifecycle: validation, conflict checks,
// persistence, and change events. Analytics live in the usage, trend and
// history services.
type BudgetService struct {
	budgetRepo  domain.BudgetRepository
	exclusivity *ExclusivityService
	publisher   websocket.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, exclusivity *ExclusivityService, publisher websocket.EventPublisher) *BudgetService {
	return &BudgetService{
		budgetRepo:  budgetRepo,
		exclusivity: exclusivity,
		publisher:   publisher,
	}
}

// CreateResult pairs the saved budget with the validation outcome. When
// validation fails nothing is saved and Budget is nil.
type CreateResult struct {
	Budget     *domain.Budget
	Validation domain.ValidationResult
}

// Create validates the candidate, checks conflicts against existing
// active budgets of the kind, then persists. Activation, when requested,
// goes through the exclusivity path after the save.
func (s *BudgetService) Create(workspaceID int32, budget *domain.Budget) (*CreateResult, error) {
	if budget.Name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(budget.Name) > domain.MaxBudgetNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !budget.PeriodKind.Valid() {
		return nil, domain.ErrInvalidPeriodKind
	}

	budget.StartDate = util.MidnightUTC(budget.StartDate)
	budget.EndDate = util.MidnightUTC(budget.EndDate)

	validation := ValidateBudget(budget)
	if !validation.IsValid {
		return &CreateResult{Validation: validation}, nil
	}

	if budget.IsActive {
		peers, err := s.budgetRepo.ListByPeriodKind(workspaceID, budget.PeriodKind)
		if err != nil {
			return nil, err
		}
		if HasConflict(budget, peers) {
			return nil, domain.ErrBudgetConflict
		}
	}

	budget.ID = uuid.New()
	budget.WorkspaceID = workspaceID

	created, err := s.budgetRepo.Create(budget)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Str("budget_id", created.ID.String()).
		Str("period_kind", string(created.PeriodKind)).
		Str("total", created.TotalAmount.String()).
		Msg("Budget created")

	if s.publisher != nil {
		s.publisher.Publish(workspaceID, websocket.BudgetCreated(created))
	}

	return &CreateResult{Budget: created, Validation: validation}, nil
}

// Update revalidates and re-checks conflicts before saving changed fields
func (s *BudgetService) Update(workspaceID int32, budget *domain.Budget) (*CreateResult, error) {
	existing, err := s.budgetRepo.GetByID(workspaceID, budget.ID)
	if err != nil {
		return nil, err
	}

	if budget.Name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(budget.Name) > domain.MaxBudgetNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !budget.PeriodKind.Valid() {
		return nil, domain.ErrInvalidPeriodKind
	}

	budget.StartDate = util.MidnightUTC(budget.StartDate)
	budget.EndDate = util.MidnightUTC(budget.EndDate)
	budget.WorkspaceID = existing.WorkspaceID
	budget.CreatedAt = existing.CreatedAt

	validation := ValidateBudget(budget)
	if !validation.IsValid {
		return &CreateResult{Validation: validation}, nil
	}

	if budget.IsActive {
		peers, err := s.budgetRepo.ListByPeriodKind(workspaceID, budget.PeriodKind)
		if err != nil {
			return nil, err
		}
		if HasConflict(budget, peers) {
			return nil, domain.ErrBudgetConflict
		}
	}

	updated, err := s.budgetRepo.Update(budget)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Str("budget_id", updated.ID.String()).
		Msg("Budget updated")

	if s.publisher != nil {
		s.publisher.Publish(workspaceID, websocket.BudgetUpdated(updated))
	}

	return &CreateResult{Budget: updated, Validation: validation}, nil
}

// Get retrieves one budget
func (s *BudgetService) Get(workspaceID int32, id uuid.UUID) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(workspaceID, id)
}

// List retrieves all budgets of a period kind
func (s *BudgetService) List(workspaceID int32, kind domain.PeriodKind) ([]*domain.Budget, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidPeriodKind
	}
	return s.budgetRepo.ListByPeriodKind(workspaceID, kind)
}

// Validate runs the acceptance checks without persisting anything
func (s *BudgetService) Validate(budget *domain.Budget) domain.ValidationResult {
	budget.StartDate = util.MidnightUTC(budget.StartDate)
	budget.EndDate = util.MidnightUTC(budget.EndDate)
	return ValidateBudget(budget)
}
