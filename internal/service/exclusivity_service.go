package service

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/voxpense/voxpense-backend/internal/domain"
	"github.com/voxpense/voxpense-backend/internal/websocket"
)

// ExclusivityService enforces the single-active-budget-per-period-kind
// rule. Activation is the only multi-record mutation in the engine: the
// repository applies it as one transaction, and concurrent activations of
// the same period kind are serialized here with a keyed mutex so two
// budgets can never end up simultaneously active.
type ExclusivityService struct {
	budgetRepo domain.BudgetRepository
	publisher  websocket.EventPublisher

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewExclusivityService creates a new ExclusivityService
func NewExclusivityService(budgetRepo domain.BudgetRepository, publisher websocket.EventPublisher) *ExclusivityService {
	return &ExclusivityService{
		budgetRepo: budgetRepo,
		publisher:  publisher,
		locks:      make(map[string]*sync.Mutex),
	}
}

// HasConflict reports whether any existing budget blocks the candidate:
// a different budget of the same period kind, currently active, whose
// closed date range overlaps the candidate's. An inactive candidate never
// conflicts. The test is symmetric between two active budgets.
func HasConflict(candidate *domain.Budget, existing []*domain.Budget) bool {
	if !candidate.IsActive {
		return false
	}
	for _, other := range existing {
		if other.ID == candidate.ID {
			continue
		}
		if other.PeriodKind != candidate.PeriodKind || !other.IsActive {
			continue
		}
		if candidate.Overlaps(other) {
			return true
		}
	}
	return false
}

// CheckConflict loads the candidate's peers and runs the conflict test
func (s *ExclusivityService) CheckConflict(workspaceID int32, budgetID uuid.UUID) (bool, error) {
	budget, err := s.budgetRepo.GetByID(workspaceID, budgetID)
	if err != nil {
		return false, err
	}
	peers, err := s.budgetRepo.ListByPeriodKind(workspaceID, budget.PeriodKind)
	if err != nil {
		return false, err
	}
	return HasConflict(budget, peers), nil
}

// Activate makes the target the only active budget of its period kind.
// Every other currently active budget of the kind is deactivated in the
// same transaction. Activating an already-active budget is idempotent but
// still sweeps the others.
func (s *ExclusivityService) Activate(workspaceID int32, budgetID uuid.UUID) (*domain.Budget, error) {
	target, err := s.budgetRepo.GetByID(workspaceID, budgetID)
	if err != nil {
		return nil, err
	}

	lock := s.kindLock(workspaceID, target.PeriodKind)
	lock.Lock()
	defer lock.Unlock()

	peers, err := s.budgetRepo.ListByPeriodKind(workspaceID, target.PeriodKind)
	if err != nil {
		return nil, err
	}

	var deactivate []uuid.UUID
	for _, peer := range peers {
		if peer.ID != target.ID && peer.IsActive {
			deactivate = append(deactivate, peer.ID)
		}
	}

	if err := s.budgetRepo.ApplyActivation(workspaceID, target.ID, deactivate); err != nil {
		return nil, err
	}

	activated, err := s.budgetRepo.GetByID(workspaceID, target.ID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Str("budget_id", budgetID.String()).
		Str("period_kind", string(target.PeriodKind)).
		Int("deactivated", len(deactivate)).
		Msg("Budget activated")

	if s.publisher != nil {
		s.publisher.Publish(workspaceID, websocket.BudgetActivated(activated))
	}

	return activated, nil
}

// Deactivate clears the active flag on one budget. No exclusivity side
// effects; the other budgets of the kind are untouched.
func (s *ExclusivityService) Deactivate(workspaceID int32, budgetID uuid.UUID) (*domain.Budget, error) {
	budget, err := s.budgetRepo.GetByID(workspaceID, budgetID)
	if err != nil {
		return nil, err
	}

	budget.IsActive = false
	updated, err := s.budgetRepo.Update(budget)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Str("budget_id", budgetID.String()).
		Msg("Budget deactivated")

	if s.publisher != nil {
		s.publisher.Publish(workspaceID, websocket.BudgetDeactivated(updated))
	}

	return updated, nil
}

// kindLock returns the mutex serializing activations for one workspace
// and period kind
func (s *ExclusivityService) kindLock(workspaceID int32, kind domain.PeriodKind) *sync.Mutex {
	key := fmt.Sprintf("%d/%s", workspaceID, kind)

	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}
