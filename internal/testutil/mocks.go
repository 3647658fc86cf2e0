package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/voxpense/voxpense-backend/internal/domain"
	"github.com/voxpense/voxpense-backend/internal/websocket"
)

// MockBudgetRepository is an in-memory implementation of
// domain.BudgetRepository. Methods lock so concurrent activation tests
// stay race-free.
type MockBudgetRepository struct {
	mu      sync.Mutex
	Budgets map[uuid.UUID]*domain.Budget

	CreateFn          func(budget *domain.Budget) (*domain.Budget, error)
	UpdateFn          func(budget *domain.Budget) (*domain.Budget, error)
	ApplyActivationFn func(workspaceID int32, targetID uuid.UUID, deactivateIDs []uuid.UUID) error
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[uuid.UUID]*domain.Budget),
	}
}

// Create stores a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	if m.CreateFn != nil {
		return m.CreateFn(budget)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	stored := *budget
	m.Budgets[budget.ID] = &stored
	return budget, nil
}

// Update replaces an existing budget
func (m *MockBudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(budget)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Budgets[budget.ID]
	if !ok || existing.WorkspaceID != budget.WorkspaceID {
		return nil, domain.ErrBudgetNotFound
	}
	budget.UpdatedAt = time.Now()
	stored := *budget
	m.Budgets[budget.ID] = &stored
	return budget, nil
}

// GetByID retrieves a budget scoped to a workspace
func (m *MockBudgetRepository) GetByID(workspaceID int32, id uuid.UUID) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	budget, ok := m.Budgets[id]
	if !ok || budget.WorkspaceID != workspaceID {
		return nil, domain.ErrBudgetNotFound
	}
	copied := *budget
	return &copied, nil
}

// ListByPeriodKind returns a workspace's budgets of one period kind,
// newest start date first.
func (m *MockBudgetRepository) ListByPeriodKind(workspaceID int32, kind domain.PeriodKind) ([]*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Budget
	for _, b := range m.Budgets {
		if b.WorkspaceID == workspaceID && b.PeriodKind == kind {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

// ListEndedByPeriodKind returns ended budgets, most recently ended first
func (m *MockBudgetRepository) ListEndedByPeriodKind(workspaceID int32, kind domain.PeriodKind, before time.Time, limit int) ([]*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Budget
	for _, b := range m.Budgets {
		if b.WorkspaceID == workspaceID && b.PeriodKind == kind && b.EndDate.Before(before) {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EndDate.After(out[j].EndDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ApplyActivation activates the target and deactivates the listed budgets
func (m *MockBudgetRepository) ApplyActivation(workspaceID int32, targetID uuid.UUID, deactivateIDs []uuid.UUID) error {
	if m.ApplyActivationFn != nil {
		return m.ApplyActivationFn(workspaceID, targetID, deactivateIDs)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.Budgets[targetID]
	if !ok || target.WorkspaceID != workspaceID {
		return domain.ErrBudgetNotFound
	}
	for _, id := range deactivateIDs {
		if b, ok := m.Budgets[id]; ok && b.WorkspaceID == workspaceID {
			b.IsActive = false
		}
	}
	target.IsActive = true
	return nil
}

// MockTransactionRepository is an in-memory implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions []*domain.Transaction

	ListFn func(workspaceID int32, categoryID *string, start, end time.Time) ([]*domain.Transaction, error)
	SumFn  func(workspaceID int32, categoryID *string, start, end time.Time) (decimal.Decimal, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

// Add appends a transaction to the fixture set
func (m *MockTransactionRepository) Add(tx *domain.Transaction) {
	m.Transactions = append(m.Transactions, tx)
}

// ListByDateRange returns non-deleted transactions inside [start, end]
func (m *MockTransactionRepository) ListByDateRange(workspaceID int32, categoryID *string, start, end time.Time) ([]*domain.Transaction, error) {
	if m.ListFn != nil {
		return m.ListFn(workspaceID, categoryID, start, end)
	}
	var out []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.WorkspaceID != workspaceID || tx.DeletedAt != nil {
			continue
		}
		if categoryID != nil && tx.CategoryID != *categoryID {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// SumByDateRange totals the amounts ListByDateRange would return
func (m *MockTransactionRepository) SumByDateRange(workspaceID int32, categoryID *string, start, end time.Time) (decimal.Decimal, error) {
	if m.SumFn != nil {
		return m.SumFn(workspaceID, categoryID, start, end)
	}
	txs, err := m.ListByDateRange(workspaceID, categoryID, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Amount)
	}
	return sum, nil
}

// MockWorkspaceRepository is an in-memory implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces map[int32]*domain.Workspace
	ByAuth0ID  map[string]*domain.Workspace
	nextID     int32
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces: make(map[int32]*domain.Workspace),
		ByAuth0ID:  make(map[string]*domain.Workspace),
	}
}

// GetByID retrieves a workspace by ID
func (m *MockWorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	if ws, ok := m.Workspaces[id]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// GetByAuth0ID retrieves a workspace by its Auth0 subject
func (m *MockWorkspaceRepository) GetByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	if ws, ok := m.ByAuth0ID[auth0ID]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// Create stores a new workspace
func (m *MockWorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	m.nextID++
	workspace.ID = m.nextID
	workspace.CreatedAt = time.Now()
	workspace.UpdatedAt = workspace.CreatedAt
	m.Workspaces[workspace.ID] = workspace
	m.ByAuth0ID[workspace.Auth0ID] = workspace
	return workspace, nil
}

// PublishedEvent records one event delivered to MockEventPublisher
type PublishedEvent struct {
	WorkspaceID int32
	Event       websocket.Event
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(workspaceID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{WorkspaceID: workspaceID, Event: event})
}

// EventTypes returns the types of all recorded events in publish order
func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = string(e.Event.Type)
	}
	return types
}
