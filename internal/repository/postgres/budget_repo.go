package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/voxpense/voxpense-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL.
// Allocations are owned by their budget and stored inline as JSONB; they
// have no identity of their own.
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, workspace_id, name, total_amount, period_kind, start_date, end_date, is_active, allocations, created_at, updated_at`

// Create inserts a new budget
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(budget.TotalAmount)
	if err != nil {
		return nil, err
	}
	allocations, err := json.Marshal(budget.Allocations)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO budgets (id, workspace_id, name, total_amount, period_kind, start_date, end_date, is_active, allocations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+budgetColumns,
		budget.ID, budget.WorkspaceID, budget.Name, amount, string(budget.PeriodKind),
		budget.StartDate, budget.EndDate, budget.IsActive, allocations)

	return scanBudget(row)
}

// Update saves the caller-editable fields of a budget
func (r *BudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(budget.TotalAmount)
	if err != nil {
		return nil, err
	}
	allocations, err := json.Marshal(budget.Allocations)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE budgets
		SET name = $3, total_amount = $4, period_kind = $5, start_date = $6,
		    end_date = $7, is_active = $8, allocations = $9, updated_at = now()
		WHERE workspace_id = $1 AND id = $2
		RETURNING `+budgetColumns,
		budget.WorkspaceID, budget.ID, budget.Name, amount, string(budget.PeriodKind),
		budget.StartDate, budget.EndDate, budget.IsActive, allocations)

	updated, err := scanBudget(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrBudgetNotFound
	}
	return updated, err
}

// GetByID retrieves a budget by ID
func (r *BudgetRepository) GetByID(workspaceID int32, id uuid.UUID) (*domain.Budget, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)

	budget, err := scanBudget(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrBudgetNotFound
	}
	return budget, err
}

// ListByPeriodKind retrieves all budgets of a period kind, newest first
func (r *BudgetRepository) ListByPeriodKind(workspaceID int32, kind domain.PeriodKind) ([]*domain.Budget, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE workspace_id = $1 AND period_kind = $2
		ORDER BY start_date DESC`,
		workspaceID, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBudgets(rows)
}

// ListEndedByPeriodKind retrieves budgets whose period ended before the
// given instant, most recently ended first
func (r *BudgetRepository) ListEndedByPeriodKind(workspaceID int32, kind domain.PeriodKind, before time.Time, limit int) ([]*domain.Budget, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE workspace_id = $1 AND period_kind = $2 AND end_date < $3
		ORDER BY end_date DESC
		LIMIT $4`,
		workspaceID, string(kind), before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBudgets(rows)
}

// ApplyActivation deactivates the given budgets and activates the target
// in one transaction. A partial application is never committed.
func (r *BudgetRepository) ApplyActivation(workspaceID int32, targetID uuid.UUID, deactivateIDs []uuid.UUID) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if len(deactivateIDs) > 0 {
		_, err = tx.Exec(ctx, `
			UPDATE budgets
			SET is_active = false, updated_at = now()
			WHERE workspace_id = $1 AND id = ANY($2)`,
			workspaceID, deactivateIDs)
		if err != nil {
			return err
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE budgets
		SET is_active = true, updated_at = now()
		WHERE workspace_id = $1 AND id = $2`,
		workspaceID, targetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}

	return tx.Commit(ctx)
}

// scanBudget reads one budget row
func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		budget      domain.Budget
		amount      pgtype.Numeric
		kind        string
		allocations []byte
	)
	err := row.Scan(&budget.ID, &budget.WorkspaceID, &budget.Name, &amount, &kind,
		&budget.StartDate, &budget.EndDate, &budget.IsActive, &allocations,
		&budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		return nil, err
	}

	budget.TotalAmount = pgNumericToDecimal(amount)
	budget.PeriodKind = domain.PeriodKind(kind)
	budget.Allocations = []domain.CategoryAllocation{}
	if len(allocations) > 0 {
		if err := json.Unmarshal(allocations, &budget.Allocations); err != nil {
			return nil, err
		}
	}
	return &budget, nil
}

func scanBudgets(rows pgx.Rows) ([]*domain.Budget, error) {
	var result []*domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, budget)
	}
	return result, rows.Err()
}
