package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/voxpense/voxpense-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using
// PostgreSQL. Transactions are written by the voice-capture pipeline;
// from the engine's perspective this repository is read-only and always
// excludes soft-deleted rows.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// ListByDateRange returns non-deleted transactions with date in [start, end]
func (r *TransactionRepository) ListByDateRange(workspaceID int32, categoryID *string, start, end time.Time) ([]*domain.Transaction, error) {
	ctx := context.Background()

	query := `
		SELECT id, workspace_id, category_id, amount, tx_date, note, deleted_at
		FROM transactions
		WHERE workspace_id = $1 AND tx_date >= $2 AND tx_date <= $3 AND deleted_at IS NULL`
	args := []interface{}{workspaceID, start, end}
	if categoryID != nil {
		query += ` AND category_id = $4`
		args = append(args, *categoryID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Transaction
	for rows.Next() {
		var (
			tx        domain.Transaction
			amount    pgtype.Numeric
			note      pgtype.Text
			deletedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&tx.ID, &tx.WorkspaceID, &tx.CategoryID, &amount, &tx.Date, &note, &deletedAt); err != nil {
			return nil, err
		}
		tx.Amount = pgNumericToDecimal(amount)
		if note.Valid {
			tx.Note = &note.String
		}
		if deletedAt.Valid {
			tx.DeletedAt = &deletedAt.Time
		}
		result = append(result, &tx)
	}
	return result, rows.Err()
}

// SumByDateRange returns the sum of non-deleted transaction amounts with
// date in [start, end]
func (r *TransactionRepository) SumByDateRange(workspaceID int32, categoryID *string, start, end time.Time) (decimal.Decimal, error) {
	ctx := context.Background()

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE workspace_id = $1 AND tx_date >= $2 AND tx_date <= $3 AND deleted_at IS NULL`
	args := []interface{}{workspaceID, start, end}
	if categoryID != nil {
		query += ` AND category_id = $4`
		args = append(args, *categoryID)
	}

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(sum), nil
}
