package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/voxpense/voxpense-backend/internal/domain"
)

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	ctx := context.Background()

	var ws domain.Workspace
	err := r.pool.QueryRow(ctx, `
		SELECT id, auth0_id, name, created_at, updated_at
		FROM workspaces
		WHERE id = $1`, id).
		Scan(&ws.ID, &ws.Auth0ID, &ws.Name, &ws.CreatedAt, &ws.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// GetByAuth0ID retrieves a workspace by its Auth0 subject
func (r *WorkspaceRepository) GetByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	ctx := context.Background()

	var ws domain.Workspace
	err := r.pool.QueryRow(ctx, `
		SELECT id, auth0_id, name, created_at, updated_at
		FROM workspaces
		WHERE auth0_id = $1`, auth0ID).
		Scan(&ws.ID, &ws.Auth0ID, &ws.Name, &ws.CreatedAt, &ws.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// Create inserts a new workspace
func (r *WorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	ctx := context.Background()

	var ws domain.Workspace
	err := r.pool.QueryRow(ctx, `
		INSERT INTO workspaces (auth0_id, name)
		VALUES ($1, $2)
		RETURNING id, auth0_id, name, created_at, updated_at`,
		workspace.Auth0ID, workspace.Name).
		Scan(&ws.ID, &ws.Auth0ID, &ws.Name, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}
