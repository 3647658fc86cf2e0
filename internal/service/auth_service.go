package service

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/voxpense/voxpense-backend/internal/domain"
)

// AuthService resolves workspaces from Auth0 identities. The app is
// single-user per workspace, so the workspace IS the account.
type AuthService struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(workspaceRepo domain.WorkspaceRepository) *AuthService {
	return &AuthService{workspaceRepo: workspaceRepo}
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	Workspace      *domain.Workspace
	IsNewWorkspace bool
}

// Authenticate resolves (or provisions) the workspace for an Auth0
// subject after the frontend completes the Auth0 flow.
func (s *AuthService) Authenticate(auth0ID, name string) (*AuthResult, error) {
	workspace, err := s.workspaceRepo.GetByAuth0ID(auth0ID)
	if err == nil {
		return &AuthResult{Workspace: workspace}, nil
	}
	if !errors.Is(err, domain.ErrWorkspaceNotFound) {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Workspace lookup failed")
		return nil, err
	}

	if name == "" {
		name = "My Expenses"
	}
	workspace, err = s.workspaceRepo.Create(&domain.Workspace{
		Auth0ID: auth0ID,
		Name:    name,
	})
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create workspace")
		return nil, err
	}

	log.Info().Int32("workspace_id", workspace.ID).Msg("Provisioned new workspace")
	return &AuthResult{Workspace: workspace, IsNewWorkspace: true}, nil
}

// GetWorkspaceByAuth0ID retrieves the workspace for an Auth0 subject
func (s *AuthService) GetWorkspaceByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByAuth0ID(auth0ID)
}
