package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/voxpense/voxpense-backend/internal/middleware"
	"github.com/voxpense/voxpense-backend/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// WorkspaceResponse represents a workspace in API responses
type WorkspaceResponse struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// AuthCallbackResponse represents the response from the auth callback
type AuthCallbackResponse struct {
	Workspace      WorkspaceResponse `json:"workspace"`
	IsNewWorkspace bool              `json:"isNewWorkspace"`
}

// Callback handles the Auth0 callback after successful authentication.
// The frontend calls this once it holds a validated Auth0 token.
// POST /auth/callback
func (h *AuthHandler) Callback(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		log.Error().Msg("No Auth0 ID in context - middleware may not be configured")
		return NewUnauthorizedError(c, "Authentication required")
	}

	var name string
	if claims := middleware.GetCustomClaims(c); claims != nil {
		name = claims.Name
	}

	result, err := h.authService.Authenticate(auth0ID, name)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to authenticate")
		return NewInternalError(c, "Failed to authenticate")
	}

	return c.JSON(http.StatusOK, AuthCallbackResponse{
		Workspace: WorkspaceResponse{
			ID:   result.Workspace.ID,
			Name: result.Workspace.Name,
		},
		IsNewWorkspace: result.IsNewWorkspace,
	})
}

// Me returns the current workspace
// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	workspace, err := h.authService.GetWorkspaceByAuth0ID(auth0ID)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to get workspace")
		return NewNotFoundError(c, "Workspace not found")
	}

	return c.JSON(http.StatusOK, AuthCallbackResponse{
		Workspace: WorkspaceResponse{
			ID:   workspace.ID,
			Name: workspace.Name,
		},
		IsNewWorkspace: false,
	})
}
