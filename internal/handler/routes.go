package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/voxpense/voxpense-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes. The rate limiter is keyed by
// workspace, so it is registered per group after Authenticate() has put
// the workspace into context.
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, budgetHandler *BudgetHandler, usageHandler *UsageHandler, historyHandler *HistoryHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.Use(middleware.RateLimitMiddleware(rateLimiter))
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)

	// Budget routes (protected). History routes are registered before
	// the :id routes so "history" is never parsed as a budget ID.
	budgets := api.Group("/budgets")
	budgets.Use(authMiddleware.Authenticate())
	budgets.Use(middleware.RateLimitMiddleware(rateLimiter))
	budgets.GET("/history/:period/analysis", historyHandler.GetAnalysis)
	budgets.GET("/history/:period/suggestion", historyHandler.GetSuggestion)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.POST("/validate", budgetHandler.ValidateBudget)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.GET("/:id/conflicts", budgetHandler.CheckConflict)
	budgets.POST("/:id/activate", budgetHandler.ActivateBudget)
	budgets.POST("/:id/deactivate", budgetHandler.DeactivateBudget)
	budgets.GET("/:id/usage", usageHandler.GetUsage)
	budgets.GET("/:id/usage/categories", usageHandler.GetCategoryUsage)
	budgets.GET("/:id/trend", usageHandler.GetTrend)

	// WebSocket endpoint authenticates via query token, not the JWT
	// middleware, because browsers cannot set upgrade headers
	e.GET("/ws", wsHandler.HandleWS)
}
