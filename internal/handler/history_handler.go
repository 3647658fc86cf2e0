package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/voxpense/voxpense-backend/internal/domain"
	"github.com/voxpense/voxpense-backend/internal/middleware"
	"github.com/voxpense/voxpense-backend/internal/service"
)

var errInvalidCount = errors.New("count must be a positive integer")

// HistoryHandler serves past-budget analysis and next-budget suggestions
type HistoryHandler struct {
	historyService *service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// CategoryHistoryStatResponse represents one category's historical stats
type CategoryHistoryStatResponse struct {
	CategoryID       string `json:"categoryId"`
	CategoryName     string `json:"categoryName"`
	AverageAllocated string `json:"averageAllocated"`
	AverageSpent     string `json:"averageSpent"`
	PeriodCount      int    `json:"periodCount"`
}

// HistoryAnalysisResponse represents the aggregated analysis of past budgets
type HistoryAnalysisResponse struct {
	PeriodKind       string                        `json:"periodKind"`
	PeriodCount      int                           `json:"periodCount"`
	AverageSpent     string                        `json:"averageSpent"`
	AverageBudget    string                        `json:"averageBudget"`
	AverageUsageRate float64                       `json:"averageUsageRate"`
	SuccessRate      float64                       `json:"successRate"`
	Trend            string                        `json:"trend"`
	Categories       []CategoryHistoryStatResponse `json:"categories"`
}

// SuggestedAllocationResponse represents one suggested category line
type SuggestedAllocationResponse struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Amount       string `json:"amount"`
}

// SuggestionResponse represents a synthesized next budget
type SuggestionResponse struct {
	PeriodKind      string                        `json:"periodKind"`
	SuggestedTotal  string                        `json:"suggestedTotal"`
	Allocations     []SuggestedAllocationResponse `json:"allocations"`
	ConfidenceScore float64                       `json:"confidenceScore"`
	BasedOnPeriods  int                           `json:"basedOnPeriods"`
}

// GetAnalysis handles GET /api/v1/budgets/history/:period/analysis?count=N
func (h *HistoryHandler) GetAnalysis(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	kind := domain.PeriodKind(c.Param("period"))
	if !kind.Valid() {
		return NewValidationError(c, "Period must be week or month", nil)
	}

	count, err := parseCount(c.QueryParam("count"))
	if err != nil {
		return NewValidationError(c, "count must be a positive integer", nil)
	}

	analysis, err := h.historyService.Analyze(workspaceID, kind, count)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to analyze budget history")
		return NewInternalError(c, "Failed to analyze budget history")
	}

	categories := make([]CategoryHistoryStatResponse, len(analysis.Categories))
	for i, stat := range analysis.Categories {
		categories[i] = CategoryHistoryStatResponse{
			CategoryID:       stat.CategoryID,
			CategoryName:     stat.CategoryName,
			AverageAllocated: stat.AverageAllocated.StringFixed(2),
			AverageSpent:     stat.AverageSpent.StringFixed(2),
			PeriodCount:      stat.PeriodCount,
		}
	}

	return c.JSON(http.StatusOK, HistoryAnalysisResponse{
		PeriodKind:       string(analysis.PeriodKind),
		PeriodCount:      analysis.PeriodCount,
		AverageSpent:     analysis.AverageSpent.StringFixed(2),
		AverageBudget:    analysis.AverageBudget.StringFixed(2),
		AverageUsageRate: analysis.AverageUsageRate,
		SuccessRate:      analysis.SuccessRate,
		Trend:            string(analysis.Trend),
		Categories:       categories,
	})
}

// GetSuggestion handles GET /api/v1/budgets/history/:period/suggestion?count=N&useHistory=true|false
func (h *HistoryHandler) GetSuggestion(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	kind := domain.PeriodKind(c.Param("period"))
	if !kind.Valid() {
		return NewValidationError(c, "Period must be week or month", nil)
	}

	count, err := parseCount(c.QueryParam("count"))
	if err != nil {
		return NewValidationError(c, "count must be a positive integer", nil)
	}

	useHistory := true
	if raw := c.QueryParam("useHistory"); raw != "" {
		useHistory, err = strconv.ParseBool(raw)
		if err != nil {
			return NewValidationError(c, "useHistory must be true or false", nil)
		}
	}

	suggestion, err := h.historyService.Suggest(workspaceID, kind, count, useHistory)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to build budget suggestion")
		return NewInternalError(c, "Failed to build budget suggestion")
	}

	allocations := make([]SuggestedAllocationResponse, len(suggestion.Allocations))
	for i, a := range suggestion.Allocations {
		allocations[i] = SuggestedAllocationResponse{
			CategoryID:   a.CategoryID,
			CategoryName: a.CategoryName,
			Amount:       a.Amount.StringFixed(2),
		}
	}

	return c.JSON(http.StatusOK, SuggestionResponse{
		PeriodKind:      string(suggestion.PeriodKind),
		SuggestedTotal:  suggestion.SuggestedTotal.StringFixed(2),
		Allocations:     allocations,
		ConfidenceScore: suggestion.ConfidenceScore,
		BasedOnPeriods:  suggestion.BasedOnPeriods,
	})
}

// parseCount reads an optional positive period count, defaulting to the
// service's standard window.
func parseCount(raw string) (int, error) {
	if raw == "" {
		return service.DefaultHistoryCount, nil
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count <= 0 {
		return 0, errInvalidCount
	}
	return count, nil
}
