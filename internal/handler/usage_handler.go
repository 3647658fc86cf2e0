package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/voxpense/voxpense-backend/internal/domain"
	"github.com/voxpense/voxpense-backend/internal/middleware"
	"github.com/voxpense/voxpense-backend/internal/service"
)

// UsageHandler serves budget usage, category usage and execution trends
type UsageHandler struct {
	usageService *service.UsageService
	trendService *service.TrendService
}

// NewUsageHandler creates a new UsageHandler
func NewUsageHandler(usageService *service.UsageService, trendService *service.TrendService) *UsageHandler {
	return &UsageHandler{
		usageService: usageService,
		trendService: trendService,
	}
}

// BudgetUsageResponse represents overall budget usage in API responses
type BudgetUsageResponse struct {
	BudgetID          string  `json:"budgetId"`
	TotalAmount       string  `json:"totalAmount"`
	UsedAmount        string  `json:"usedAmount"`
	RemainingAmount   string  `json:"remainingAmount"`
	UsagePercentage   float64 `json:"usagePercentage"`
	Status            string  `json:"status"`
	DaysRemaining     int     `json:"daysRemaining"`
	AverageDailySpend string  `json:"averageDailySpend"`
	ProjectedTotal    string  `json:"projectedTotal"`
	OnTrack           bool    `json:"onTrack"`
}

// CategoryUsageResponse represents per-category budget usage
type CategoryUsageResponse struct {
	CategoryID       string  `json:"categoryId"`
	CategoryName     string  `json:"categoryName"`
	AllocatedAmount  string  `json:"allocatedAmount"`
	UsedAmount       string  `json:"usedAmount"`
	RemainingAmount  string  `json:"remainingAmount"`
	UsagePercentage  float64 `json:"usagePercentage"`
	Status           string  `json:"status"`
	TransactionCount int     `json:"transactionCount"`
}

// TrendDatumResponse represents one day of the execution trend
type TrendDatumResponse struct {
	Date            string `json:"date"`
	DailySpend      string `json:"dailySpend"`
	CumulativeSpend string `json:"cumulativeSpend"`
	TargetSpend     string `json:"targetSpend"`
	RemainingBudget string `json:"remainingBudget"`
}

// GetUsage handles GET /api/v1/budgets/:id/usage?asOf=YYYY-MM-DD
func (h *UsageHandler) GetUsage(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	asOf, err := parseAsOf(c.QueryParam("asOf"))
	if err != nil {
		return NewValidationError(c, "asOf must be formatted as YYYY-MM-DD", nil)
	}

	usage, err := h.usageService.GetUsage(workspaceID, id, asOf)
	if err != nil {
		return h.mapUsageError(c, err, workspaceID, "Failed to compute budget usage")
	}

	return c.JSON(http.StatusOK, toUsageResponse(usage))
}

// GetCategoryUsage handles GET /api/v1/budgets/:id/usage/categories
func (h *UsageHandler) GetCategoryUsage(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	asOf, err := parseAsOf(c.QueryParam("asOf"))
	if err != nil {
		return NewValidationError(c, "asOf must be formatted as YYYY-MM-DD", nil)
	}

	usages, err := h.usageService.GetCategoryUsage(workspaceID, id, asOf)
	if err != nil {
		return h.mapUsageError(c, err, workspaceID, "Failed to compute category usage")
	}

	responses := make([]CategoryUsageResponse, len(usages))
	for i, u := range usages {
		responses[i] = CategoryUsageResponse{
			CategoryID:       u.CategoryID,
			CategoryName:     u.CategoryName,
			AllocatedAmount:  u.AllocatedAmount.StringFixed(2),
			UsedAmount:       u.UsedAmount.StringFixed(2),
			RemainingAmount:  u.RemainingAmount.StringFixed(2),
			UsagePercentage:  u.UsagePercentage,
			Status:           string(u.Status),
			TransactionCount: u.TransactionCount,
		}
	}
	return c.JSON(http.StatusOK, responses)
}

// GetTrend handles GET /api/v1/budgets/:id/trend
func (h *UsageHandler) GetTrend(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	trend, err := h.trendService.GetTrend(workspaceID, id)
	if err != nil {
		return h.mapUsageError(c, err, workspaceID, "Failed to compute execution trend")
	}

	responses := make([]TrendDatumResponse, len(trend))
	for i, d := range trend {
		responses[i] = TrendDatumResponse{
			Date:            d.Date.Format(dateLayout),
			DailySpend:      d.DailySpend.StringFixed(2),
			CumulativeSpend: d.CumulativeSpend.StringFixed(2),
			TargetSpend:     d.TargetSpend.StringFixed(2),
			RemainingBudget: d.RemainingBudget.StringFixed(2),
		}
	}
	return c.JSON(http.StatusOK, responses)
}

func (h *UsageHandler) mapUsageError(c echo.Context, err error, workspaceID int32, detail string) error {
	if errors.Is(err, domain.ErrBudgetNotFound) {
		return NewNotFoundError(c, "Budget not found")
	}
	// ErrNonPositiveTotal means a budget bypassed validation; treat it
	// as an internal invariant breach, not a client error.
	log.Error().Err(err).Int32("workspace_id", workspaceID).Msg(detail)
	return NewInternalError(c, detail)
}

// parseAsOf reads an optional YYYY-MM-DD reference date, defaulting to now
func parseAsOf(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse(dateLayout, raw)
}

func toUsageResponse(u *domain.BudgetUsage) BudgetUsageResponse {
	return BudgetUsageResponse{
		BudgetID:          u.BudgetID,
		TotalAmount:       u.TotalAmount.StringFixed(2),
		UsedAmount:        u.UsedAmount.StringFixed(2),
		RemainingAmount:   u.RemainingAmount.StringFixed(2),
		UsagePercentage:   u.UsagePercentage,
		Status:            string(u.Status),
		DaysRemaining:     u.DaysRemaining,
		AverageDailySpend: u.AverageDailySpend.StringFixed(2),
		ProjectedTotal:    u.ProjectedTotal.StringFixed(2),
		OnTrack:           u.OnTrack,
	}
}
