package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/voxpense/voxpense-backend/internal/domain"
	"github.com/voxpense/voxpense-backend/internal/middleware"
	"github.com/voxpense/voxpense-backend/internal/service"
)

// dateLayout is the wire format for budget boundary dates
const dateLayout = "2006-01-02"

// BudgetHandler handles budget lifecycle HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
	exclusivity   *service.ExclusivityService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService, exclusivity *service.ExclusivityService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		exclusivity:   exclusivity,
	}
}

// AllocationInput represents one category allocation in requests
type AllocationInput struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Amount       string `json:"amount"`
}

// BudgetRequest represents the create/update request body
type BudgetRequest struct {
	Name        string            `json:"name"`
	TotalAmount string            `json:"totalAmount"`
	PeriodKind  string            `json:"periodKind"`
	StartDate   string            `json:"startDate"`
	EndDate     string            `json:"endDate"`
	IsActive    bool              `json:"isActive"`
	Allocations []AllocationInput `json:"allocations"`
}

// AllocationResponse represents one category allocation in responses
type AllocationResponse struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Amount       string `json:"amount"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	TotalAmount string               `json:"totalAmount"`
	PeriodKind  string               `json:"periodKind"`
	StartDate   string               `json:"startDate"`
	EndDate     string               `json:"endDate"`
	IsActive    bool                 `json:"isActive"`
	Allocations []AllocationResponse `json:"allocations"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ValidationIssueResponse represents one validation error or warning
type ValidationIssueResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Amount  string `json:"amount,omitempty"`
}

// ValidationResultResponse represents the outcome of budget validation
type ValidationResultResponse struct {
	IsValid  bool                      `json:"isValid"`
	Errors   []ValidationIssueResponse `json:"errors"`
	Warnings []ValidationIssueResponse `json:"warnings"`
}

// ConflictResponse reports whether an active-budget conflict exists
type ConflictResponse struct {
	HasConflict bool `json:"hasConflict"`
}

// CreateBudget handles POST /api/v1/budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	budget, err := h.bindBudget(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	result, svcErr := h.budgetService.Create(workspaceID, budget)
	if svcErr != nil {
		return h.mapServiceError(c, svcErr, workspaceID, "Failed to create budget")
	}
	if !result.Validation.IsValid {
		return c.JSON(http.StatusUnprocessableEntity, toValidationResultResponse(result.Validation))
	}

	return c.JSON(http.StatusCreated, toBudgetResponse(result.Budget))
}

// UpdateBudget handles PUT /api/v1/budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.bindBudget(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}
	budget.ID = id

	result, svcErr := h.budgetService.Update(workspaceID, budget)
	if svcErr != nil {
		return h.mapServiceError(c, svcErr, workspaceID, "Failed to update budget")
	}
	if !result.Validation.IsValid {
		return c.JSON(http.StatusUnprocessableEntity, toValidationResultResponse(result.Validation))
	}

	return c.JSON(http.StatusOK, toBudgetResponse(result.Budget))
}

// GetBudget handles GET /api/v1/budgets/:id
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.budgetService.Get(workspaceID, id)
	if err != nil {
		return h.mapServiceError(c, err, workspaceID, "Failed to get budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// ListBudgets handles GET /api/v1/budgets?period=week|month
func (h *BudgetHandler) ListBudgets(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	kind := domain.PeriodKind(c.QueryParam("period"))
	budgets, err := h.budgetService.List(workspaceID, kind)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPeriodKind) {
			return NewValidationError(c, "Period must be week or month", nil)
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to list budgets")
		return NewInternalError(c, "Failed to list budgets")
	}

	responses := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		responses[i] = toBudgetResponse(b)
	}
	return c.JSON(http.StatusOK, responses)
}

// ValidateBudget handles POST /api/v1/budgets/validate. Always responds
// 200; the validation outcome is the payload, not an HTTP failure.
func (h *BudgetHandler) ValidateBudget(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	budget, err := h.bindBudget(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	result := h.budgetService.Validate(budget)
	return c.JSON(http.StatusOK, toValidationResultResponse(result))
}

// CheckConflict handles GET /api/v1/budgets/:id/conflicts
func (h *BudgetHandler) CheckConflict(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	hasConflict, err := h.exclusivity.CheckConflict(workspaceID, id)
	if err != nil {
		return h.mapServiceError(c, err, workspaceID, "Failed to check conflicts")
	}

	return c.JSON(http.StatusOK, ConflictResponse{HasConflict: hasConflict})
}

// ActivateBudget handles POST /api/v1/budgets/:id/activate
func (h *BudgetHandler) ActivateBudget(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.exclusivity.Activate(workspaceID, id)
	if err != nil {
		return h.mapServiceError(c, err, workspaceID, "Failed to activate budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeactivateBudget handles POST /api/v1/budgets/:id/deactivate
func (h *BudgetHandler) DeactivateBudget(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.exclusivity.Deactivate(workspaceID, id)
	if err != nil {
		return h.mapServiceError(c, err, workspaceID, "Failed to deactivate budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// bindBudget parses and converts the request body into a domain budget
func (h *BudgetHandler) bindBudget(c echo.Context) (*domain.Budget, error) {
	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.New("invalid request body")
	}

	total, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return nil, errors.New("totalAmount must be a valid decimal number")
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, errors.New("startDate must be formatted as YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, errors.New("endDate must be formatted as YYYY-MM-DD")
	}

	allocations := make([]domain.CategoryAllocation, len(req.Allocations))
	for i, a := range req.Allocations {
		amount, err := decimal.NewFromString(a.Amount)
		if err != nil {
			return nil, errors.New("allocation amounts must be valid decimal numbers")
		}
		allocations[i] = domain.CategoryAllocation{
			CategoryID:   a.CategoryID,
			CategoryName: a.CategoryName,
			Amount:       amount,
		}
	}

	return &domain.Budget{
		Name:        req.Name,
		TotalAmount: total,
		PeriodKind:  domain.PeriodKind(req.PeriodKind),
		StartDate:   start,
		EndDate:     end,
		IsActive:    req.IsActive,
		Allocations: allocations,
	}, nil
}

// mapServiceError translates domain errors into problem responses
func (h *BudgetHandler) mapServiceError(c echo.Context, err error, workspaceID int32, detail string) error {
	switch {
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewNotFoundError(c, "Budget not found")
	case errors.Is(err, domain.ErrBudgetConflict):
		return NewConflictError(c, "An active budget of the same period kind overlaps this date range")
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Name is required", nil)
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Name exceeds maximum length", nil)
	case errors.Is(err, domain.ErrInvalidPeriodKind):
		return NewValidationError(c, "Period must be week or month", nil)
	default:
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg(detail)
		return NewInternalError(c, detail)
	}
}

// toBudgetResponse converts a domain budget to its API shape
func toBudgetResponse(b *domain.Budget) BudgetResponse {
	allocations := make([]AllocationResponse, len(b.Allocations))
	for i, a := range b.Allocations {
		allocations[i] = AllocationResponse{
			CategoryID:   a.CategoryID,
			CategoryName: a.CategoryName,
			Amount:       a.Amount.StringFixed(2),
		}
	}
	return BudgetResponse{
		ID:          b.ID.String(),
		Name:        b.Name,
		TotalAmount: b.TotalAmount.StringFixed(2),
		PeriodKind:  string(b.PeriodKind),
		StartDate:   b.StartDate.Format(dateLayout),
		EndDate:     b.EndDate.Format(dateLayout),
		IsActive:    b.IsActive,
		Allocations: allocations,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// toValidationResultResponse converts a validation result to its API shape
func toValidationResultResponse(result domain.ValidationResult) ValidationResultResponse {
	convert := func(issues []domain.ValidationIssue) []ValidationIssueResponse {
		out := make([]ValidationIssueResponse, len(issues))
		for i, issue := range issues {
			out[i] = ValidationIssueResponse{
				Code:    issue.Code,
				Message: issue.Message,
			}
			if !issue.Amount.IsZero() {
				out[i].Amount = issue.Amount.StringFixed(2)
			}
		}
		return out
	}
	return ValidationResultResponse{
		IsValid:  result.IsValid,
		Errors:   convert(result.Errors),
		Warnings: convert(result.Warnings),
	}
}
