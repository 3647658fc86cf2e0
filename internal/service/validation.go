package service

import (
	"fmt"

	"github.com/voxpense/voxpense-backend/internal/domain"
)

// ValidateBudget runs every acceptance check against a candidate budget.
// Checks are independent: all of them are evaluated and the result
// aggregates every failure instead of stopping at the first. Warnings
// never block acceptance.
func ValidateBudget(budget *domain.Budget) domain.ValidationResult {
	var errs, warnings []domain.ValidationIssue

	if !budget.TotalAmount.IsPositive() {
		errs = append(errs, domain.ValidationIssue{
			Code:    domain.ValidationInvalidTotal,
			Message: "total amount must be greater than zero",
			Amount:  budget.TotalAmount,
		})
	}

	if !budget.StartDate.Before(budget.EndDate) {
		errs = append(errs, domain.ValidationIssue{
			Code:    domain.ValidationInvalidDateRange,
			Message: "start date must be before end date",
		})
	}

	for _, alloc := range budget.Allocations {
		if alloc.Amount.IsNegative() {
			errs = append(errs, domain.ValidationIssue{
				Code:    domain.ValidationNegativeAlloc,
				Message: fmt.Sprintf("allocation for category %q is negative", alloc.CategoryID),
				Amount:  alloc.Amount,
			})
		}
	}

	allocated := budget.AllocatedTotal()
	switch {
	case allocated.GreaterThan(budget.TotalAmount):
		errs = append(errs, domain.ValidationIssue{
			Code:    domain.ValidationOverAllocation,
			Message: "category allocations exceed the total amount",
			Amount:  allocated.Sub(budget.TotalAmount),
		})
	case allocated.LessThan(budget.TotalAmount):
		warnings = append(warnings, domain.ValidationIssue{
			Code:    domain.ValidationUnderAllocation,
			Message: "part of the total amount is not allocated to any category",
			Amount:  budget.TotalAmount.Sub(allocated),
		})
	}

	return domain.ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}
