// Package storage provides the SQLite persistence layer for the application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tillpos/till/internal/common"
	"github.com/tillpos/till/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateCategory(cat *model.Category) error {
	if cat == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	name := strings.TrimSpace(cat.Name)
	if name == "" {
		return fmt.Errorf("%w: category name cannot be empty", common.ErrValidation)
	}
	if len(name) > model.MaxCategoryNameLength {
		return fmt.Errorf("%w: category name exceeds %d characters", common.ErrValidation, model.MaxCategoryNameLength)
	}
	return nil
}

func validateProduct(p *model.Product) error {
	if p == nil {
		return fmt.Errorf("%w: product", ErrNilParameter)
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("%w: product name cannot be empty", common.ErrValidation)
	}
	if len(name) > model.MaxProductNameLength {
		return fmt.Errorf("%w: product name exceeds %d characters", common.ErrValidation, model.MaxProductNameLength)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: product price cannot be negative", common.ErrValidation)
	}
	if p.CategoryID == 0 {
		return fmt.Errorf("%w: product requires a category", common.ErrValidation)
	}
	return nil
}

func validateOrder(o *model.Order) error {
	if o == nil {
		return fmt.Errorf("%w: order", ErrNilParameter)
	}
	if len(o.Items) == 0 {
		return common.ErrEmptyOrder
	}
	for i := range o.Items {
		item := &o.Items[i]
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %q quantity must be positive", common.ErrValidation, item.ProductName)
		}
		if strings.TrimSpace(item.ProductName) == "" {
			return fmt.Errorf("%w: item product name cannot be empty", common.ErrValidation)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: item %q unit price cannot be negative", common.ErrValidation, item.ProductName)
		}
	}
	return nil
}

func validateExpense(e *model.Expense) error {
	if e == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	category := strings.TrimSpace(e.Category)
	if category == "" {
		return fmt.Errorf("%w: expense category cannot be empty", common.ErrValidation)
	}
	if len(category) > model.MaxExpenseCategoryLength {
		return fmt.Errorf("%w: expense category exceeds %d characters", common.ErrValidation, model.MaxExpenseCategoryLength)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: expense amount must be positive", common.ErrValidation)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: expense date is required", common.ErrValidation)
	}
	return nil
}

func validateUser(u *model.User) error {
	if u == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	username := strings.TrimSpace(u.Username)
	if username == "" {
		return fmt.Errorf("%w: username cannot be empty", common.ErrValidation)
	}
	if len(username) > model.MaxUsernameLength {
		return fmt.Errorf("%w: username exceeds %d characters", common.ErrValidation, model.MaxUsernameLength)
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("%w: user has no password set", common.ErrValidation)
	}
	return nil
}
