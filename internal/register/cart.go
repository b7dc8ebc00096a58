// Package register implements the point-of-sale flow: an in-memory cart
// that accumulates order lines, computes totals with tax, takes payment
// and persists the finished order.
package register

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tillpos/till/internal/common"
	"github.com/tillpos/till/internal/model"
)

// OrderSaver persists completed orders. *storage.Store satisfies it.
type OrderSaver interface {
	SaveOrder(ctx context.Context, order *model.Order) (*model.Order, error)
}

// Totals is the cart arithmetic shown to the cashier. Tax is applied on
// top of the line subtotals; the persisted order keeps the pre-tax sum
// on its lines.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Cart is an in-progress order. It is not safe for concurrent use; each
// register session owns its own cart.
type Cart struct {
	taxRate decimal.Decimal
	lines   []model.OrderItem
}

// NewCart creates an empty cart. The tax rate is a fraction (0.15 for
// 15%) and comes from the persisted settings.
func NewCart(taxRate decimal.Decimal) *Cart {
	return &Cart{taxRate: taxRate}
}

// AddProduct adds quantity units of the product, merging into an
// existing line for the same product. Unavailable products are refused.
func (c *Cart) AddProduct(p *model.Product, quantity int) error {
	if p == nil {
		return fmt.Errorf("%w: product is required", common.ErrValidation)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", common.ErrValidation)
	}
	if !p.IsAvailable {
		return fmt.Errorf("%w: %q is not available", common.ErrValidation, p.Name)
	}

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity += quantity
			c.lines[i].Recalculate()
			return nil
		}
	}

	line := model.OrderItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.Price,
		Quantity:    quantity,
	}
	line.Recalculate()
	c.lines = append(c.lines, line)
	return nil
}

// RemoveProduct removes quantity units of the product from the cart,
// dropping the line entirely when it reaches zero.
func (c *Cart) RemoveProduct(productID int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", common.ErrValidation)
	}

	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		c.lines[i].Quantity -= quantity
		if c.lines[i].Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Recalculate()
		}
		return nil
	}

	return fmt.Errorf("%w: product %d is not in the cart", common.ErrNotFound, productID)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the current order lines.
func (c *Cart) Lines() []model.OrderItem {
	return append([]model.OrderItem(nil), c.lines...)
}

// ItemCount returns the total number of units in the cart.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Totals computes the subtotal, tax and grand total for the cart.
func (c *Cart) Totals() Totals {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.Subtotal)
	}
	tax := subtotal.Mul(c.taxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Checkout processes payment for the cart's grand total and persists
// the order. The cart is cleared only when both steps succeed; on any
// failure it is left untouched so the cashier can retry.
func (c *Cart) Checkout(ctx context.Context, saver OrderSaver, customerName string, payment model.Payment) (*model.Order, *model.PaymentResult, error) {
	if c.IsEmpty() {
		return nil, nil, common.ErrEmptyOrder
	}

	totals := c.Totals()
	result, err := model.ProcessPayment(payment, totals.Total)
	if err != nil {
		return nil, nil, err
	}

	order := &model.Order{
		CustomerName:  customerName,
		PaymentMethod: payment.Method,
		Status:        model.OrderStatusCompleted,
		IsPaid:        true,
		Items:         c.Lines(),
	}

	saved, err := saver.SaveOrder(ctx, order)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save order: %w", err)
	}

	c.Clear()
	slog.Info("checkout complete",
		"order", saved.Reference,
		"total", totals.Total.String(),
		"method", string(payment.Method))
	return saved, &result, nil
}
