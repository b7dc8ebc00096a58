package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the lifecycle state of an order.
type OrderStatus string

const (
	// OrderStatusCompleted marks an order that was paid and fulfilled.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusCancelled marks an order voided after the fact.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a persisted sale. Its total is derived from its items and is
// never set independently.
type Order struct {
	OrderDate     time.Time
	Reference     string
	CustomerName  string
	PaymentMethod PaymentMethod
	Status        OrderStatus
	Items         []OrderItem
	TotalAmount   decimal.Decimal
	ID            int64
	IsPaid        bool
}

// RecalculateTotal recomputes every item subtotal and the order total.
// It must be called after any structural mutation and before persistence.
func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		o.Items[i].Recalculate()
		total = total.Add(o.Items[i].Subtotal)
	}
	o.TotalAmount = total
}

// OrderItem is one product line within an order. UnitPrice is a snapshot
// of the product price at the time of sale and never changes afterwards.
type OrderItem struct {
	ProductName string
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	ID          int64
	OrderID     int64
	ProductID   int64 // zero once the product has been deleted
	Quantity    int
}

// Recalculate refreshes the subtotal from quantity and unit price.
func (i *OrderItem) Recalculate() {
	i.Subtotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
