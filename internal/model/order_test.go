package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderRecalculateTotal(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{ProductName: "Beef Burger", Quantity: 2, UnitPrice: decimal.RequireFromString("25.00")},
			{ProductName: "Cola", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
		},
	}

	order.RecalculateTotal()

	assert.True(t, order.Items[0].Subtotal.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, order.Items[1].Subtotal.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("55.00")), "total was %s", order.TotalAmount)
}

func TestOrderRecalculateTotalAfterQuantityChange(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{ProductName: "Tea", Quantity: 1, UnitPrice: decimal.RequireFromString("4.00")},
		},
	}
	order.RecalculateTotal()
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("4.00")))

	order.Items[0].Quantity = 3
	order.RecalculateTotal()
	assert.True(t, order.Items[0].Subtotal.Equal(decimal.RequireFromString("12.00")))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("12.00")))
}

func TestOrderRecalculateTotalEmpty(t *testing.T) {
	var order Order
	order.RecalculateTotal()
	assert.True(t, order.TotalAmount.IsZero())
}
