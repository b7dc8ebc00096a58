package receipt

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpos/till/internal/model"
)

func testOrder() *model.Order {
	order := &model.Order{
		ID:            1,
		Reference:     "ord-test-1",
		OrderDate:     time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
		CustomerName:  "Table 4",
		PaymentMethod: model.PaymentCash,
		Status:        model.OrderStatusCompleted,
		IsPaid:        true,
		Items: []model.OrderItem{
			{ProductName: "Cheeseburger", UnitPrice: decimal.RequireFromString("5.50"), Quantity: 2},
			{ProductName: "Fries", UnitPrice: decimal.RequireFromString("2.00"), Quantity: 1},
		},
	}
	for i := range order.Items {
		order.Items[i].Recalculate()
	}
	order.RecalculateTotal()
	return order
}

func TestRenderOrderReceipt(t *testing.T) {
	r := NewRenderer(model.DefaultSettings())

	data, err := r.Order(testOrder())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestReceiptTotalsIncludeTax(t *testing.T) {
	settings := model.DefaultSettings()
	settings.TaxRate = decimal.RequireFromString("0.15")
	r := NewRenderer(settings)

	subtotal, tax, total := r.receiptTotals(testOrder())

	assert.True(t, subtotal.Equal(decimal.RequireFromString("13.00")), "subtotal %s", subtotal)
	assert.True(t, tax.Equal(decimal.RequireFromString("1.95")), "tax %s", tax)
	assert.True(t, total.Equal(decimal.RequireFromString("14.95")), "the printed total must match what was paid, got %s", total)
}

func TestRenderOrderReceiptNil(t *testing.T) {
	r := NewRenderer(model.DefaultSettings())

	_, err := r.Order(nil)
	assert.Error(t, err)
}

func TestRenderSalesReport(t *testing.T) {
	r := NewRenderer(model.DefaultSettings())

	summary := &model.ReportSummary{
		TopSeller:       "Cheeseburger",
		TopSellerAmount: decimal.RequireFromString("16.50"),
		TotalSales:      decimal.RequireFromString("23.75"),
		AverageOrder:    decimal.RequireFromString("7.92"),
		OrderCount:      3,
	}
	rows := []model.SalesRow{
		{Name: "Cheeseburger", Total: decimal.RequireFromString("16.50")},
		{Name: "Cola", Total: decimal.RequireFromString("5.25")},
	}

	data, err := r.SalesReport("Sales by product", summary, rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}
