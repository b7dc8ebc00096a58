package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpos/till/internal/model"
)

// fakeStorage returns canned aggregation results.
type fakeStorage struct {
	products   []model.SalesRow
	categories []model.SalesRow
	daily      []model.PeriodSales
	monthly    []model.PeriodSales
	expenses   []model.Expense
	orderCount int
	salesTotal decimal.Decimal
}

func (f *fakeStorage) SalesByProduct(context.Context, time.Time, time.Time) ([]model.SalesRow, error) {
	return f.products, nil
}

func (f *fakeStorage) SalesByCategory(context.Context, time.Time, time.Time) ([]model.SalesRow, error) {
	return f.categories, nil
}

func (f *fakeStorage) DailySales(context.Context, time.Time, time.Time) ([]model.PeriodSales, error) {
	return f.daily, nil
}

func (f *fakeStorage) MonthlySales(context.Context, time.Time, time.Time) ([]model.PeriodSales, error) {
	return f.monthly, nil
}

func (f *fakeStorage) SalesTotals(context.Context, time.Time, time.Time) (int, decimal.Decimal, error) {
	return f.orderCount, f.salesTotal, nil
}

func (f *fakeStorage) ListExpenses(context.Context, time.Time, time.Time) ([]model.Expense, error) {
	return f.expenses, nil
}

func TestSummarize(t *testing.T) {
	gen := NewGenerator(&fakeStorage{
		orderCount: 3,
		salesTotal: decimal.RequireFromString("23.75"),
		products: []model.SalesRow{
			{Name: "Cheeseburger", Total: decimal.RequireFromString("16.50")},
			{Name: "Cola", Total: decimal.RequireFromString("5.25")},
		},
	})

	summary, err := gen.Summarize(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.OrderCount)
	assert.True(t, summary.TotalSales.Equal(decimal.RequireFromString("23.75")))
	assert.True(t, summary.AverageOrder.Equal(decimal.RequireFromString("7.92")), "average %s", summary.AverageOrder)
	assert.Equal(t, "Cheeseburger", summary.TopSeller)
	assert.True(t, summary.TopSellerAmount.Equal(decimal.RequireFromString("16.50")))
}

func TestSummarizeNoOrders(t *testing.T) {
	gen := NewGenerator(&fakeStorage{})

	summary, err := gen.Summarize(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Zero(t, summary.OrderCount)
	assert.True(t, summary.TotalSales.IsZero())
	assert.True(t, summary.AverageOrder.IsZero(), "no division by zero on empty ranges")
	assert.Equal(t, model.NoTopSeller, summary.TopSeller)
}

func TestProfit(t *testing.T) {
	gen := NewGenerator(&fakeStorage{
		orderCount: 5,
		salesTotal: decimal.RequireFromString("500.00"),
		expenses: []model.Expense{
			{Amount: decimal.RequireFromString("120.00")},
			{Amount: decimal.RequireFromString("80.50")},
		},
	})

	profit, err := gen.Profit(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	assert.True(t, profit.Sales.Equal(decimal.RequireFromString("500.00")))
	assert.True(t, profit.Expenses.Equal(decimal.RequireFromString("200.50")))
	assert.True(t, profit.Net.Equal(decimal.RequireFromString("299.50")))
}

func TestWriteSalesCSV(t *testing.T) {
	var buf strings.Builder
	rows := []model.SalesRow{
		{Name: "Cheeseburger", Total: decimal.RequireFromString("16.5")},
		{Name: "Fries, large", Total: decimal.RequireFromString("2")},
	}

	require.NoError(t, WriteSalesCSV(&buf, "product", rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "product,total", lines[0])
	assert.Equal(t, "Cheeseburger,16.50", lines[1])
	// Names containing commas stay quoted.
	assert.Equal(t, `"Fries, large",2.00`, lines[2])
}

func TestWritePeriodCSV(t *testing.T) {
	var buf strings.Builder
	periods := []model.PeriodSales{
		{Period: "2026-03-01", OrderCount: 2, Total: decimal.RequireFromString("18.25")},
	}

	require.NoError(t, WritePeriodCSV(&buf, periods))
	assert.Contains(t, buf.String(), "2026-03-01,2,18.25")
}

func TestWriteExpensesCSV(t *testing.T) {
	var buf strings.Builder
	expenses := []model.Expense{
		{
			Date:          time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
			Reference:     "exp-1",
			Category:      "Supplies",
			Vendor:        "Metro Wholesale",
			Amount:        decimal.RequireFromString("45.90"),
			PaymentMethod: "cash",
		},
	}

	require.NoError(t, WriteExpensesCSV(&buf, expenses))
	assert.Contains(t, buf.String(), "2026-03-03,exp-1,Supplies,,Metro Wholesale,45.90,cash")
}
