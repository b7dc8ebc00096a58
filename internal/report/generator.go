// Package report composes sales and expense aggregations into the
// summaries shown by the CLI and exported to CSV/PDF.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillpos/till/internal/model"
)

// Storage is the slice of the persistence layer that reporting reads.
// *storage.Store satisfies it.
type Storage interface {
	SalesByProduct(ctx context.Context, start, end time.Time) ([]model.SalesRow, error)
	SalesByCategory(ctx context.Context, start, end time.Time) ([]model.SalesRow, error)
	DailySales(ctx context.Context, start, end time.Time) ([]model.PeriodSales, error)
	MonthlySales(ctx context.Context, start, end time.Time) ([]model.PeriodSales, error)
	SalesTotals(ctx context.Context, start, end time.Time) (int, decimal.Decimal, error)
	ListExpenses(ctx context.Context, start, end time.Time) ([]model.Expense, error)
}

// ProfitSummary sets sales against expenses for a period.
type ProfitSummary struct {
	Sales    decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// Generator runs reporting queries and shapes the results.
type Generator struct {
	store Storage
}

// NewGenerator creates a report generator backed by the given store.
func NewGenerator(store Storage) *Generator {
	return &Generator{store: store}
}

// Summarize builds the headline numbers for a date range. An empty
// range yields zero totals and the "None" top seller sentinel, never an
// error.
func (g *Generator) Summarize(ctx context.Context, start, end time.Time) (*model.ReportSummary, error) {
	count, total, err := g.store.SalesTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to compute sales totals: %w", err)
	}

	summary := &model.ReportSummary{
		TopSeller:  model.NoTopSeller,
		TotalSales: total,
		OrderCount: count,
	}
	if count > 0 {
		summary.AverageOrder = total.Div(decimal.NewFromInt(int64(count))).Round(2)
	}

	rows, err := g.store.SalesByProduct(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}
	if len(rows) > 0 {
		summary.TopSeller = rows[0].Name
		summary.TopSellerAmount = rows[0].Total
	}

	return summary, nil
}

// Profit computes total sales minus total expenses for a date range.
func (g *Generator) Profit(ctx context.Context, start, end time.Time) (*ProfitSummary, error) {
	_, sales, err := g.store.SalesTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to compute sales totals: %w", err)
	}

	expenses, err := g.store.ListExpenses(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	spent := decimal.Zero
	for _, e := range expenses {
		spent = spent.Add(e.Amount)
	}

	return &ProfitSummary{
		Sales:    sales,
		Expenses: spent,
		Net:      sales.Sub(spent),
	}, nil
}

// ProductSales ranks products by revenue for a date range.
func (g *Generator) ProductSales(ctx context.Context, start, end time.Time) ([]model.SalesRow, error) {
	return g.store.SalesByProduct(ctx, start, end)
}

// CategorySales ranks categories by revenue for a date range.
func (g *Generator) CategorySales(ctx context.Context, start, end time.Time) ([]model.SalesRow, error) {
	return g.store.SalesByCategory(ctx, start, end)
}

// PeriodSales groups revenue by day or by month.
func (g *Generator) PeriodSales(ctx context.Context, start, end time.Time, monthly bool) ([]model.PeriodSales, error) {
	if monthly {
		return g.store.MonthlySales(ctx, start, end)
	}
	return g.store.DailySales(ctx, start, end)
}
