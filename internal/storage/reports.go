package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillpos/till/internal/model"
)

// Reporting queries are read-only aggregations over persisted orders.
// Date ranges are inclusive on both ends. Grouping by product uses the
// name snapshot on the order line, so sales survive product deletion.

// SalesByProduct sums item subtotals per product name, largest first.
func (s *Store) SalesByProduct(ctx context.Context, start, end time.Time) ([]model.SalesRow, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %v is before start %v", ErrInvalidDateRange, end, start)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.querySalesRows(ctx, `
		SELECT oi.product_name, SUM(oi.subtotal_cents)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.order_date >= ? AND o.order_date <= ?
		GROUP BY oi.product_name
		ORDER BY SUM(oi.subtotal_cents) DESC, oi.product_name`,
		start.UTC(), end.UTC())
}

// SalesByCategory sums item subtotals per category name, largest first.
// Lines whose product has been deleted fall under "Uncategorized".
func (s *Store) SalesByCategory(ctx context.Context, start, end time.Time) ([]model.SalesRow, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %v is before start %v", ErrInvalidDateRange, end, start)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.querySalesRows(ctx, `
		SELECT COALESCE(c.name, 'Uncategorized'), SUM(oi.subtotal_cents)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN products p ON p.id = oi.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE o.order_date >= ? AND o.order_date <= ?
		GROUP BY COALESCE(c.name, 'Uncategorized')
		ORDER BY SUM(oi.subtotal_cents) DESC, COALESCE(c.name, 'Uncategorized')`,
		start.UTC(), end.UTC())
}

func (s *Store) querySalesRows(ctx context.Context, query string, args ...any) ([]model.SalesRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.SalesRow
	for rows.Next() {
		var row model.SalesRow
		var cents int64
		if err := rows.Scan(&row.Name, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan sales row: %w", err)
		}
		row.Total = decimalFromCents(cents)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales rows: %w", err)
	}

	return result, nil
}

// DailySales groups orders by calendar day in chronological order.
func (s *Store) DailySales(ctx context.Context, start, end time.Time) ([]model.PeriodSales, error) {
	return s.periodSales(ctx, start, end, "%Y-%m-%d", "2006-01-02")
}

// MonthlySales groups orders by calendar month in chronological order.
func (s *Store) MonthlySales(ctx context.Context, start, end time.Time) ([]model.PeriodSales, error) {
	return s.periodSales(ctx, start, end, "%Y-%m", "2006-01")
}

func (s *Store) periodSales(ctx context.Context, start, end time.Time, sqlFormat, goFormat string) ([]model.PeriodSales, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %v is before start %v", ErrInvalidDateRange, end, start)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT strftime('%s', o.order_date), COUNT(*), SUM(o.total_cents)
		FROM orders o
		WHERE o.order_date >= ? AND o.order_date <= ?
		GROUP BY strftime('%s', o.order_date)
		ORDER BY strftime('%s', o.order_date)`, sqlFormat, sqlFormat, sqlFormat),
		start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query period sales: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.PeriodSales
	for rows.Next() {
		var ps model.PeriodSales
		var cents int64
		if err := rows.Scan(&ps.Period, &ps.OrderCount, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan period sales: %w", err)
		}
		ps.Total = decimalFromCents(cents)
		if t, err := time.Parse(goFormat, ps.Period); err == nil {
			ps.Start = t
		}
		result = append(result, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period sales: %w", err)
	}

	return result, nil
}

// SalesTotals returns the order count and summed order totals within
// the inclusive date range.
func (s *Store) SalesTotals(ctx context.Context, start, end time.Time) (int, decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return 0, decimal.Zero, err
	}
	if end.Before(start) {
		return 0, decimal.Zero, fmt.Errorf("%w: end %v is before start %v", ErrInvalidDateRange, end, start)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	var cents int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(o.total_cents), 0)
		FROM orders o
		WHERE o.order_date >= ? AND o.order_date <= ?`,
		start.UTC(), end.UTC()).Scan(&count, &cents)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to query sales totals: %w", err)
	}

	return count, decimalFromCents(cents), nil
}
