package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tillpos/till/internal/common"
	"github.com/tillpos/till/internal/model"
)

// SaveOrder persists an order and all of its items in a single
// transaction. Item subtotals and the order total are recomputed before
// insert so the stored total always matches the stored items.
func (s *Store) SaveOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	saved := *order
	saved.Items = append([]model.OrderItem(nil), order.Items...)
	saved.RecalculateTotal()
	if saved.Reference == "" {
		saved.Reference = uuid.NewString()
	}
	if saved.OrderDate.IsZero() {
		saved.OrderDate = time.Now().UTC()
	} else {
		saved.OrderDate = saved.OrderDate.UTC()
	}
	if saved.Status == "" {
		saved.Status = model.OrderStatusCompleted
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO orders (reference, order_date, customer_name, total_cents, is_paid, payment_method, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		saved.Reference, saved.OrderDate, saved.CustomerName, centsFromDecimal(saved.TotalAmount),
		saved.IsPaid, string(saved.PaymentMethod), string(saved.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get order id: %w", err)
	}
	saved.ID = orderID

	if err := insertOrderItems(ctx, tx, orderID, saved.Items); err != nil {
		return nil, err
	}
	for i := range saved.Items {
		saved.Items[i].OrderID = orderID
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	slog.Info("saved order", "id", orderID, "reference", saved.Reference,
		"items", len(saved.Items), "total", saved.TotalAmount.String())
	return &saved, nil
}

func insertOrderItems(ctx context.Context, tx *sql.Tx, orderID int64, items []model.OrderItem) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price_cents, subtotal_cents)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare item statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range items {
		item := &items[i]
		var productID any
		if item.ProductID != 0 {
			productID = item.ProductID
		}
		result, err := stmt.ExecContext(ctx,
			orderID, productID, item.ProductName, item.Quantity,
			centsFromDecimal(item.UnitPrice), centsFromDecimal(item.Subtotal),
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item %q: %w", item.ProductName, err)
		}
		itemID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get order item id: %w", err)
		}
		item.ID = itemID
	}
	return nil
}

// GetOrder returns an order with all of its items.
func (s *Store) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	order, err := s.scanOrderRow(s.db.QueryRowContext(ctx,
		`SELECT id, reference, order_date, customer_name, total_cents, is_paid, payment_method, status
		 FROM orders WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	items, err := s.loadOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (s *Store) scanOrderRow(row *sql.Row) (*model.Order, error) {
	var o model.Order
	var totalCents int64
	var method, status string
	if err := row.Scan(&o.ID, &o.Reference, &o.OrderDate, &o.CustomerName,
		&totalCents, &o.IsPaid, &method, &status); err != nil {
		return nil, err
	}
	o.TotalAmount = decimalFromCents(totalCents)
	o.PaymentMethod = model.PaymentMethod(method)
	o.Status = model.OrderStatus(status)
	return &o, nil
}

func (s *Store) loadOrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, product_name, quantity, unit_price_cents, subtotal_cents
		 FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		var productID sql.NullInt64
		var unitCents, subtotalCents int64
		if err := rows.Scan(&item.ID, &item.OrderID, &productID, &item.ProductName,
			&item.Quantity, &unitCents, &subtotalCents); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		item.ProductID = productID.Int64
		item.UnitPrice = decimalFromCents(unitCents)
		item.Subtotal = decimalFromCents(subtotalCents)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// ListOrders returns orders within the inclusive date range, newest
// first, without their items. Use GetOrder for the full line detail.
func (s *Store) ListOrders(ctx context.Context, start, end time.Time) ([]model.Order, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %v is before start %v", ErrInvalidDateRange, end, start)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, reference, order_date, customer_name, total_cents, is_paid, payment_method, status
		 FROM orders WHERE order_date >= ? AND order_date <= ? ORDER BY order_date DESC`,
		start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		var totalCents int64
		var method, status string
		if err := rows.Scan(&o.ID, &o.Reference, &o.OrderDate, &o.CustomerName,
			&totalCents, &o.IsPaid, &method, &status); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.TotalAmount = decimalFromCents(totalCents)
		o.PaymentMethod = model.PaymentMethod(method)
		o.Status = model.OrderStatus(status)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateOrder replaces an order's fields and item set, recomputing every
// subtotal and the total, in a single transaction. This is the explicit
// edit flow; orders are never structurally mutated any other way after
// checkout.
func (s *Store) UpdateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	updated := *order
	updated.Items = append([]model.OrderItem(nil), order.Items...)
	updated.RecalculateTotal()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE orders SET customer_name = ?, total_cents = ?, is_paid = ?, payment_method = ?, status = ?
		 WHERE id = ?`,
		updated.CustomerName, centsFromDecimal(updated.TotalAmount), updated.IsPaid,
		string(updated.PaymentMethod), string(updated.Status), updated.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: order %d", common.ErrNotFound, updated.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, updated.ID); err != nil {
		return nil, fmt.Errorf("failed to clear order items: %w", err)
	}
	if err := insertOrderItems(ctx, tx, updated.ID, updated.Items); err != nil {
		return nil, err
	}
	for i := range updated.Items {
		updated.Items[i].OrderID = updated.ID
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order update: %w", err)
	}

	slog.Info("updated order", "id", updated.ID, "total", updated.TotalAmount.String())
	return &updated, nil
}

// DeleteOrder removes an order; its items go with it.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: order %d", common.ErrNotFound, id)
	}

	return nil
}

// CountOrders returns the total number of persisted orders.
func (s *Store) CountOrders(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}
