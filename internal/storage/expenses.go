package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tillpos/till/internal/common"
	"github.com/tillpos/till/internal/model"
)

// CreateExpense records a new expense with audit fields stamped.
func (s *Store) CreateExpense(ctx context.Context, e *model.Expense) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateExpense(e); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	created := *e
	if created.Reference == "" {
		created.Reference = uuid.NewString()
	}
	created.CreatedAt = time.Now().UTC()
	created.Date = created.Date.UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (reference, category, amount_cents, expense_date, description,
			vendor, receipt_ref, payment_method, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.Reference, created.Category, centsFromDecimal(created.Amount), created.Date,
		created.Description, created.Vendor, created.ReceiptRef, created.PaymentMethod,
		created.CreatedBy, created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get expense id: %w", err)
	}
	created.ID = id
	created.Amount = e.Amount.Round(2)

	return &created, nil
}

// GetExpense returns an expense by id.
func (s *Store) GetExpense(ctx context.Context, id int64) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, reference, category, amount_cents, expense_date, description,
			vendor, receipt_ref, payment_method, created_by, created_at, modified_by, modified_at
		 FROM expenses WHERE id = ?`, id)

	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}
	return e, nil
}

func scanExpense(scanner interface{ Scan(dest ...any) error }) (*model.Expense, error) {
	var e model.Expense
	var amountCents int64
	var reference, modifiedBy sql.NullString
	var modifiedAt sql.NullTime
	if err := scanner.Scan(&e.ID, &reference, &e.Category, &amountCents, &e.Date, &e.Description,
		&e.Vendor, &e.ReceiptRef, &e.PaymentMethod, &e.CreatedBy, &e.CreatedAt,
		&modifiedBy, &modifiedAt); err != nil {
		return nil, err
	}
	e.Reference = reference.String
	e.Amount = decimalFromCents(amountCents)
	e.ModifiedBy = modifiedBy.String
	if modifiedAt.Valid {
		t := modifiedAt.Time
		e.ModifiedAt = &t
	}
	return &e, nil
}

// ListExpenses returns expenses within the inclusive date range, newest first.
func (s *Store) ListExpenses(ctx context.Context, start, end time.Time) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %v is before start %v", ErrInvalidDateRange, end, start)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, reference, category, amount_cents, expense_date, description,
			vendor, receipt_ref, payment_method, created_by, created_at, modified_by, modified_at
		 FROM expenses WHERE expense_date >= ? AND expense_date <= ? ORDER BY expense_date DESC`,
		start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// UpdateExpense updates an expense and stamps the modification audit fields.
func (s *Store) UpdateExpense(ctx context.Context, e *model.Expense, modifiedBy string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(e); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET category = ?, amount_cents = ?, expense_date = ?, description = ?,
			vendor = ?, receipt_ref = ?, payment_method = ?, modified_by = ?, modified_at = ?
		 WHERE id = ?`,
		e.Category, centsFromDecimal(e.Amount), e.Date.UTC(), e.Description,
		e.Vendor, e.ReceiptRef, e.PaymentMethod, modifiedBy, now, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense %d", common.ErrNotFound, e.ID)
	}

	e.ModifiedBy = modifiedBy
	e.ModifiedAt = &now
	return nil
}

// DeleteExpense removes an expense.
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense %d", common.ErrNotFound, id)
	}

	return nil
}
