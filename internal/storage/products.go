package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tillpos/till/internal/common"
	"github.com/tillpos/till/internal/model"
)

const productColumns = `p.id, p.name, p.description, p.price_cents, p.is_available,
	p.image, p.category_id, c.name, p.created_at`

func scanProduct(scanner interface{ Scan(dest ...any) error }) (*model.Product, error) {
	var p model.Product
	var priceCents int64
	if err := scanner.Scan(
		&p.ID, &p.Name, &p.Description, &priceCents, &p.IsAvailable,
		&p.Image, &p.CategoryID, &p.CategoryName, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.Price = decimalFromCents(priceCents)
	return &p, nil
}

// CreateProduct creates a new product within an existing category.
func (s *Store) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var categoryName string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM categories WHERE id = ?`, p.CategoryID).Scan(&categoryName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %d", common.ErrNotFound, p.CategoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, description, price_cents, is_available, image, category_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, centsFromDecimal(p.Price), p.IsAvailable, p.Image, p.CategoryID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get product id: %w", err)
	}

	created := *p
	created.ID = id
	created.CategoryName = categoryName
	created.CreatedAt = now
	created.Price = p.Price.Round(2)

	slog.Debug("created product", "id", id, "name", p.Name, "price", created.Price.String())
	return &created, nil
}

// GetProduct returns a product by id.
func (s *Store) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products p JOIN categories c ON c.id = p.category_id WHERE p.id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

// GetProductByName returns a product by exact name.
func (s *Store) GetProductByName(ctx context.Context, name string) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products p JOIN categories c ON c.id = p.category_id WHERE p.name = ?`, name)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %q", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

// ListProducts returns all products ordered by name.
func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products p JOIN categories c ON c.id = p.category_id ORDER BY p.name`)
}

// ListProductsByCategory returns all products in one category.
func (s *Store) ListProductsByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products p JOIN categories c ON c.id = p.category_id
		 WHERE p.category_id = ? ORDER BY p.name`, categoryID)
}

// SearchProducts returns up to 50 products whose name contains the query.
func (s *Store) SearchProducts(ctx context.Context, query string) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(query, "query"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products p JOIN categories c ON c.id = p.category_id
		 WHERE p.name LIKE ? ORDER BY p.name LIMIT 50`, "%"+query+"%")
}

func (s *Store) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// UpdateProduct updates a product's fields. Historical order lines keep
// the unit price they were sold at.
func (s *Store) UpdateProduct(ctx context.Context, p *model.Product) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProduct(p); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE id = ?`, p.CategoryID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: category %d", common.ErrNotFound, p.CategoryID)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, price_cents = ?, is_available = ?, image = ?, category_id = ?
		 WHERE id = ?`,
		p.Name, p.Description, centsFromDecimal(p.Price), p.IsAvailable, p.Image, p.CategoryID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %d", common.ErrNotFound, p.ID)
	}

	return nil
}

// SetProductAvailability toggles whether a product can be sold.
func (s *Store) SetProductAvailability(ctx context.Context, id int64, available bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result, err := s.db.ExecContext(ctx, `UPDATE products SET is_available = ? WHERE id = ?`, available, id)
	if err != nil {
		return fmt.Errorf("failed to update product availability: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %d", common.ErrNotFound, id)
	}

	return nil
}

// DeleteProduct removes a product. Historical order lines survive: they
// keep the product name snapshot and their product reference is cleared.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %d", common.ErrNotFound, id)
	}

	slog.Debug("deleted product", "id", id)
	return nil
}
