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

// CreateCategory creates a new category. Names are unique.
func (s *Store) CreateCategory(ctx context.Context, cat *model.Category) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateCategory(cat); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	existing, err := s.getCategoryByName(ctx, cat.Name)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: category %q already exists", common.ErrConflict, cat.Name)
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, image, created_at) VALUES (?, ?, ?, ?)`,
		cat.Name, cat.Description, cat.Image, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category id: %w", err)
	}

	created := *cat
	created.ID = id
	created.CreatedAt = now

	slog.Debug("created category", "id", id, "name", cat.Name)
	return &created, nil
}

// GetCategory returns a category by id.
func (s *Store) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var cat model.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, image, created_at FROM categories WHERE id = ?`, id,
	).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Image, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// GetCategoryByName returns a category by its unique name.
func (s *Store) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getCategoryByName(ctx, name)
}

func (s *Store) getCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	var cat model.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, image, created_at FROM categories WHERE name = ?`, name,
	).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Image, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %q", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, image, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Image, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// UpdateCategory updates a category's name, description and image.
func (s *Store) UpdateCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(cat); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	existing, err := s.getCategoryByName(ctx, cat.Name)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	if existing != nil && existing.ID != cat.ID {
		return fmt.Errorf("%w: category %q already exists", common.ErrConflict, cat.Name)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, image = ? WHERE id = ?`,
		cat.Name, cat.Description, cat.Image, cat.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %d", common.ErrNotFound, cat.ID)
	}

	return nil
}

// DeleteCategory removes a category. Deletion is refused while any
// product still references it.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var productCount int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = ?`, id,
	).Scan(&productCount)
	if err != nil {
		return fmt.Errorf("failed to count products in category: %w", err)
	}
	if productCount > 0 {
		return fmt.Errorf("%w: category %d still has %d products", common.ErrConflict, id, productCount)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}

	slog.Debug("deleted category", "id", id)
	return nil
}
