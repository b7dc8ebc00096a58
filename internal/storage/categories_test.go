package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpos/till/internal/common"
	"github.com/tillpos/till/internal/model"
)

func TestCreateCategory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, &model.Category{
		Name:        "Burgers",
		Description: "Beef and chicken burgers",
	})
	require.NoError(t, err)
	assert.NotZero(t, cat.ID)
	assert.False(t, cat.CreatedAt.IsZero())

	got, err := store.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Burgers", got.Name)
	assert.Equal(t, "Beef and chicken burgers", got.Description)
}

func TestCreateCategoryValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		category *model.Category
	}{
		{"empty name", &model.Category{Name: ""}},
		{"whitespace name", &model.Category{Name: "   "}},
		{"name too long", &model.Category{Name: strings.Repeat("x", model.MaxCategoryNameLength+1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.CreateCategory(ctx, tt.category)
			assert.Error(t, err)
		})
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createTestCategory(t, store, "Drinks")

	_, err := store.CreateCategory(ctx, &model.Category{Name: "Drinks"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestGetCategoryNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetCategory(context.Background(), 9999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetCategoryByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := createTestCategory(t, store, "Sides")

	got, err := store.GetCategoryByName(ctx, "Sides")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = store.GetCategoryByName(ctx, "Desserts")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListCategories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cats, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	createTestCategory(t, store, "Burgers")
	createTestCategory(t, store, "Drinks")

	cats, err = store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
}

func TestUpdateCategory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat := createTestCategory(t, store, "Snaks")

	cat.Name = "Snacks"
	cat.Description = "Fries, nuggets and friends"
	require.NoError(t, store.UpdateCategory(ctx, cat))

	got, err := store.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Snacks", got.Name)
	assert.Equal(t, "Fries, nuggets and friends", got.Description)
}

func TestUpdateCategoryNameConflict(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createTestCategory(t, store, "Burgers")
	cat := createTestCategory(t, store, "Drinks")

	cat.Name = "Burgers"
	err := store.UpdateCategory(ctx, cat)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestUpdateCategoryNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateCategory(context.Background(), &model.Category{ID: 4242, Name: "Ghost"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteCategory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat := createTestCategory(t, store, "Seasonal")
	require.NoError(t, store.DeleteCategory(ctx, cat.ID))

	_, err := store.GetCategory(ctx, cat.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteCategoryWithProducts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat := createTestCategory(t, store, "Burgers")
	createTestProduct(t, store, cat.ID, "Cheeseburger", "5.50")

	err := store.DeleteCategory(ctx, cat.ID)
	assert.ErrorIs(t, err, common.ErrConflict)

	// Category must survive the failed delete.
	_, err = store.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
}
