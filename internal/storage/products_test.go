package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpos/till/internal/common"
	"github.com/tillpos/till/internal/model"
)

func TestCreateProduct(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat := createTestCategory(t, store, "Burgers")

	p, err := store.CreateProduct(ctx, &model.Product{
		Name:        "Double Cheeseburger",
		Description: "Two patties, cheddar",
		Price:       decimal.RequireFromString("8.25"),
		CategoryID:  cat.ID,
		IsAvailable: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Burgers", p.CategoryName)

	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Double Cheeseburger", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("8.25")), "price %s", got.Price)
	assert.True(t, got.IsAvailable)
	assert.Equal(t, "Burgers", got.CategoryName)
}

func TestCreateProductValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat := createTestCategory(t, store, "Drinks")

	tests := []struct {
		name    string
		product *model.Product
	}{
		{"empty name", &model.Product{CategoryID: cat.ID, Price: decimal.NewFromInt(1)}},
		{"negative price", &model.Product{Name: "Cola", CategoryID: cat.ID, Price: decimal.RequireFromString("-1.00")}},
		{"missing category", &model.Product{Name: "Cola", Price: decimal.NewFromInt(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.CreateProduct(ctx, tt.product)
			assert.Error(t, err)
		})
	}
}

func TestCreateProductUnknownCategory(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreateProduct(context.Background(), &model.Product{
		Name:       "Orphan",
		Price:      decimal.NewFromInt(1),
		CategoryID: 777,
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetProductByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat := createTestCategory(t, store, "Drinks")
	created := createTestProduct(t, store, cat.ID, "Lemonade", "2.50")

	got, err := store.GetProductByName(ctx, "Lemonade")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = store.GetProductByName(ctx, "Iced Tea")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListProductsByCategory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	burgers := createTestCategory(t, store, "Burgers")
	drinks := createTestCategory(t, store, "Drinks")
	createTestProduct(t, store, burgers.ID, "Cheeseburger", "5.50")
	createTestProduct(t, store, burgers.ID, "Veggie Burger", "6.00")
	createTestProduct(t, store, drinks.ID, "Cola", "1.75")

	all, err := store.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := store.ListProductsByCategory(ctx, burgers.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, burgers.ID, p.CategoryID)
	}
}

func TestSearchProducts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat := createTestCategory(t, store, "Burgers")
	createTestProduct(t, store, cat.ID, "Cheeseburger", "5.50")
	createTestProduct(t, store, cat.ID, "Chicken Burger", "6.25")
	createTestProduct(t, store, cat.ID, "Fries", "2.00")

	got, err := store.SearchProducts(ctx, "burger")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = store.SearchProducts(ctx, "sundae")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpdateProduct(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	burgers := createTestCategory(t, store, "Burgers")
	drinks := createTestCategory(t, store, "Drinks")
	p := createTestProduct(t, store, burgers.ID, "Milkshake", "3.00")

	p.CategoryID = drinks.ID
	p.Price = decimal.RequireFromString("3.50")
	p.Description = "Vanilla or chocolate"
	require.NoError(t, store.UpdateProduct(ctx, p))

	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, drinks.ID, got.CategoryID)
	assert.Equal(t, "Drinks", got.CategoryName)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("3.50")))
}

func TestUpdateProductNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat := createTestCategory(t, store, "Burgers")

	err := store.UpdateProduct(ctx, &model.Product{
		ID:         555,
		Name:       "Ghost",
		Price:      decimal.NewFromInt(1),
		CategoryID: cat.ID,
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSetProductAvailability(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat := createTestCategory(t, store, "Burgers")
	p := createTestProduct(t, store, cat.ID, "Fish Burger", "7.00")

	require.NoError(t, store.SetProductAvailability(ctx, p.ID, false))

	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAvailable)

	err = store.SetProductAvailability(ctx, 888, true)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteProductPreservesOrderHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat := createTestCategory(t, store, "Burgers")
	p := createTestProduct(t, store, cat.ID, "Limited Burger", "9.00")
	order := createTestOrder(t, store, []*model.Product{p}, testDate(2026, 3, 1))

	require.NoError(t, store.DeleteProduct(ctx, p.ID))

	_, err := store.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Order lines keep the name snapshot; the product link is cleared.
	got, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Limited Burger", got.Items[0].ProductName)
	assert.Zero(t, got.Items[0].ProductID)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("9.00")))
}
