package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpos/till/internal/model"
)

// newTestStore creates a migrated store backed by a temp file.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "till.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func createTestCategory(t *testing.T, store *Store, name string) *model.Category {
	t.Helper()

	cat, err := store.CreateCategory(context.Background(), &model.Category{
		Name:        name,
		Description: name + " items",
	})
	require.NoError(t, err)
	return cat
}

func createTestProduct(t *testing.T, store *Store, categoryID int64, name, price string) *model.Product {
	t.Helper()

	p, err := store.CreateProduct(context.Background(), &model.Product{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		CategoryID:  categoryID,
		IsAvailable: true,
	})
	require.NoError(t, err)
	return p
}

func createTestOrder(t *testing.T, store *Store, products []*model.Product, when time.Time) *model.Order {
	t.Helper()

	order := &model.Order{
		OrderDate:     when,
		PaymentMethod: model.PaymentCash,
		IsPaid:        true,
	}
	for i, p := range products {
		order.Items = append(order.Items, model.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    i + 1,
		})
	}

	saved, err := store.SaveOrder(context.Background(), order)
	require.NoError(t, err)
	return saved
}

func testDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestNewMissingPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestCentsConversion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cents int64
	}{
		{"whole dollars", "12.00", 1200},
		{"with cents", "4.75", 475},
		{"rounds half up", "1.005", 101},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.input)
			cents := centsFromDecimal(d)
			assert.Equal(t, tt.cents, cents)
			assert.True(t, decimalFromCents(cents).Equal(decimal.New(tt.cents, -2)))
		})
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrateSeedsDefaultSettings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rate, err := store.GetSetting(ctx, model.SettingTaxRate)
	require.NoError(t, err)
	assert.Equal(t, "0.15", rate)

	settings, err := store.ListSettings(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, settings)
}
