package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpos/till/internal/model"
)

func TestMigrateFromEmptyDatabase(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Every table the application touches must exist.
	for _, table := range []string{"categories", "products", "orders", "order_items", "expenses", "users", "app_settings"} {
		var name string
		err := store.db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}
}

func TestSchemaEnforcesChecks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cat := createTestCategory(t, store, "Burgers")

	// Negative prices are rejected at the schema level too.
	_, err := store.db.ExecContext(ctx,
		`INSERT INTO products (name, price_cents, category_id, created_at)
		 VALUES ('Bad', -100, ?, CURRENT_TIMESTAMP)`, cat.ID)
	assert.Error(t, err)

	// Order lines require a positive quantity.
	p := createTestProduct(t, store, cat.ID, "Cheeseburger", "5.50")
	order := createTestOrder(t, store, []*model.Product{p}, testDate(2026, 3, 1))
	_, err = store.db.ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price_cents, subtotal_cents)
		 VALUES (?, ?, 'Cheeseburger', 0, 550, 0)`, order.ID, p.ID)
	assert.Error(t, err)
}

func TestSchemaEnforcesForeignKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO products (name, price_cents, category_id, created_at)
		 VALUES ('Orphan', 100, 999, CURRENT_TIMESTAMP)`)
	assert.Error(t, err)
}
