package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tillpos/till/internal/model"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT UNIQUE NOT NULL,
					description TEXT,
					image BLOB,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS products (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					description TEXT,
					price_cents INTEGER NOT NULL CHECK (price_cents >= 0),
					is_available INTEGER NOT NULL DEFAULT 1,
					image BLOB,
					category_id INTEGER NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE RESTRICT
				)`,
				`CREATE INDEX idx_products_name_category ON products(name, category_id)`,

				`CREATE TABLE IF NOT EXISTS orders (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					reference TEXT UNIQUE NOT NULL,
					order_date DATETIME NOT NULL,
					customer_name TEXT,
					total_cents INTEGER NOT NULL,
					is_paid INTEGER NOT NULL DEFAULT 0,
					payment_method TEXT,
					status TEXT NOT NULL
				)`,
				`CREATE INDEX idx_orders_date ON orders(order_date)`,

				`CREATE TABLE IF NOT EXISTS order_items (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					order_id INTEGER NOT NULL,
					product_id INTEGER,
					product_name TEXT NOT NULL,
					quantity INTEGER NOT NULL CHECK (quantity > 0),
					unit_price_cents INTEGER NOT NULL,
					subtotal_cents INTEGER NOT NULL,
					FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
					FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE SET NULL
				)`,
				`CREATE INDEX idx_order_items_order ON order_items(order_id)`,

				`CREATE TABLE IF NOT EXISTS expenses (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					category TEXT NOT NULL,
					amount_cents INTEGER NOT NULL CHECK (amount_cents > 0),
					expense_date DATETIME NOT NULL,
					description TEXT,
					vendor TEXT,
					receipt_ref TEXT,
					payment_method TEXT,
					created_by TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					modified_by TEXT,
					modified_at DATETIME
				)`,
				`CREATE INDEX idx_expenses_date ON expenses(expense_date)`,

				`CREATE TABLE IF NOT EXISTS users (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					username TEXT UNIQUE NOT NULL,
					password_hash TEXT NOT NULL,
					full_name TEXT,
					email TEXT,
					role TEXT,
					is_active INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					last_login_at DATETIME
				)`,

				`CREATE TABLE IF NOT EXISTS app_settings (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					key TEXT UNIQUE NOT NULL,
					value TEXT NOT NULL,
					grp TEXT,
					description TEXT
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Seed default application settings",
		Up: func(tx *sql.Tx) error {
			defaults := []struct {
				key, value, grp, description string
			}{
				{model.SettingCompanyName, "Fast Food Restaurant", "general", "Company name printed on receipts"},
				{model.SettingCompanyAddress, "Main Street, Downtown", "general", "Company address printed on receipts"},
				{model.SettingCompanyPhone, "0123456789", "general", "Company phone printed on receipts"},
				{model.SettingTaxRate, "0.15", "financial", "Sales tax rate applied at checkout"},
				{model.SettingCurrencySymbol, "$", "financial", "Currency symbol for display"},
				{model.SettingReceiptFooter, "Thank you for your visit!", "printing", "Footer line on receipts"},
				{model.SettingDefaultPrinter, "", "printing", "Default printer name"},
				{model.SettingBackupPath, "", "system", "Directory for managed backups"},
				{model.SettingAutoBackup, "true", "system", "Create a snapshot before optimize/restore"},
			}

			for _, d := range defaults {
				_, err := tx.Exec(
					`INSERT OR IGNORE INTO app_settings (key, value, grp, description) VALUES (?, ?, ?, ?)`,
					d.key, d.value, d.grp, d.description,
				)
				if err != nil {
					return fmt.Errorf("failed to seed setting %s: %w", d.key, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add expense references and indexes for reporting",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE expenses ADD COLUMN reference TEXT`,
				`CREATE UNIQUE INDEX idx_expenses_reference ON expenses(reference)`,
				`CREATE INDEX idx_order_items_product ON order_items(product_id)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *Store) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if current > ExpectedSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than expected %d", current, ExpectedSchemaVersion)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		slog.Info("applied migration", "version", m.Version, "description", m.Description)
	}

	return nil
}

// SchemaVersion returns the current schema version of the database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
