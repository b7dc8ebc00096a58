package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store is the SQLite-backed persistence layer for the application.
//
// The maintenance lock separates row-level operations (shared lock) from
// store-file-level operations: backup, restore and optimize take the
// exclusive lock so they never run concurrently with each other or with
// live writes.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// New opens (creating if necessary) the database at dbPath.
func New(dbPath string) (*Store, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the location of the primary database file.
func (s *Store) Path() string {
	return s.dbPath
}

// NewBackupManager creates a backup manager bound to this store.
func (s *Store) NewBackupManager(backupsDir string) (*BackupManager, error) {
	return NewBackupManager(s, backupsDir)
}

// Money columns are stored as integer cents so that SQL aggregation
// stays exact. Conversion always rounds to two decimal places.

func centsFromDecimal(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

func decimalFromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
