package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxProductNameLength is the longest allowed product name.
const MaxProductNameLength = 100

// Product is a sellable menu item belonging to exactly one category.
type Product struct {
	CreatedAt    time.Time
	Name         string
	Description  string
	CategoryName string // populated on reads that join the category
	Image        []byte
	Price        decimal.Decimal
	ID           int64
	CategoryID   int64
	IsAvailable  bool
}
