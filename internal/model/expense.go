package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxExpenseCategoryLength is the longest allowed expense category label.
const MaxExpenseCategoryLength = 50

// Expense is an operating cost recorded outside the order flow.
type Expense struct {
	Date          time.Time
	CreatedAt     time.Time
	ModifiedAt    *time.Time
	Reference     string
	Category      string
	Description   string
	Vendor        string
	ReceiptRef    string
	PaymentMethod string
	CreatedBy     string
	ModifiedBy    string
	Amount        decimal.Decimal
	ID            int64
}
