package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoTopSeller is the sentinel used when a period contains no sales.
const NoTopSeller = "None"

// SalesRow is one aggregated line of a sales-by-product or
// sales-by-category report.
type SalesRow struct {
	Name  string
	Total decimal.Decimal
}

// PeriodSales aggregates the orders of one calendar day or month.
type PeriodSales struct {
	Start      time.Time
	Period     string // "2006-01-02" for days, "2006-01" for months
	Total      decimal.Decimal
	OrderCount int
}

// ReportSummary condenses a date range into headline figures.
type ReportSummary struct {
	TopSeller       string
	TotalSales      decimal.Decimal
	AverageOrder    decimal.Decimal
	TopSellerAmount decimal.Decimal
	OrderCount      int
}
