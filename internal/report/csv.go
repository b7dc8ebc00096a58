package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/tillpos/till/internal/model"
)

// WriteSalesCSV writes ranked sales rows with a header line.
func WriteSalesCSV(w io.Writer, label string, rows []model.SalesRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{label, "total"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Name, row.Total.StringFixed(2)}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WritePeriodCSV writes per-day or per-month sales with a header line.
func WritePeriodCSV(w io.Writer, periods []model.PeriodSales) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"period", "orders", "total"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range periods {
		if err := cw.Write([]string{p.Period, fmt.Sprintf("%d", p.OrderCount), p.Total.StringFixed(2)}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteExpensesCSV writes expense rows with a header line.
func WriteExpensesCSV(w io.Writer, expenses []model.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "reference", "category", "description", "vendor", "amount", "payment_method"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			e.Date.Format("2006-01-02"),
			e.Reference,
			e.Category,
			e.Description,
			e.Vendor,
			e.Amount.StringFixed(2),
			e.PaymentMethod,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
