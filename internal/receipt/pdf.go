// Package receipt renders customer receipts and sales reports as PDF
// documents.
package receipt

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/tillpos/till/internal/model"
)

var (
	inkDark = &props.Color{Red: 40, Green: 40, Blue: 40}
	inkSoft = &props.Color{Red: 120, Green: 120, Blue: 120}
)

// Renderer produces PDF documents branded with the company settings.
type Renderer struct {
	settings model.Settings
}

// NewRenderer creates a renderer using the persisted company settings.
func NewRenderer(settings model.Settings) *Renderer {
	return &Renderer{settings: settings}
}

func (r *Renderer) money(d decimal.Decimal) string {
	return r.settings.CurrencySymbol + d.StringFixed(2)
}

// Order renders a customer receipt for a completed order.
func (r *Renderer) Order(order *model.Order) ([]byte, error) {
	if order == nil {
		return nil, fmt.Errorf("order is required")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Receipt "+order.Reference, true).
		WithAuthor(r.settings.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(r.companyHeader())
	m.AddRows(line.NewRow(1, props.Line{Color: inkDark, Thickness: 0.5}))
	m.AddRows(orderHeader(order))
	m.AddRows(line.NewRow(1, props.Line{Color: inkSoft, Thickness: 0.3}))

	m.AddRows(itemHeaderRow())
	for _, item := range order.Items {
		m.AddRows(r.itemRow(item))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: inkSoft, Thickness: 0.3}))
	m.AddRows(r.orderTotals(order)...)

	if r.settings.ReceiptFooter != "" {
		m.AddRows(line.NewRow(4))
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New(r.settings.ReceiptFooter, props.Text{
				Size: 8, Align: align.Center, Color: inkSoft, Top: 2,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt: %w", err)
	}
	return doc.GetBytes(), nil
}

// SalesReport renders a summary page followed by the ranked sales rows.
func (r *Renderer) SalesReport(title string, summary *model.ReportSummary, rows []model.SalesRow) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle(title, true).
		WithAuthor(r.settings.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(r.companyHeader())
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Top: 2, Color: inkDark}),
	)))
	m.AddRows(line.NewRow(1, props.Line{Color: inkDark, Thickness: 0.5}))

	if summary != nil {
		m.AddRows(summaryRows(r, summary)...)
		m.AddRows(line.NewRow(1, props.Line{Color: inkSoft, Thickness: 0.3}))
	}

	m.AddRows(row.New(8).Add(
		col.New(8).Add(text.New("Name", props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
		col.New(4).Add(text.New("Total", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1})),
	))
	for _, sr := range rows {
		m.AddRows(row.New(6).Add(
			col.New(8).Add(text.New(sr.Name, props.Text{Size: 9, Top: 1})),
			col.New(4).Add(text.New(r.money(sr.Total), props.Text{Size: 9, Align: align.Right, Top: 1})),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	return doc.GetBytes(), nil
}

func (r *Renderer) companyHeader() core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New(r.settings.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Align: align.Center, Color: inkDark, Top: 1,
			}),
			text.New(r.settings.CompanyAddress+"  |  "+r.settings.CompanyPhone, props.Text{
				Size: 8, Align: align.Center, Color: inkSoft, Top: 9,
			}),
		),
	)
}

func orderHeader(order *model.Order) core.Row {
	customer := order.CustomerName
	if customer == "" {
		customer = "Walk-in"
	}

	return row.New(14).Add(
		col.New(7).Add(
			text.New("Order "+order.Reference, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1}),
			text.New("Customer: "+customer, props.Text{Size: 8, Top: 7, Color: inkSoft}),
		),
		col.New(5).Add(
			text.New(order.OrderDate.Local().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: inkSoft,
			}),
			text.New("Paid by "+string(order.PaymentMethod), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: inkSoft,
			}),
		),
	)
}

func itemHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(7).Add(
		h("Qty", 2, align.Center),
		h("Item", 5, align.Left),
		h("Price", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func (r *Renderer) itemRow(item model.OrderItem) core.Row {
	return row.New(6).Add(
		col.New(2).Add(text.New(fmt.Sprintf("%d", item.Quantity), props.Text{
			Size: 8, Align: align.Center, Top: 1,
		})),
		col.New(5).Add(text.New(item.ProductName, props.Text{Size: 8, Top: 1})),
		col.New(2).Add(text.New(r.money(item.UnitPrice), props.Text{
			Size: 8, Align: align.Right, Top: 1,
		})),
		col.New(3).Add(text.New(r.money(item.Subtotal), props.Text{
			Size: 8, Align: align.Right, Top: 1,
		})),
	)
}

// receiptTotals mirrors the register's math: tax is charged on top of
// the summed line subtotals at the configured rate, so the grand total
// matches what the customer actually paid.
func (r *Renderer) receiptTotals(order *model.Order) (subtotal, tax, total decimal.Decimal) {
	subtotal = order.TotalAmount
	tax = subtotal.Mul(r.settings.TaxRate).Round(2)
	total = subtotal.Add(tax)
	return subtotal, tax, total
}

func (r *Renderer) orderTotals(order *model.Order) []core.Row {
	subtotal, tax, total := r.receiptTotals(order)

	softLine := func(label string, amount decimal.Decimal) core.Row {
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{
				Size: 9, Align: align.Right, Color: inkSoft, Top: 1,
			})),
			col.New(3).Add(text.New(r.money(amount), props.Text{
				Size: 9, Align: align.Right, Color: inkSoft, Top: 1,
			})),
		)
	}

	return []core.Row{
		softLine("Subtotal:", subtotal),
		softLine(fmt.Sprintf("Tax (%s%%):", r.settings.TaxRate.Mul(decimal.NewFromInt(100)).String()), tax),
		row.New(10).Add(
			col.New(6),
			col.New(3).Add(
				text.New("TOTAL:", props.Text{
					Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: inkDark, Top: 2,
				}),
			),
			col.New(3).Add(
				text.New(r.money(total), props.Text{
					Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: inkDark, Top: 2,
				}),
			),
		),
	}
}

func summaryRows(r *Renderer, summary *model.ReportSummary) []core.Row {
	pair := func(label, value string) core.Row {
		return row.New(6).Add(
			col.New(5).Add(text.New(label, props.Text{Size: 9, Color: inkSoft, Top: 1})),
			col.New(7).Add(text.New(value, props.Text{Size: 9, Top: 1})),
		)
	}

	return []core.Row{
		pair("Orders", fmt.Sprintf("%d", summary.OrderCount)),
		pair("Total sales", r.money(summary.TotalSales)),
		pair("Average order", r.money(summary.AverageOrder)),
		pair("Top seller", fmt.Sprintf("%s (%s)", summary.TopSeller, r.money(summary.TopSellerAmount))),
	}
}
