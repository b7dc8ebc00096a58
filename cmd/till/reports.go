package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tillpos/till/internal/cli"
	"github.com/tillpos/till/internal/model"
	"github.com/tillpos/till/internal/receipt"
	"github.com/tillpos/till/internal/report"
)

func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Sales and profit reporting",
	}

	cmd.AddCommand(summaryReportCmd())
	cmd.AddCommand(salesReportCmd())
	cmd.AddCommand(periodReportCmd())
	cmd.AddCommand(profitReportCmd())

	return cmd
}

func summaryReportCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Headline numbers for a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start, end, err := parseRange(from, to)
			if err != nil {
				return err
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			summary, err := report.NewGenerator(store).Summarize(ctx, start, end)
			if err != nil {
				return err
			}
			symbol := loadSettings(ctx, store).CurrencySymbol

			content := fmt.Sprintf(
				"Orders:        %d\nTotal sales:   %s%s\nAverage order: %s%s\nTop seller:    %s (%s%s)",
				summary.OrderCount,
				symbol, summary.TotalSales.StringFixed(2),
				symbol, summary.AverageOrder.StringFixed(2),
				summary.TopSeller,
				symbol, summary.TopSellerAmount.StringFixed(2),
			)
			fmt.Println(cli.RenderBox(
				fmt.Sprintf("Sales %s – %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
				content,
			))
			return nil
		},
	}

	addRangeFlags(cmd, &from, &to)
	return cmd
}

func salesReportCmd() *cobra.Command {
	var (
		from, to   string
		byCategory bool
		csvOut     string
		pdfOut     string
	)

	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Rank products or categories by revenue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start, end, err := parseRange(from, to)
			if err != nil {
				return err
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			gen := report.NewGenerator(store)
			label := "product"
			var rows []model.SalesRow
			if byCategory {
				label = "category"
				rows, err = gen.CategorySales(ctx, start, end)
			} else {
				rows, err = gen.ProductSales(ctx, start, end)
			}
			if err != nil {
				return err
			}

			if csvOut != "" {
				f, err := os.Create(csvOut)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", csvOut, err)
				}
				defer func() { _ = f.Close() }()
				if err := report.WriteSalesCSV(f, label, rows); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess("wrote " + csvOut))
				return nil
			}

			settings := loadSettings(ctx, store)
			if pdfOut != "" {
				summary, err := gen.Summarize(ctx, start, end)
				if err != nil {
					return err
				}
				title := fmt.Sprintf("Sales by %s, %s – %s", label, start.Format("2006-01-02"), end.Format("2006-01-02"))
				data, err := receipt.NewRenderer(settings).SalesReport(title, summary, rows)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pdfOut, data, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", pdfOut, err)
				}
				fmt.Println(cli.FormatSuccess("wrote " + pdfOut))
				return nil
			}

			if len(rows) == 0 {
				fmt.Println(cli.StyleInfo("No sales in this range."))
				return nil
			}
			table := cli.NewTable("NAME", "TOTAL")
			for _, row := range rows {
				table.AddRow(row.Name, settings.CurrencySymbol+row.Total.StringFixed(2))
			}
			fmt.Print(table.Render())
			return nil
		},
	}

	addRangeFlags(cmd, &from, &to)
	cmd.Flags().BoolVar(&byCategory, "by-category", false, "group by category instead of product")
	cmd.Flags().StringVar(&csvOut, "csv", "", "write CSV to file")
	cmd.Flags().StringVar(&pdfOut, "pdf", "", "write PDF to file")
	return cmd
}

func periodReportCmd() *cobra.Command {
	var (
		from, to string
		monthly  bool
		csvOut   string
	)

	cmd := &cobra.Command{
		Use:   "period",
		Short: "Revenue per day or per month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start, end, err := parseRange(from, to)
			if err != nil {
				return err
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			periods, err := report.NewGenerator(store).PeriodSales(ctx, start, end, monthly)
			if err != nil {
				return err
			}

			if csvOut != "" {
				f, err := os.Create(csvOut)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", csvOut, err)
				}
				defer func() { _ = f.Close() }()
				if err := report.WritePeriodCSV(f, periods); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess("wrote " + csvOut))
				return nil
			}

			if len(periods) == 0 {
				fmt.Println(cli.StyleInfo("No sales in this range."))
				return nil
			}
			symbol := loadSettings(ctx, store).CurrencySymbol
			table := cli.NewTable("PERIOD", "ORDERS", "TOTAL")
			for _, p := range periods {
				table.AddRow(p.Period, fmt.Sprintf("%d", p.OrderCount), symbol+p.Total.StringFixed(2))
			}
			fmt.Print(table.Render())
			return nil
		},
	}

	addRangeFlags(cmd, &from, &to)
	cmd.Flags().BoolVar(&monthly, "monthly", false, "group by month instead of day")
	cmd.Flags().StringVar(&csvOut, "csv", "", "write CSV to file")
	return cmd
}

func profitReportCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "profit",
		Short: "Sales minus expenses for a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start, end, err := parseRange(from, to)
			if err != nil {
				return err
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			profit, err := report.NewGenerator(store).Profit(ctx, start, end)
			if err != nil {
				return err
			}
			symbol := loadSettings(ctx, store).CurrencySymbol

			net := symbol + profit.Net.StringFixed(2)
			if profit.Net.IsNegative() {
				net = cli.StyleError(net)
			} else {
				net = cli.StyleSuccess(net)
			}
			content := fmt.Sprintf("Sales:    %s%s\nExpenses: %s%s\nNet:      %s",
				symbol, profit.Sales.StringFixed(2),
				symbol, profit.Expenses.StringFixed(2),
				net,
			)
			fmt.Println(cli.RenderBox(
				fmt.Sprintf("Profit %s – %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
				content,
			))
			return nil
		},
	}

	addRangeFlags(cmd, &from, &to)
	return cmd
}
