package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tillpos/till/internal/cli"
	"github.com/tillpos/till/internal/model"
	"github.com/tillpos/till/internal/report"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Track operating expenses",
	}

	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(updateExpenseCmd())
	cmd.AddCommand(deleteExpenseCmd())
	cmd.AddCommand(exportExpensesCmd())

	return cmd
}

func listExpensesCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses in a date range",
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

			expenses, err := store.ListExpenses(ctx, start, end)
			if err != nil {
				return err
			}
			if len(expenses) == 0 {
				fmt.Println(cli.StyleInfo("No expenses in this range."))
				return nil
			}

			symbol := loadSettings(ctx, store).CurrencySymbol
			total := decimal.Zero
			table := cli.NewTable("ID", "DATE", "CATEGORY", "DESCRIPTION", "VENDOR", "AMOUNT")
			for _, e := range expenses {
				total = total.Add(e.Amount)
				table.AddRow(
					strconv.FormatInt(e.ID, 10),
					formatLocalDate(e.Date),
					e.Category,
					e.Description,
					e.Vendor,
					symbol+e.Amount.StringFixed(2),
				)
			}
			fmt.Print(table.Render())
			fmt.Printf("\nTotal: %s\n", cli.StyleWarning(symbol+total.StringFixed(2)))
			return nil
		},
	}

	addRangeFlags(cmd, &from, &to)
	return cmd
}

func addExpenseCmd() *cobra.Command {
	var (
		category   string
		amount     string
		date       string
		vendor     string
		method     string
		receiptRef string
		createdBy  string
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Record an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}

			when := time.Now().UTC()
			if date != "" {
				when, err = time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			created, err := store.CreateExpense(ctx, &model.Expense{
				Date:          when,
				Category:      category,
				Description:   args[0],
				Vendor:        vendor,
				ReceiptRef:    receiptRef,
				PaymentMethod: method,
				Amount:        value,
				CreatedBy:     createdBy,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("recorded expense %s (id %d)", created.Reference, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "expense category, e.g. Supplies (required)")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount, e.g. 45.90 (required)")
	cmd.Flags().StringVar(&date, "date", "", "expense date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&vendor, "vendor", "", "vendor name")
	cmd.Flags().StringVarP(&method, "method", "m", "cash", "payment method")
	cmd.Flags().StringVar(&receiptRef, "receipt", "", "external receipt reference")
	cmd.Flags().StringVar(&createdBy, "by", "", "who recorded the expense")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func updateExpenseCmd() *cobra.Command {
	var (
		amount      string
		description string
		vendor      string
		modifiedBy  string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Correct a recorded expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q", args[0])
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			e, err := store.GetExpense(ctx, id)
			if err != nil {
				return err
			}

			if amount != "" {
				value, err := decimal.NewFromString(amount)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amount, err)
				}
				e.Amount = value
			}
			if cmd.Flags().Changed("description") {
				e.Description = description
			}
			if cmd.Flags().Changed("vendor") {
				e.Vendor = vendor
			}

			if err := store.UpdateExpense(ctx, e, modifiedBy); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("updated expense %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "corrected amount")
	cmd.Flags().StringVarP(&description, "description", "d", "", "corrected description")
	cmd.Flags().StringVar(&vendor, "vendor", "", "corrected vendor")
	cmd.Flags().StringVar(&modifiedBy, "by", "", "who made the correction")
	return cmd
}

func deleteExpenseCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q", args[0])
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			e, err := store.GetExpense(ctx, id)
			if err != nil {
				return err
			}

			if !force && !cli.Confirm(fmt.Sprintf("Delete expense %q (%s)?", e.Description, e.Amount.StringFixed(2))) {
				fmt.Println(cli.StyleInfo("aborted"))
				return nil
			}

			if err := store.DeleteExpense(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("deleted expense %d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}

func exportExpensesCmd() *cobra.Command {
	var from, to, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to CSV",
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

			expenses, err := store.ListExpenses(ctx, start, end)
			if err != nil {
				return err
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			if err := report.WriteExpensesCSV(out, expenses); err != nil {
				return err
			}
			if output != "" {
				fmt.Println(cli.FormatSuccess("wrote " + output))
			}
			return nil
		},
	}

	addRangeFlags(cmd, &from, &to)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
