package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tillpos/till/internal/cli"
	"github.com/tillpos/till/internal/model"
	"github.com/tillpos/till/internal/receipt"
)

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Browse and manage past orders",
	}

	cmd.AddCommand(listOrdersCmd())
	cmd.AddCommand(showOrderCmd())
	cmd.AddCommand(editOrderCmd())
	cmd.AddCommand(receiptCmd())
	cmd.AddCommand(deleteOrderCmd())

	return cmd
}

func listOrdersCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders in a date range",
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

			orders, err := store.ListOrders(ctx, start, end)
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				fmt.Println(cli.StyleInfo("No orders in this range."))
				return nil
			}

			symbol := loadSettings(ctx, store).CurrencySymbol
			table := cli.NewTable("ID", "DATE", "REFERENCE", "CUSTOMER", "TOTAL", "PAYMENT", "STATUS")
			for _, o := range orders {
				table.AddRow(
					strconv.FormatInt(o.ID, 10),
					formatLocal(o.OrderDate),
					o.Reference,
					o.CustomerName,
					symbol+o.TotalAmount.StringFixed(2),
					string(o.PaymentMethod),
					string(o.Status),
				)
			}
			fmt.Print(table.Render())
			return nil
		},
	}

	addRangeFlags(cmd, &from, &to)
	return cmd
}

func showOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an order with its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			order, err := store.GetOrder(ctx, id)
			if err != nil {
				return err
			}
			symbol := loadSettings(ctx, store).CurrencySymbol

			customer := order.CustomerName
			if customer == "" {
				customer = "Walk-in"
			}
			fmt.Println(cli.FormatTitle(fmt.Sprintf("Order %s", order.Reference)))
			fmt.Printf("Date:     %s\n", formatLocal(order.OrderDate))
			fmt.Printf("Customer: %s\n", customer)
			fmt.Printf("Payment:  %s\n", string(order.PaymentMethod))
			fmt.Printf("Status:   %s\n\n", string(order.Status))

			table := cli.NewTable("QTY", "ITEM", "PRICE", "SUBTOTAL")
			for _, item := range order.Items {
				table.AddRow(
					strconv.Itoa(item.Quantity),
					item.ProductName,
					symbol+item.UnitPrice.StringFixed(2),
					symbol+item.Subtotal.StringFixed(2),
				)
			}
			fmt.Print(table.Render())
			fmt.Printf("\nTotal: %s\n", cli.StyleSuccess(symbol+order.TotalAmount.StringFixed(2)))
			return nil
		},
	}
}

func editOrderCmd() *cobra.Command {
	var (
		customer string
		setItems []string
		addItems []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Correct an order after the fact",
		Long: `Adjust an order's customer name or lines. --set changes a line's
quantity (0 removes it), --add appends a new line at the product's
current price. The order total is recomputed from its lines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			order, err := store.GetOrder(ctx, id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("customer") {
				order.CustomerName = customer
			}

			for _, arg := range setItems {
				name, qty, err := parseEditItem(arg)
				if err != nil {
					return err
				}
				idx := -1
				for i, item := range order.Items {
					if strings.EqualFold(item.ProductName, name) {
						idx = i
						break
					}
				}
				if idx < 0 {
					return fmt.Errorf("order has no line for %q", name)
				}
				if qty <= 0 {
					order.Items = append(order.Items[:idx], order.Items[idx+1:]...)
				} else {
					order.Items[idx].Quantity = qty
				}
			}

			for _, arg := range addItems {
				name, qty, err := parseSellItem(arg)
				if err != nil {
					return err
				}
				product, err := findProduct(cmd, store, name)
				if err != nil {
					return err
				}
				order.Items = append(order.Items, model.OrderItem{
					ProductID:   product.ID,
					ProductName: product.Name,
					UnitPrice:   product.Price,
					Quantity:    qty,
				})
			}

			updated, err := store.UpdateOrder(ctx, order)
			if err != nil {
				return err
			}

			symbol := loadSettings(ctx, store).CurrencySymbol
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("updated order %s, new total %s%s",
				updated.Reference, symbol, updated.TotalAmount.StringFixed(2))))
			return nil
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "set the customer name")
	cmd.Flags().StringArrayVar(&setItems, "set", nil, "set a line quantity, NAME:QTY (0 removes)")
	cmd.Flags().StringArrayVar(&addItems, "add", nil, "add a line, NAME[:QTY]")
	return cmd
}

// parseEditItem splits "Fries:0" into name and quantity. Unlike a sale
// line, zero is allowed here: it removes the line.
func parseEditItem(arg string) (string, int, error) {
	idx := strings.LastIndex(arg, ":")
	if idx < 0 {
		return "", 0, fmt.Errorf("expected NAME:QTY, got %q", arg)
	}
	qty, err := strconv.Atoi(arg[idx+1:])
	if err != nil || qty < 0 {
		return "", 0, fmt.Errorf("invalid quantity in %q", arg)
	}
	name := strings.TrimSpace(arg[:idx])
	if name == "" {
		return "", 0, fmt.Errorf("empty product name in %q", arg)
	}
	return name, qty, nil
}

func receiptCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "receipt <id>",
		Short: "Render an order receipt as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			order, err := store.GetOrder(ctx, id)
			if err != nil {
				return err
			}

			renderer := receipt.NewRenderer(loadSettings(ctx, store))
			data, err := renderer.Order(order)
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("receipt-%s.pdf", order.Reference)
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write receipt: %w", err)
			}

			fmt.Println(cli.FormatSuccess("wrote " + output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: receipt-<reference>.pdf)")
	return cmd
}

func deleteOrderCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an order and its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			order, err := store.GetOrder(ctx, id)
			if err != nil {
				return err
			}

			if !force && !cli.Confirm(fmt.Sprintf("Delete order %s?", order.Reference)) {
				fmt.Println(cli.StyleInfo("aborted"))
				return nil
			}

			if err := store.DeleteOrder(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("deleted order %s", order.Reference)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}
