package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tillpos/till/internal/cli"
	"github.com/tillpos/till/internal/model"
	"github.com/tillpos/till/internal/register"
	"github.com/tillpos/till/internal/storage"
)

// sellCmd is the scripted checkout: one command line, one order. Items
// are given as NAME:QTY pairs (quantity defaults to 1).
func sellCmd() *cobra.Command {
	var (
		customer   string
		method     string
		tendered   string
		cardNumber string
	)

	cmd := &cobra.Command{
		Use:   "sell <item[:qty]>...",
		Short: "Sell items without the interactive register",
		Long: `Record a sale in one shot. Items are product names with an optional
quantity, e.g.:

  till sell "Cheeseburger:2" "Fries" --method cash --tendered 20`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			paymentMethod, err := model.ParsePaymentMethod(method)
			if err != nil {
				return err
			}

			payment := model.Payment{Method: paymentMethod, CardNumber: cardNumber}
			if tendered != "" {
				amount, err := decimal.NewFromString(tendered)
				if err != nil {
					return fmt.Errorf("invalid --tendered amount %q: %w", tendered, err)
				}
				payment.Tendered = amount
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings := loadSettings(ctx, store)
			cart := register.NewCart(settings.TaxRate)

			for _, arg := range args {
				name, quantity, err := parseSellItem(arg)
				if err != nil {
					return err
				}
				product, err := findProduct(cmd, store, name)
				if err != nil {
					return err
				}
				if err := cart.AddProduct(product, quantity); err != nil {
					return err
				}
			}

			totals := cart.Totals()
			order, result, err := cart.Checkout(ctx, store, customer, payment)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("order %s saved", order.Reference)))
			fmt.Printf("  subtotal %s%s, tax %s%s, total %s%s\n",
				settings.CurrencySymbol, totals.Subtotal.StringFixed(2),
				settings.CurrencySymbol, totals.Tax.StringFixed(2),
				settings.CurrencySymbol, totals.Total.StringFixed(2))
			if result.Change.IsPositive() {
				fmt.Printf("  change due: %s%s\n", settings.CurrencySymbol, result.Change.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "customer name")
	cmd.Flags().StringVarP(&method, "method", "m", "cash", "payment method (cash, credit, debit, mobile)")
	cmd.Flags().StringVarP(&tendered, "tendered", "t", "", "cash tendered (default: exact amount)")
	cmd.Flags().StringVar(&cardNumber, "card", "", "card number for card payments")
	return cmd
}

// parseSellItem splits "Cheeseburger:2" into name and quantity.
func parseSellItem(arg string) (string, int, error) {
	name := arg
	quantity := 1

	if idx := strings.LastIndex(arg, ":"); idx >= 0 {
		qty, err := strconv.Atoi(arg[idx+1:])
		if err != nil || qty <= 0 {
			return "", 0, fmt.Errorf("invalid quantity in %q", arg)
		}
		name = arg[:idx]
		quantity = qty
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, fmt.Errorf("empty product name in %q", arg)
	}
	return name, quantity, nil
}

// findProduct resolves a name to a product, falling back to a search
// with suggestions when the exact name is unknown.
func findProduct(cmd *cobra.Command, store *storage.Store, name string) (*model.Product, error) {
	ctx := cmd.Context()

	product, err := store.GetProductByName(ctx, name)
	if err == nil {
		return product, nil
	}

	matches, searchErr := store.SearchProducts(ctx, name)
	if searchErr == nil && len(matches) > 0 {
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, m.Name)
		}
		return nil, fmt.Errorf("no product named %q; did you mean: %s", name, strings.Join(names, ", "))
	}
	return nil, err
}
