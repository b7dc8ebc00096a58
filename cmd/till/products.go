package main

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tillpos/till/internal/cli"
	"github.com/tillpos/till/internal/model"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage menu products",
		Long:  `List, search, add, update, and delete the products on the menu.`,
	}

	cmd.AddCommand(listProductsCmd())
	cmd.AddCommand(searchProductsCmd())
	cmd.AddCommand(addProductCmd())
	cmd.AddCommand(updateProductCmd())
	cmd.AddCommand(availabilityCmd())
	cmd.AddCommand(deleteProductCmd())

	return cmd
}

func renderProducts(products []model.Product, symbol string) {
	table := cli.NewTable("ID", "NAME", "CATEGORY", "PRICE", "AVAILABLE")
	for _, p := range products {
		available := "yes"
		if !p.IsAvailable {
			available = cli.StyleWarning("no")
		}
		table.AddRow(
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.CategoryName,
			symbol+p.Price.StringFixed(2),
			available,
		)
	}
	fmt.Print(table.Render())
}

func listProductsCmd() *cobra.Command {
	var categoryName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var products []model.Product
			if categoryName != "" {
				cat, err := store.GetCategoryByName(ctx, categoryName)
				if err != nil {
					return err
				}
				products, err = store.ListProductsByCategory(ctx, cat.ID)
				if err != nil {
					return err
				}
			} else {
				products, err = store.ListProducts(ctx)
				if err != nil {
					return err
				}
			}

			if len(products) == 0 {
				fmt.Println(cli.StyleInfo("No products found."))
				return nil
			}

			renderProducts(products, loadSettings(ctx, store).CurrencySymbol)
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryName, "category", "c", "", "filter by category name")
	return cmd
}

func searchProductsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search products by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			products, err := store.SearchProducts(ctx, args[0])
			if err != nil {
				return err
			}
			if len(products) == 0 {
				fmt.Println(cli.StyleInfo("No products matched."))
				return nil
			}

			renderProducts(products, loadSettings(ctx, store).CurrencySymbol)
			return nil
		},
	}
}

func addProductCmd() *cobra.Command {
	var (
		categoryName string
		price        string
		description  string
		unavailable  bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a product to the menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", price, err)
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := store.GetCategoryByName(ctx, categoryName)
			if err != nil {
				return err
			}

			created, err := store.CreateProduct(ctx, &model.Product{
				Name:        args[0],
				Description: description,
				Price:       amount,
				CategoryID:  cat.ID,
				IsAvailable: !unavailable,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("created product %q (id %d)", created.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryName, "category", "c", "", "category name (required)")
	cmd.Flags().StringVarP(&price, "price", "p", "", "unit price, e.g. 5.50 (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "product description")
	cmd.Flags().BoolVar(&unavailable, "unavailable", false, "create as unavailable")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func updateProductCmd() *cobra.Command {
	var (
		name         string
		categoryName string
		price        string
		description  string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			p, err := store.GetProduct(ctx, id)
			if err != nil {
				return err
			}

			if name != "" {
				p.Name = name
			}
			if cmd.Flags().Changed("description") {
				p.Description = description
			}
			if price != "" {
				amount, err := decimal.NewFromString(price)
				if err != nil {
					return fmt.Errorf("invalid price %q: %w", price, err)
				}
				p.Price = amount
			}
			if categoryName != "" {
				cat, err := store.GetCategoryByName(ctx, categoryName)
				if err != nil {
					return err
				}
				p.CategoryID = cat.ID
			}

			if err := store.UpdateProduct(ctx, p); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("updated product %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&categoryName, "category", "c", "", "move to category")
	cmd.Flags().StringVarP(&price, "price", "p", "", "new price")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

func availabilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "availability <id> <on|off>",
		Short: "Toggle whether a product can be sold",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}

			var available bool
			switch args[1] {
			case "on":
				available = true
			case "off":
				available = false
			default:
				return fmt.Errorf("expected 'on' or 'off', got %q", args[1])
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetProductAvailability(ctx, id, available); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("product %d availability set to %s", id, args[1])))
			return nil
		},
	}
	return cmd
}

func deleteProductCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Long: `Delete a product from the menu. Past orders keep the product name on
their lines, so sales history is unaffected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			p, err := store.GetProduct(ctx, id)
			if err != nil {
				return err
			}

			if !force && !cli.Confirm(fmt.Sprintf("Delete product %q?", p.Name)) {
				fmt.Println(cli.StyleInfo("aborted"))
				return nil
			}

			if err := store.DeleteProduct(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("deleted product %q", p.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}
