package main

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tillpos/till/internal/cli"
	"github.com/tillpos/till/internal/common"
	"github.com/tillpos/till/internal/model"
)

type seedProduct struct {
	name        string
	description string
	price       string
}

type seedCategory struct {
	name        string
	description string
	products    []seedProduct
}

var demoMenu = []seedCategory{
	{
		name:        "Burgers",
		description: "Flame-grilled, served with pickles",
		products: []seedProduct{
			{"Classic Burger", "Beef patty, lettuce, tomato, house sauce", "5.50"},
			{"Cheeseburger", "Classic with aged cheddar", "6.00"},
			{"Double Stack", "Two patties, double cheese", "8.50"},
			{"Veggie Burger", "Black bean patty, avocado", "6.50"},
		},
	},
	{
		name:        "Sides",
		description: "",
		products: []seedProduct{
			{"Fries", "Skin-on, sea salt", "2.00"},
			{"Onion Rings", "Beer battered", "2.50"},
			{"Side Salad", "Mixed leaves, vinaigrette", "3.00"},
		},
	},
	{
		name:        "Drinks",
		description: "",
		products: []seedProduct{
			{"Soft Drink", "330ml can", "1.50"},
			{"Milkshake", "Vanilla, chocolate or strawberry", "3.50"},
			{"Coffee", "Freshly ground", "2.25"},
		},
	},
	{
		name:        "Desserts",
		description: "",
		products: []seedProduct{
			{"Brownie", "Warm, with chocolate sauce", "3.00"},
			{"Sundae", "Two scoops, whipped cream", "3.75"},
		},
	},
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a demo menu into the database",
		Long:  `Creates a small set of demo categories and products for trying out the register. Existing entries with the same names are left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var created int
			for _, sc := range demoMenu {
				cat, err := store.GetCategoryByName(ctx, sc.name)
				if errors.Is(err, common.ErrNotFound) {
					cat, err = store.CreateCategory(ctx, &model.Category{
						Name:        sc.name,
						Description: sc.description,
					})
				}
				if err != nil {
					return fmt.Errorf("failed to seed category %q: %w", sc.name, err)
				}

				for _, sp := range sc.products {
					if _, err := store.GetProductByName(ctx, sp.name); err == nil {
						continue
					} else if !errors.Is(err, common.ErrNotFound) {
						return fmt.Errorf("failed to look up product %q: %w", sp.name, err)
					}

					_, err := store.CreateProduct(ctx, &model.Product{
						Name:        sp.name,
						Description: sp.description,
						Price:       decimal.RequireFromString(sp.price),
						CategoryID:  cat.ID,
						IsAvailable: true,
					})
					if err != nil {
						return fmt.Errorf("failed to seed product %q: %w", sp.name, err)
					}
					created++
				}
			}

			if created == 0 {
				fmt.Println(cli.StyleInfo("Demo menu already present, nothing to do."))
				return nil
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("seeded %d products across %d categories", created, len(demoMenu))))
			return nil
		},
	}
}
