package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tillpos/till/internal/cli"
	"github.com/tillpos/till/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage menu categories",
		Long:  `List, add, update, and delete the categories that group menu products.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.StyleInfo("No categories yet. Use 'till categories add' to create one."))
				return nil
			}

			table := cli.NewTable("ID", "NAME", "DESCRIPTION")
			for _, cat := range categories {
				table.AddRow(strconv.FormatInt(cat.ID, 10), cat.Name, cat.Description)
			}
			fmt.Print(table.Render())
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			created, err := store.CreateCategory(ctx, &model.Category{
				Name:        args[0],
				Description: description,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("created category %q (id %d)", created.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "category description")
	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category's name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := store.GetCategory(ctx, id)
			if err != nil {
				return err
			}

			if name != "" {
				cat.Name = name
			}
			if cmd.Flags().Changed("description") {
				cat.Description = description
			}

			if err := store.UpdateCategory(ctx, cat); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("updated category %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a category. Categories that still contain products cannot be deleted.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := store.GetCategory(ctx, id)
			if err != nil {
				return err
			}

			if !force && !cli.Confirm(fmt.Sprintf("Delete category %q?", cat.Name)) {
				fmt.Println(cli.StyleInfo("aborted"))
				return nil
			}

			if err := store.DeleteCategory(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("deleted category %q", cat.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}
