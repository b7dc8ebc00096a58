package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tillpos/till/internal/cli"
	"github.com/tillpos/till/internal/model"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View and change application settings",
		Long: `Settings live in the database and apply immediately: company details
for receipts, the sales tax rate, the currency symbol and backup
behavior.`,
	}

	cmd.AddCommand(listSettingsCmd())
	cmd.AddCommand(getSettingCmd())
	cmd.AddCommand(setSettingCmd())

	return cmd
}

func listSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings, err := store.ListSettings(ctx)
			if err != nil {
				return err
			}

			table := cli.NewTable("KEY", "VALUE", "GROUP", "DESCRIPTION")
			for _, s := range settings {
				table.AddRow(s.Key, s.Value, s.Group, s.Description)
			}
			fmt.Print(table.Render())
			return nil
		},
	}
}

func getSettingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting's value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			value, err := store.GetSetting(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Println(value)
			return nil
		},
	}
}

func setSettingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			switch args[0] {
			case model.SettingTaxRate:
				rate, err := decimal.NewFromString(args[1])
				if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
					return fmt.Errorf("tax_rate must be a number between 0 and 1, got %q", args[1])
				}
			case model.SettingAutoBackup:
				if args[1] != "true" && args[1] != "false" {
					return fmt.Errorf("auto_backup must be true or false, got %q", args[1])
				}
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetSetting(ctx, args[0], args[1]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("set %s = %s", args[0], args[1])))
			return nil
		},
	}
}
