package main

import (
	"github.com/spf13/cobra"

	"github.com/tillpos/till/internal/tui"
)

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Run the interactive register",
		Long: `Open the full-screen register: browse the menu, build an order and
check out, all from the keyboard.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return tui.Run(ctx, store, loadSettings(ctx, store))
		},
	}
}
