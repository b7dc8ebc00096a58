package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tillpos/till/internal/cli"
	"github.com/tillpos/till/internal/model"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage operator accounts",
	}

	cmd.AddCommand(listUsersCmd())
	cmd.AddCommand(addUserCmd())
	cmd.AddCommand(setUserActiveCmd())
	cmd.AddCommand(passwdCmd())

	return cmd
}

// readPassword prompts for a password without echoing it. It falls back
// to plain reads when stdin is not a terminal (tests, pipes).
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		defer fmt.Println()
		data, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(data), nil
	}

	var password string
	if _, err := fmt.Scanln(&password); err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

func listUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List operator accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			users, err := store.ListUsers(ctx)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Println(cli.StyleInfo("No users yet. Use 'till users add' to create one."))
				return nil
			}

			table := cli.NewTable("USERNAME", "FULL NAME", "ROLE", "ACTIVE", "LAST LOGIN")
			for _, u := range users {
				active := "yes"
				if !u.IsActive {
					active = cli.StyleWarning("no")
				}
				lastLogin := "never"
				if u.LastLoginAt != nil {
					lastLogin = formatLocal(*u.LastLoginAt)
				}
				table.AddRow(u.Username, u.FullName, u.Role, active, lastLogin)
			}
			fmt.Print(table.Render())
			return nil
		},
	}
}

func addUserCmd() *cobra.Command {
	var (
		fullName string
		email    string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an operator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}

			user := &model.User{
				Username: args[0],
				FullName: fullName,
				Email:    email,
				Role:     role,
				IsActive: true,
			}
			if err := user.SetPassword(password); err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			created, err := store.CreateUser(ctx, user)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("created user %q (id %d)", created.Username, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&fullName, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&role, "role", "cashier", "role (cashier, manager, admin)")
	return cmd
}

func setUserActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "active <username> <on|off>",
		Short: "Enable or disable an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var active bool
			switch args[1] {
			case "on":
				active = true
			case "off":
				active = false
			default:
				return fmt.Errorf("expected 'on' or 'off', got %q", args[1])
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetUserActive(ctx, args[0], active); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("user %q set %s", args[0], args[1])))
			return nil
		},
	}
}

func passwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd <username>",
		Short: "Change an account's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			password, err := readPassword("New password: ")
			if err != nil {
				return err
			}
			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}

			var u model.User
			if err := u.SetPassword(password); err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.ChangePassword(ctx, args[0], u.PasswordHash); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("password changed for %q", args[0])))
			return nil
		},
	}
}
