package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tillpos/till/internal/cli"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up, restore and maintain the database",
		Long: `Manage database snapshots. Backups checkpoint the write-ahead log and
copy the database file; restore verifies a backup's integrity before it
touches the live file.`,
	}

	cmd.AddCommand(createBackupCmd())
	cmd.AddCommand(listBackupsCmd())
	cmd.AddCommand(deleteBackupCmd())
	cmd.AddCommand(exportBackupCmd())
	cmd.AddCommand(restoreBackupCmd())
	cmd.AddCommand(checkBackupCmd())
	cmd.AddCommand(optimizeCmd())

	return cmd
}

func createBackupCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create [tag]",
		Short: "Create a managed snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			manager, err := initBackupManager(ctx, store)
			if err != nil {
				return err
			}

			tag := ""
			if len(args) > 0 {
				tag = args[0]
			}

			snap, err := manager.CreateSnapshot(ctx, tag, description)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("created snapshot %q (%d orders, %d products, %.1f KB)",
				snap.ID, snap.Orders, snap.Products, float64(snap.FileSize)/1024)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "snapshot description")
	return cmd
}

func listBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List managed snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			manager, err := initBackupManager(ctx, store)
			if err != nil {
				return err
			}

			snapshots, err := manager.ListSnapshots(ctx)
			if err != nil {
				return err
			}
			if len(snapshots) == 0 {
				fmt.Println(cli.StyleInfo("No snapshots yet. Use 'till backup create' to make one."))
				return nil
			}

			table := cli.NewTable("TAG", "CREATED", "ORDERS", "PRODUCTS", "SIZE", "DESCRIPTION")
			for _, s := range snapshots {
				table.AddRow(
					s.ID,
					formatLocal(s.CreatedAt),
					fmt.Sprintf("%d", s.Orders),
					fmt.Sprintf("%d", s.Products),
					fmt.Sprintf("%.1f KB", float64(s.FileSize)/1024),
					s.Description,
				)
			}
			fmt.Print(table.Render())
			return nil
		},
	}
}

func deleteBackupCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <tag>",
		Short: "Delete a managed snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			manager, err := initBackupManager(ctx, store)
			if err != nil {
				return err
			}

			if !force && !cli.Confirm(fmt.Sprintf("Delete snapshot %q?", args[0])) {
				fmt.Println(cli.StyleInfo("aborted"))
				return nil
			}

			if err := manager.DeleteSnapshot(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("deleted snapshot %q", args[0])))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}

func exportBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <destination>",
		Short: "Back up the database to an arbitrary path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			manager, err := initBackupManager(ctx, store)
			if err != nil {
				return err
			}

			if err := manager.Backup(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("backed up to " + args[0]))
			return nil
		},
	}
}

func restoreBackupCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <tag-or-path>",
		Short: "Restore the database from a snapshot or backup file",
		Long: `Replace the live database with a backup. The backup's integrity is
verified first; a snapshot tag or a path to an exported file both work.
All data written since the backup is lost.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			manager, err := initBackupManager(ctx, store)
			if err != nil {
				return err
			}

			source := args[0]
			if _, statErr := os.Stat(source); statErr != nil {
				// Not a file on disk, try it as a snapshot tag.
				tagged := filepath.Join(manager.BackupsDir(), source+".db")
				if _, tagErr := os.Stat(tagged); tagErr == nil {
					source = tagged
				}
			}

			if !force && !cli.Confirm(cli.StyleWarning("Overwrite the live database? Data written since the backup is lost.")) {
				fmt.Println(cli.StyleInfo("aborted"))
				return nil
			}

			if err := maybeSafetySnapshot(ctx, store, manager, "restore"); err != nil {
				return err
			}

			if err := manager.Restore(ctx, source); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("database restored from " + source))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}

func checkBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a database integrity check",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			manager, err := initBackupManager(ctx, store)
			if err != nil {
				return err
			}

			stats, err := manager.IntegrityCheck(ctx)
			if err != nil {
				return err
			}

			if stats.OK() {
				fmt.Println(cli.FormatSuccess("integrity check passed"))
			} else {
				fmt.Println(cli.FormatError("integrity check FAILED: " + stats.IntegrityCheck))
			}
			fmt.Printf("Database size: %.1f KB\n", float64(stats.SizeBytes)/1024)
			if stats.LastBackup.IsZero() {
				fmt.Println(cli.StyleWarning("No snapshots yet."))
			} else {
				fmt.Printf("Last snapshot: %s\n", formatLocal(stats.LastBackup))
			}
			return nil
		},
	}
}

func optimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Vacuum and analyze the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			manager, err := initBackupManager(ctx, store)
			if err != nil {
				return err
			}

			if err := maybeSafetySnapshot(ctx, store, manager, "optimize"); err != nil {
				return err
			}

			if err := manager.Optimize(ctx); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("database optimized"))
			return nil
		},
	}
}
