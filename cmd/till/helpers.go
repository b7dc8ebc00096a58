package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tillpos/till/internal/common"
	"github.com/tillpos/till/internal/config"
	"github.com/tillpos/till/internal/model"
	"github.com/tillpos/till/internal/storage"
)

// initStore opens the database and brings the schema up to date.
func initStore(ctx context.Context) (*storage.Store, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.New(dbPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open database at %s", dbPath), err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initBackupManager opens the store and a backup manager rooted at the
// configured (or default) backups directory.
func initBackupManager(ctx context.Context, store *storage.Store) (*storage.BackupManager, error) {
	backupsDir := viper.GetString("backup.dir")
	if backupsDir == "" {
		settings, err := store.LoadSettings(ctx)
		if err == nil && settings.BackupPath != "" {
			backupsDir = settings.BackupPath
		}
	}
	if backupsDir == "" {
		backupsDir = config.DefaultBackupsDir()
	}

	return store.NewBackupManager(config.ExpandPath(backupsDir))
}

// addRangeFlags registers the --from/--to date range flags shared by
// the listing and reporting commands.
func addRangeFlags(cmd *cobra.Command, from, to *string) {
	cmd.Flags().StringVar(from, "from", "", "start date (YYYY-MM-DD, default: first of this month)")
	cmd.Flags().StringVar(to, "to", "", "end date (YYYY-MM-DD, default: today)")
}

// parseRange resolves the --from/--to flags into an inclusive range.
// The range defaults to the current month so far.
func parseRange(from, to string) (start, end time.Time, err error) {
	now := time.Now().UTC()

	if from == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		start, err = time.Parse("2006-01-02", from)
		if err != nil {
			return start, end, fmt.Errorf("invalid --from date %q: %w", from, err)
		}
	}

	if to == "" {
		end = now
	} else {
		end, err = time.Parse("2006-01-02", to)
		if err != nil {
			return start, end, fmt.Errorf("invalid --to date %q: %w", to, err)
		}
		// Inclusive through the end of the day.
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	if end.Before(start) {
		return start, end, fmt.Errorf("--to %s is before --from %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return start, end, nil
}

// maybeSafetySnapshot creates an automatic snapshot ahead of an
// operation that rewrites the database file, when auto_backup is on.
func maybeSafetySnapshot(ctx context.Context, store *storage.Store, manager *storage.BackupManager, operation string) error {
	if !loadSettings(ctx, store).AutoBackup {
		return nil
	}
	if _, err := manager.CreateSnapshot(ctx, "", "automatic snapshot before "+operation); err != nil {
		return fmt.Errorf("failed to create safety snapshot: %w", err)
	}
	return nil
}

// Timestamps are stored normalized to UTC; every render site goes
// through these so the operator sees local wall-clock time.

func formatLocal(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func formatLocalDate(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

// loadSettings reads the typed application settings, falling back to
// defaults when the table cannot be read.
func loadSettings(ctx context.Context, store *storage.Store) model.Settings {
	settings, err := store.LoadSettings(ctx)
	if err != nil {
		return model.DefaultSettings()
	}
	return settings
}
