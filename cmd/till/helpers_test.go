package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpos/till/internal/model"
	"github.com/tillpos/till/internal/storage"
)

func TestParseSellItem(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		wantName string
		wantQty  int
		wantErr  bool
	}{
		{name: "bare name", arg: "Fries", wantName: "Fries", wantQty: 1},
		{name: "name with quantity", arg: "Cheeseburger:2", wantName: "Cheeseburger", wantQty: 2},
		{name: "name containing colon", arg: "Combo: Deluxe:3", wantName: "Combo: Deluxe", wantQty: 3},
		{name: "zero quantity", arg: "Fries:0", wantErr: true},
		{name: "negative quantity", arg: "Fries:-1", wantErr: true},
		{name: "non-numeric quantity", arg: "Fries:lots", wantErr: true},
		{name: "empty name", arg: ":2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, qty, err := parseSellItem(tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantQty, qty)
		})
	}
}

func TestParseEditItem(t *testing.T) {
	name, qty, err := parseEditItem("Fries:0")
	require.NoError(t, err)
	assert.Equal(t, "Fries", name)
	assert.Equal(t, 0, qty)

	_, _, err = parseEditItem("Fries")
	assert.Error(t, err, "quantity is mandatory for edits")

	_, _, err = parseEditItem("Fries:-1")
	assert.Error(t, err)
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	store, err := storage.New(filepath.Join(t.TempDir(), "till.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestMaybeSafetySnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("enabled, snapshot created", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.SetSetting(ctx, model.SettingAutoBackup, "true"))

		manager, err := store.NewBackupManager(filepath.Join(t.TempDir(), "backups"))
		require.NoError(t, err)

		require.NoError(t, maybeSafetySnapshot(ctx, store, manager, "restore"))

		snapshots, err := manager.ListSnapshots(ctx)
		require.NoError(t, err)
		require.Len(t, snapshots, 1)
		assert.Contains(t, snapshots[0].Description, "restore")
	})

	t.Run("disabled, nothing written", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.SetSetting(ctx, model.SettingAutoBackup, "false"))

		manager, err := store.NewBackupManager(filepath.Join(t.TempDir(), "backups"))
		require.NoError(t, err)

		require.NoError(t, maybeSafetySnapshot(ctx, store, manager, "restore"))

		snapshots, err := manager.ListSnapshots(ctx)
		require.NoError(t, err)
		assert.Empty(t, snapshots)
	})
}

func TestFormatLocalConvertsFromUTC(t *testing.T) {
	orig := time.Local
	time.Local = time.FixedZone("AST", 3*60*60)
	t.Cleanup(func() { time.Local = orig })

	stored := time.Date(2026, 8, 31, 12, 5, 0, 0, time.UTC)

	assert.Equal(t, "2026-08-31 15:05", formatLocal(stored))
	assert.Equal(t, "2026-08-31", formatLocalDate(stored))
}

func TestFormatLocalDateCrossesMidnight(t *testing.T) {
	orig := time.Local
	time.Local = time.FixedZone("AST", 3*60*60)
	t.Cleanup(func() { time.Local = orig })

	stored := time.Date(2026, 8, 30, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, "2026-08-31", formatLocalDate(stored))
}

func TestParseRange(t *testing.T) {
	t.Run("explicit range is inclusive through end of day", func(t *testing.T) {
		start, end, err := parseRange("2026-03-01", "2026-03-15")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, 15, end.Day())
		assert.Equal(t, 23, end.Hour())
	})

	t.Run("defaults to current month", func(t *testing.T) {
		start, end, err := parseRange("", "")
		require.NoError(t, err)
		assert.Equal(t, 1, start.Day())
		assert.False(t, end.Before(start))
	})

	t.Run("reversed range rejected", func(t *testing.T) {
		_, _, err := parseRange("2026-03-15", "2026-03-01")
		assert.Error(t, err)
	})

	t.Run("malformed dates rejected", func(t *testing.T) {
		_, _, err := parseRange("03/01/2026", "")
		assert.Error(t, err)

		_, _, err = parseRange("", "yesterday")
		assert.Error(t, err)
	})
}
