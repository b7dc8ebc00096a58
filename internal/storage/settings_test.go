package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpos/till/internal/common"
	"github.com/tillpos/till/internal/model"
)

func TestGetSetSetting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetSetting(ctx, model.SettingCompanyName, "Burger Corner"))

	got, err := store.GetSetting(ctx, model.SettingCompanyName)
	require.NoError(t, err)
	assert.Equal(t, "Burger Corner", got)

	// Upsert overwrites.
	require.NoError(t, store.SetSetting(ctx, model.SettingCompanyName, "Burger Corner II"))
	got, err = store.GetSetting(ctx, model.SettingCompanyName)
	require.NoError(t, err)
	assert.Equal(t, "Burger Corner II", got)
}

func TestGetSettingUnknownKey(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetSetting(context.Background(), "no_such_key")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLoadSettings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetSetting(ctx, model.SettingCompanyName, "Burger Corner"))
	require.NoError(t, store.SetSetting(ctx, model.SettingTaxRate, "0.08"))

	settings, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Burger Corner", settings.CompanyName)
	assert.True(t, settings.TaxRate.Equal(decimal.RequireFromString("0.08")), "tax rate %s", settings.TaxRate)
	// Seeded defaults survive partial overrides.
	assert.Equal(t, "$", settings.CurrencySymbol)
}

func TestLoadSettingsMalformedTaxRate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetSetting(ctx, model.SettingTaxRate, "fifteen"))

	settings, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.True(t, settings.TaxRate.Equal(model.DefaultSettings().TaxRate))
}
