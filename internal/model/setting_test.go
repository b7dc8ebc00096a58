package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSettingsFromMap(t *testing.T) {
	t.Run("empty map yields defaults", func(t *testing.T) {
		s := SettingsFromMap(nil)
		assert.True(t, s.TaxRate.Equal(decimal.RequireFromString("0.15")))
		assert.Equal(t, "$", s.CurrencySymbol)
		assert.True(t, s.AutoBackup)
	})

	t.Run("values override defaults", func(t *testing.T) {
		s := SettingsFromMap(map[string]string{
			SettingCompanyName: "Burger Corner",
			SettingTaxRate:     "0.05",
			SettingAutoBackup:  "false",
		})
		assert.Equal(t, "Burger Corner", s.CompanyName)
		assert.True(t, s.TaxRate.Equal(decimal.RequireFromString("0.05")))
		assert.False(t, s.AutoBackup)
	})

	t.Run("malformed tax rate keeps default", func(t *testing.T) {
		s := SettingsFromMap(map[string]string{SettingTaxRate: "fifteen percent"})
		assert.True(t, s.TaxRate.Equal(decimal.RequireFromString("0.15")))
	})

	t.Run("negative tax rate rejected", func(t *testing.T) {
		s := SettingsFromMap(map[string]string{SettingTaxRate: "-0.10"})
		assert.True(t, s.TaxRate.Equal(decimal.RequireFromString("0.15")))
	})
}
