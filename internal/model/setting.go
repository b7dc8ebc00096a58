package model

import (
	"github.com/shopspring/decimal"
)

// Setting is one persisted key/value configuration row.
type Setting struct {
	Key         string
	Value       string
	Group       string
	Description string
	ID          int64
}

// Well-known setting keys. The persisted store is the single source of
// truth for these values; business components receive them at
// construction time and never read them from globals.
const (
	SettingCompanyName    = "company_name"
	SettingCompanyAddress = "company_address"
	SettingCompanyPhone   = "company_phone"
	SettingTaxRate        = "tax_rate"
	SettingCurrencySymbol = "currency_symbol"
	SettingReceiptFooter  = "receipt_footer"
	SettingDefaultPrinter = "default_printer"
	SettingBackupPath     = "backup_path"
	SettingAutoBackup     = "auto_backup"
)

// Settings is the typed view over the app_settings table.
type Settings struct {
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CurrencySymbol string
	ReceiptFooter  string
	DefaultPrinter string
	BackupPath     string
	TaxRate        decimal.Decimal
	AutoBackup     bool
}

// DefaultSettings returns the values seeded on first run.
func DefaultSettings() Settings {
	return Settings{
		CompanyName:    "Fast Food Restaurant",
		CompanyAddress: "Main Street, Downtown",
		CompanyPhone:   "0123456789",
		CurrencySymbol: "$",
		ReceiptFooter:  "Thank you for your visit!",
		TaxRate:        decimal.RequireFromString("0.15"),
		AutoBackup:     true,
	}
}

// SettingsFromMap builds typed settings from raw rows, falling back to
// defaults for missing or malformed values.
func SettingsFromMap(values map[string]string) Settings {
	s := DefaultSettings()

	if v, ok := values[SettingCompanyName]; ok {
		s.CompanyName = v
	}
	if v, ok := values[SettingCompanyAddress]; ok {
		s.CompanyAddress = v
	}
	if v, ok := values[SettingCompanyPhone]; ok {
		s.CompanyPhone = v
	}
	if v, ok := values[SettingCurrencySymbol]; ok {
		s.CurrencySymbol = v
	}
	if v, ok := values[SettingReceiptFooter]; ok {
		s.ReceiptFooter = v
	}
	if v, ok := values[SettingDefaultPrinter]; ok {
		s.DefaultPrinter = v
	}
	if v, ok := values[SettingBackupPath]; ok {
		s.BackupPath = v
	}
	if v, ok := values[SettingTaxRate]; ok {
		if rate, err := decimal.NewFromString(v); err == nil && !rate.IsNegative() {
			s.TaxRate = rate
		}
	}
	if v, ok := values[SettingAutoBackup]; ok {
		s.AutoBackup = v == "true" || v == "1"
	}

	return s
}
