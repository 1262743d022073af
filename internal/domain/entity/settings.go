package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ServicePreset is a configured shop service. Price is a base price; when it
// is zero the rate*hours labor math applies instead.
type ServicePreset struct {
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Rate  decimal.Decimal `json:"rate,omitempty"`
	Hours decimal.Decimal `json:"hours,omitempty"`
}

// LaborRate is a named hourly rate preset for labor lines.
type LaborRate struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

// Settings is the per-shop configuration stored inside the shop document.
type Settings struct {
	ShopName        string          `json:"shop_name,omitempty"`
	DefaultTaxRate  decimal.Decimal `json:"default_tax_rate,omitempty"`
	DefaultDiscount decimal.Decimal `json:"default_discount,omitempty"`
	Services        []ServicePreset `json:"services,omitempty"`
	LaborRates      []LaborRate     `json:"labor_rates,omitempty"`
}

// ServiceByName looks up a service preset case-insensitively.
func (s *Settings) ServiceByName(name string) *ServicePreset {
	if name == "" {
		return nil
	}
	lower := strings.ToLower(name)
	for n := range s.Services {
		if strings.ToLower(s.Services[n].Name) == lower {
			return &s.Services[n]
		}
	}
	return nil
}

// TaxRateOrDefault returns the configured default tax rate, or 6 when unset.
func (s *Settings) TaxRateOrDefault() decimal.Decimal {
	if s.DefaultTaxRate.IsZero() {
		return decimal.NewFromInt(6)
	}
	return s.DefaultTaxRate
}
