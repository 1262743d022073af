package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/xm-shop/crm-api/internal/domain/entity"
)

var qtyOne = decimal.NewFromInt(1)

// servicePrice resolves the price of a seeded service line from the shop's
// service presets: base price when configured, rate*hours otherwise, zero
// for unknown services.
func servicePrice(s *entity.Settings, name string) decimal.Decimal {
	preset := s.ServiceByName(name)
	if preset == nil {
		return decimal.Decimal{}
	}
	if preset.Price.GreaterThan(decimal.Zero) {
		return preset.Price
	}
	return preset.Rate.Mul(preset.Hours)
}
