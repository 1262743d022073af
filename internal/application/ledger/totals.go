package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/xm-shop/crm-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Subtotal sums qty*price over all items. Missing numeric fields are decimal
// zero values and contribute nothing.
func Subtotal(items []entity.LineItem) decimal.Decimal {
	var sub decimal.Decimal
	for _, it := range items {
		sub = sub.Add(it.Amount())
	}
	return sub
}

// CalcTotal computes the invoice total:
//
//	subtotal + subtotal*tax_rate/100 - discount
//
// Discount is a flat currency amount. Pure function, never fails; rounding
// to two decimals happens only at render time.
func CalcTotal(inv *entity.Invoice) decimal.Decimal {
	sub := Subtotal(inv.Items)
	tax := sub.Mul(inv.TaxRate).Div(hundred)
	return sub.Add(tax).Sub(inv.Discount)
}

// Tax returns the tax portion of the invoice total.
func Tax(inv *entity.Invoice) decimal.Decimal {
	return Subtotal(inv.Items).Mul(inv.TaxRate).Div(hundred)
}
