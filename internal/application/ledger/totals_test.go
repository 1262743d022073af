package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/xm-shop/crm-api/internal/domain/entity"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(name string, qty, price string, typ entity.ItemType) entity.LineItem {
	return entity.LineItem{Name: name, Qty: d(qty), Price: d(price), Type: typ}
}

func TestCalcTotal(t *testing.T) {
	inv := &entity.Invoice{
		TaxRate: d("6"),
		Items: []entity.LineItem{
			item("Oil filter", "1", "12.50", entity.ItemTypePart),
			item("Labor", "1", "40", entity.ItemTypeLabor),
		},
	}

	assert.True(t, Subtotal(inv.Items).Equal(d("52.50")))
	assert.True(t, Tax(inv).Equal(d("3.15")))
	assert.True(t, CalcTotal(inv).Equal(d("55.65")))
}

func TestCalcTotalFlatDiscount(t *testing.T) {
	inv := &entity.Invoice{
		TaxRate:  d("6"),
		Discount: d("5"),
		Items: []entity.LineItem{
			item("Wiper blades", "2", "25", entity.ItemTypePart),
		},
	}

	// 50 + 3 - 5
	assert.True(t, CalcTotal(inv).Equal(d("48")))
}

func TestCalcTotalEmptyInvoice(t *testing.T) {
	inv := &entity.Invoice{TaxRate: d("6")}
	assert.True(t, CalcTotal(inv).IsZero())
}

func TestCalcTotalZeroValuedFields(t *testing.T) {
	inv := &entity.Invoice{
		TaxRate: d("6"),
		Items: []entity.LineItem{
			{Name: "no qty", Price: d("99")},
			{Name: "no price", Qty: d("3")},
			item("real", "1", "10", entity.ItemTypePart),
		},
	}

	assert.True(t, Subtotal(inv.Items).Equal(d("10")))
	assert.True(t, CalcTotal(inv).Equal(d("10.6")))
}

func TestCalcTotalDiscountCanGoNegative(t *testing.T) {
	inv := &entity.Invoice{
		Discount: d("20"),
		Items: []entity.LineItem{
			item("washer fluid", "1", "5", entity.ItemTypePart),
		},
	}
	assert.True(t, CalcTotal(inv).Equal(d("-15")))
}

func TestCalcTotalNoRoundingDrift(t *testing.T) {
	inv := &entity.Invoice{
		TaxRate: d("6"),
		Items: []entity.LineItem{
			item("part", "3", "19.99", entity.ItemTypePart),
		},
	}
	// 59.97 * 1.06 exactly, no float drift
	assert.True(t, CalcTotal(inv).Equal(d("63.5682")))
}
