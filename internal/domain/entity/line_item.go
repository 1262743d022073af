package entity

import "github.com/shopspring/decimal"

// ItemType classifies an invoice line. Persisted records from older clients
// may omit the type; NormalizeItemType defaults those to part.
type ItemType string

const (
	ItemTypePart    ItemType = "part"
	ItemTypeLabor   ItemType = "labor"
	ItemTypeService ItemType = "service"
)

// NormalizeItemType folds unknown or empty type values onto part.
func NormalizeItemType(t ItemType) ItemType {
	switch t {
	case ItemTypeLabor, ItemTypeService:
		return t
	default:
		return ItemTypePart
	}
}

// LineItem is one invoice line. For labor lines Qty is hours and Price the
// hourly rate. Attached marks a labor line created beside a part via the
// "+Add Labor" shortcut; HasAttachedLabor is the matching flag on the part.
// The pairing flags drive compound removal only and are stripped before
// persistence.
type LineItem struct {
	Name             string          `json:"name"`
	Qty              decimal.Decimal `json:"qty"`
	Price            decimal.Decimal `json:"price"`
	Type             ItemType        `json:"type,omitempty"`
	Attached         bool            `json:"_attached,omitempty"`
	HasAttachedLabor bool            `json:"_hasAttachedLabor,omitempty"`
}

// Amount is qty * price. Zero-valued fields contribute zero.
func (i LineItem) Amount() decimal.Decimal {
	return i.Qty.Mul(i.Price)
}

// SanitizeItems returns a copy of items with the in-memory pairing flags
// cleared, ready for persistence.
func SanitizeItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for n, it := range items {
		it.Attached = false
		it.HasAttachedLabor = false
		out[n] = it
	}
	return out
}

// CloneItems deep-copies a line-item slice (items hold no reference types,
// so a copy of the slice is enough).
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
