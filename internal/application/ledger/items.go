package ledger

import (
	"github.com/xm-shop/crm-api/internal/domain"
	"github.com/xm-shop/crm-api/internal/domain/entity"
)

// RemoveMode selects how RemoveLineItem treats a part/attached-labor pair.
// The part+labor choice is only meaningful when the target row is part of
// such a pair; for everything else Single applies.
type RemoveMode string

const (
	// RemoveSingle removes one row, except that a paired part/attached-labor
	// target takes its partner with it.
	RemoveSingle RemoveMode = "single"
	// RemovePartAndLabor removes a pair explicitly (either half may be the
	// target).
	RemovePartAndLabor RemoveMode = "part_and_labor"
	// RemoveLaborOnly removes just the attached labor row, demoting the part
	// to a standalone item.
	RemoveLaborOnly RemoveMode = "labor_only"
)

// AddLineItem appends an item; with attachedLabor set it appends a labor row
// right after, flagged as attached, and flags the part. Names are not
// deduplicated here; callers wanting dedup check existing names
// (case-insensitively) first.
func AddLineItem(inv *entity.Invoice, item entity.LineItem, attachedLabor *entity.LineItem) {
	item.Type = entity.NormalizeItemType(item.Type)
	if attachedLabor != nil {
		item.HasAttachedLabor = true
	}
	inv.Items = append(inv.Items, item)
	if attachedLabor != nil {
		lab := *attachedLabor
		lab.Type = entity.ItemTypeLabor
		lab.Attached = true
		inv.Items = append(inv.Items, lab)
	}
}

// AttachLabor inserts a labor row immediately after the part at partIdx and
// marks the pair, mirroring the "+Add Labor" shortcut.
func AttachLabor(inv *entity.Invoice, partIdx int, labor entity.LineItem) error {
	if partIdx < 0 || partIdx >= len(inv.Items) {
		return domain.ErrInvalidInput
	}
	labor.Type = entity.ItemTypeLabor
	labor.Attached = true
	inv.Items = append(inv.Items, entity.LineItem{})
	copy(inv.Items[partIdx+2:], inv.Items[partIdx+1:])
	inv.Items[partIdx+1] = labor
	inv.Items[partIdx].HasAttachedLabor = true
	return nil
}

// RemoveLineItem removes the item at idx according to mode.
//
// Pair rules:
//   - part followed by an attached labor row: Single and PartAndLabor both
//     remove the two rows together.
//   - attached labor row: PartAndLabor (or Single) removes the preceding part
//     as well; LaborOnly removes just the labor row and clears the part's
//     pairing flag.
//   - standalone labor and service rows are always removed alone.
func RemoveLineItem(inv *entity.Invoice, idx int, mode RemoveMode) error {
	items := inv.Items
	if idx < 0 || idx >= len(items) {
		return domain.ErrInvalidInput
	}
	target := items[idx]

	switch {
	case mode == RemoveLaborOnly:
		if target.Type != entity.ItemTypeLabor || !target.Attached {
			return domain.ErrInvalidInput
		}
		if idx > 0 && items[idx-1].Type == entity.ItemTypePart {
			items[idx-1].HasAttachedLabor = false
		}
		inv.Items = append(items[:idx], items[idx+1:]...)

	case target.Type == entity.ItemTypePart &&
		idx+1 < len(items) && items[idx+1].Type == entity.ItemTypeLabor && items[idx+1].Attached:
		inv.Items = append(items[:idx], items[idx+2:]...)

	case target.Type == entity.ItemTypeLabor && target.Attached &&
		idx > 0 && items[idx-1].Type == entity.ItemTypePart:
		inv.Items = append(items[:idx-1], items[idx+1:]...)

	default:
		inv.Items = append(items[:idx], items[idx+1:]...)
	}
	return nil
}
