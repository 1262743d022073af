package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xm-shop/crm-api/internal/domain"
	"github.com/xm-shop/crm-api/internal/domain/entity"
)

func invoiceWithPair() *entity.Invoice {
	inv := &entity.Invoice{}
	AddLineItem(inv,
		item("Brake pads", "1", "54.99", entity.ItemTypePart),
		&entity.LineItem{Name: "Brake pads install", Qty: d("1"), Price: d("80")},
	)
	return inv
}

func TestAddLineItemWithAttachedLabor(t *testing.T) {
	inv := invoiceWithPair()

	require.Len(t, inv.Items, 2)
	assert.True(t, inv.Items[0].HasAttachedLabor)
	assert.Equal(t, entity.ItemTypeLabor, inv.Items[1].Type)
	assert.True(t, inv.Items[1].Attached)
}

func TestAttachLaborInsertsAfterPart(t *testing.T) {
	inv := &entity.Invoice{}
	AddLineItem(inv, item("Brake pads", "1", "54.99", entity.ItemTypePart), nil)
	AddLineItem(inv, item("Air filter", "1", "19.99", entity.ItemTypePart), nil)

	require.NoError(t, AttachLabor(inv, 0, entity.LineItem{Name: "Install", Qty: d("1"), Price: d("80")}))
	require.Len(t, inv.Items, 3)
	assert.Equal(t, "Install", inv.Items[1].Name)
	assert.True(t, inv.Items[0].HasAttachedLabor)
	assert.True(t, inv.Items[1].Attached)
	assert.Equal(t, "Air filter", inv.Items[2].Name)

	assert.ErrorIs(t, AttachLabor(inv, 99, entity.LineItem{}), domain.ErrInvalidInput)
}

func TestRemovePartTakesAttachedLabor(t *testing.T) {
	inv := invoiceWithPair()
	AddLineItem(inv, item("Shop supplies", "1", "5", entity.ItemTypePart), nil)

	require.NoError(t, RemoveLineItem(inv, 0, RemoveSingle))
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Shop supplies", inv.Items[0].Name)
}

func TestRemoveAttachedLaborTakesPart(t *testing.T) {
	inv := invoiceWithPair()

	require.NoError(t, RemoveLineItem(inv, 1, RemovePartAndLabor))
	assert.Empty(t, inv.Items)
}

func TestRemoveLaborOnlyKeepsPart(t *testing.T) {
	inv := invoiceWithPair()

	require.NoError(t, RemoveLineItem(inv, 1, RemoveLaborOnly))
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Brake pads", inv.Items[0].Name)
	assert.False(t, inv.Items[0].HasAttachedLabor)
}

func TestRemoveLaborOnlyRejectsNonAttached(t *testing.T) {
	inv := &entity.Invoice{}
	AddLineItem(inv, item("Diagnostics", "1", "120", entity.ItemTypeLabor), nil)

	assert.ErrorIs(t, RemoveLineItem(inv, 0, RemoveLaborOnly), domain.ErrInvalidInput)
}

func TestRemoveStandaloneItem(t *testing.T) {
	inv := &entity.Invoice{}
	AddLineItem(inv, item("Diagnostics", "1", "120", entity.ItemTypeLabor), nil)
	AddLineItem(inv, item("Car wash", "1", "15", entity.ItemTypeService), nil)

	require.NoError(t, RemoveLineItem(inv, 0, RemoveSingle))
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Car wash", inv.Items[0].Name)
}

func TestRemoveLineItemBadIndex(t *testing.T) {
	inv := invoiceWithPair()
	assert.ErrorIs(t, RemoveLineItem(inv, -1, RemoveSingle), domain.ErrInvalidInput)
	assert.ErrorIs(t, RemoveLineItem(inv, 2, RemoveSingle), domain.ErrInvalidInput)
}

func TestSanitizeStripsPairingFlags(t *testing.T) {
	inv := invoiceWithPair()
	out := entity.SanitizeItems(inv.Items)

	for _, it := range out {
		assert.False(t, it.Attached)
		assert.False(t, it.HasAttachedLabor)
	}
	// Originals untouched.
	assert.True(t, inv.Items[0].HasAttachedLabor)
}
