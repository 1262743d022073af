package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeInvoiceStatus(t *testing.T) {
	assert.Equal(t, InvoiceStatusOpen, NormalizeInvoiceStatus(""))
	assert.Equal(t, InvoiceStatusOpen, NormalizeInvoiceStatus("open"))
	assert.Equal(t, InvoiceStatusOpen, NormalizeInvoiceStatus("unpaid"))
	assert.Equal(t, InvoiceStatusOpen, NormalizeInvoiceStatus(" Unpaid "))
	assert.Equal(t, InvoiceStatusOpen, NormalizeInvoiceStatus("weird"))
	assert.Equal(t, InvoiceStatusPaid, NormalizeInvoiceStatus("paid"))
	assert.Equal(t, InvoiceStatusPaid, NormalizeInvoiceStatus("PAID"))
}

func TestSplitCustomerName(t *testing.T) {
	tests := []struct {
		in    string
		first string
		last  string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane Mary Doe", "Jane", "Mary Doe"},
		{"Cher", "Cher", ""},
		{"  Jane   Doe  ", "Jane", "Doe"},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, last := SplitCustomerName(tt.in)
		assert.Equal(t, tt.first, first, "first of %q", tt.in)
		assert.Equal(t, tt.last, last, "last of %q", tt.in)
	}
}

func TestIsOverdue(t *testing.T) {
	inv := &Invoice{Status: InvoiceStatusOpen, Due: "2026-01-10"}
	assert.True(t, inv.IsOverdue("2026-01-11"))
	assert.False(t, inv.IsOverdue("2026-01-10"))

	paid := &Invoice{Status: InvoiceStatusPaid, Due: "2026-01-10"}
	assert.False(t, paid.IsOverdue("2026-01-11"))

	noDue := &Invoice{Status: InvoiceStatusOpen}
	assert.False(t, noDue.IsOverdue("2026-01-11"))
}

func TestNextInvoiceNumber(t *testing.T) {
	doc := NewShopDocument("shop-1")
	assert.Equal(t, "1001", doc.NextInvoiceNumber())

	doc.Invoices = []Invoice{{Number: "1001"}, {Number: "1150"}, {Number: "n/a"}}
	assert.Equal(t, "1151", doc.NextInvoiceNumber())

	// Numbers below the floor never pull the sequence down.
	doc.Invoices = []Invoice{{Number: "7"}}
	assert.Equal(t, "1001", doc.NextInvoiceNumber())
}

func TestNormalizeRepairsLoadedDocument(t *testing.T) {
	doc := &ShopDocument{
		ShopID: "shop-1",
		Invoices: []Invoice{{
			Status: "unpaid",
			Items:  []LineItem{{Name: "thing", Type: "widget"}},
		}},
	}
	doc.Normalize()

	assert.NotNil(t, doc.Appointments)
	assert.NotNil(t, doc.Jobs)
	assert.NotNil(t, doc.Threads)
	assert.Equal(t, InvoiceStatusOpen, doc.Invoices[0].Status)
	assert.Equal(t, ItemTypePart, doc.Invoices[0].Items[0].Type)
}

func TestAppointmentDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", (&Appointment{CustomerFirst: "Jane", CustomerLast: "Doe"}).DisplayName())
	assert.Equal(t, "Jane", (&Appointment{CustomerFirst: "Jane"}).DisplayName())
	assert.Equal(t, WalkInCustomer, (&Appointment{}).DisplayName())
}
