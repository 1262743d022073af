package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses. Data written by older clients may carry "unpaid" as a
// synonym for open; NormalizeInvoiceStatus folds it on decode.
const (
	InvoiceStatusOpen = "open"
	InvoiceStatusPaid = "paid"

	legacyStatusUnpaid = "unpaid"
)

// WalkInCustomer is the sentinel customer name for invoices with no real
// customer attached. Name sync onto appointments/jobs never runs for it.
const WalkInCustomer = "Walk-in"

// FirstInvoiceNumber is the floor for sequential invoice numbers: the first
// invoice of a shop is numbered FirstInvoiceNumber+1.
const FirstInvoiceNumber = 1000

// NormalizeInvoiceStatus maps any persisted status value onto the canonical
// open/paid pair. Empty and unknown values count as open.
func NormalizeInvoiceStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case InvoiceStatusPaid:
		return InvoiceStatusPaid
	case legacyStatusUnpaid, InvoiceStatusOpen:
		return InvoiceStatusOpen
	default:
		return InvoiceStatusOpen
	}
}

// Invoice is the ledger's core record. It lives inside the shop document and
// is mirrored row-by-row into the invoices table.
type Invoice struct {
	ID            string          `json:"id"`
	ShopID        string          `json:"shop_id,omitempty"`
	Number        string          `json:"number"`
	Customer      string          `json:"customer"`
	CustomerFirst string          `json:"customer_first"`
	CustomerLast  string          `json:"customer_last"`
	Vehicle       string          `json:"vehicle,omitempty"`
	VIN           string          `json:"vin,omitempty"`
	AppointmentID string          `json:"appointment_id,omitempty"`
	JobID         string          `json:"job_id,omitempty"`
	Status        string          `json:"status"`
	Due           string          `json:"due,omitempty"` // YYYY-MM-DD
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Discount      decimal.Decimal `json:"discount"` // flat currency amount
	Items         []LineItem      `json:"items"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DeriveNameParts recomputes CustomerFirst/CustomerLast by splitting Customer
// on the first space. Runs on every save regardless of path.
func (inv *Invoice) DeriveNameParts() {
	inv.CustomerFirst, inv.CustomerLast = SplitCustomerName(inv.Customer)
}

// SplitCustomerName splits a display name on the first space: "Jane Doe"
// becomes ("Jane", "Doe"), "Jane Mary Doe" becomes ("Jane", "Mary Doe").
func SplitCustomerName(name string) (first, last string) {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// IsOverdue reports whether the invoice is open with a due date strictly
// before today. Overdue is a display concept only, never persisted.
func (inv *Invoice) IsOverdue(today string) bool {
	return inv.Status == InvoiceStatusOpen && inv.Due != "" && inv.Due < today
}
