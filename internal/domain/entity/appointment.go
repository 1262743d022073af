package entity

import "time"

// Appointment statuses used by the scheduling views. The ledger only cares
// about identity and the customer name fields.
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusActive    = "active"
	AppointmentStatusDone      = "done"
	AppointmentStatusCancelled = "cancelled"
)

// Appointment is a scheduled shop visit. The ledger overwrites the customer
// name fields when a linked invoice is saved with a non-Walk-in name.
type Appointment struct {
	ID            string    `json:"id"`
	ShopID        string    `json:"shop_id,omitempty"`
	Customer      string    `json:"customer"`
	CustomerFirst string    `json:"customer_first"`
	CustomerLast  string    `json:"customer_last"`
	Vehicle       string    `json:"vehicle,omitempty"`
	VIN           string    `json:"vin,omitempty"`
	Service       string    `json:"service,omitempty"`
	Date          string    `json:"date,omitempty"` // YYYY-MM-DD
	Time          string    `json:"time,omitempty"` // HH:MM
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DisplayName joins the stored first/last name, falling back to Walk-in when
// both are empty.
func (a *Appointment) DisplayName() string {
	first, last := a.CustomerFirst, a.CustomerLast
	name := first
	if last != "" {
		if name != "" {
			name += " "
		}
		name += last
	}
	if name == "" {
		return WalkInCustomer
	}
	return name
}
