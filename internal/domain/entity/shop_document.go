package entity

import (
	"strconv"
	"time"
)

// Thread is a customer message thread. The ledger never touches threads but
// must carry them through every document write.
type Thread struct {
	ID       string          `json:"id"`
	Customer string          `json:"customer,omitempty"`
	Subject  string          `json:"subject,omitempty"`
	Messages []ThreadMessage `json:"messages,omitempty"`
}

// ThreadMessage is one message inside a thread.
type ThreadMessage struct {
	From string    `json:"from"`
	Body string    `json:"body"`
	At   time.Time `json:"at"`
}

// ShopDocument is the per-shop JSON aggregate: the unit of persistence.
// Every mutation rewrites the whole document; Version is the optimistic-lock
// counter compared on upsert so concurrent writers cannot clobber each other
// silently.
type ShopDocument struct {
	ShopID       string        `json:"shop_id"`
	Settings     Settings      `json:"settings"`
	Appointments []Appointment `json:"appointments"`
	Jobs         []Job         `json:"jobs"`
	Invoices     []Invoice     `json:"invoices"`
	Threads      []Thread      `json:"threads"`
	Version      int64         `json:"version"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewShopDocument returns an empty document for a shop.
func NewShopDocument(shopID string) *ShopDocument {
	return &ShopDocument{
		ShopID:       shopID,
		Appointments: []Appointment{},
		Jobs:         []Job{},
		Invoices:     []Invoice{},
		Threads:      []Thread{},
	}
}

// Normalize repairs records loaded from storage: nil collections become
// empty, legacy invoice statuses fold onto open/paid and item types onto the
// known set.
func (d *ShopDocument) Normalize() {
	if d.Appointments == nil {
		d.Appointments = []Appointment{}
	}
	if d.Jobs == nil {
		d.Jobs = []Job{}
	}
	if d.Invoices == nil {
		d.Invoices = []Invoice{}
	}
	if d.Threads == nil {
		d.Threads = []Thread{}
	}
	for n := range d.Invoices {
		inv := &d.Invoices[n]
		inv.Status = NormalizeInvoiceStatus(inv.Status)
		for m := range inv.Items {
			inv.Items[m].Type = NormalizeItemType(inv.Items[m].Type)
		}
	}
}

// FindInvoice returns the invoice with the given id and its index, or
// (nil, -1).
func (d *ShopDocument) FindInvoice(id string) (*Invoice, int) {
	for n := range d.Invoices {
		if d.Invoices[n].ID == id {
			return &d.Invoices[n], n
		}
	}
	return nil, -1
}

// FindAppointment returns the appointment with the given id, or nil.
func (d *ShopDocument) FindAppointment(id string) *Appointment {
	for n := range d.Appointments {
		if d.Appointments[n].ID == id {
			return &d.Appointments[n]
		}
	}
	return nil
}

// FindJobByAppointment returns the job linked to an appointment, or nil.
func (d *ShopDocument) FindJobByAppointment(appointmentID string) *Job {
	if appointmentID == "" {
		return nil
	}
	for n := range d.Jobs {
		if d.Jobs[n].AppointmentID == appointmentID {
			return &d.Jobs[n]
		}
	}
	return nil
}

// NextInvoiceNumber allocates the next sequential display number:
// max(existing numbers, FirstInvoiceNumber) + 1. Non-numeric numbers are
// ignored, so the first invoice of a shop is 1001.
func (d *ShopDocument) NextInvoiceNumber() string {
	max := FirstInvoiceNumber
	for n := range d.Invoices {
		if v, err := strconv.Atoi(d.Invoices[n].Number); err == nil && v > max {
			max = v
		}
	}
	return strconv.Itoa(max + 1)
}
