package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xm-shop/crm-api/internal/domain/entity"
)

// LineItemPayload is one invoice line as the client sends and receives it.
// The underscore fields carry the part/labor pairing state that the editor
// uses to offer "remove both" when deleting a line.
type LineItemPayload struct {
	Name             string          `json:"name" validate:"required,max=300"`
	Qty              decimal.Decimal `json:"qty"`
	Price            decimal.Decimal `json:"price"`
	Type             string          `json:"type" validate:"omitempty,oneof=part labor service"`
	Attached         bool            `json:"_attached,omitempty"`
	HasAttachedLabor bool            `json:"_hasAttachedLabor,omitempty"`
}

// CreateInvoiceRequest body for POST /api/invoices.
type CreateInvoiceRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required"`
}

// SaveInvoiceRequest body for PUT /api/invoices/:id. The editor sends the
// whole invoice back; items replace what is stored (last edit wins).
type SaveInvoiceRequest struct {
	Customer string            `json:"customer" validate:"omitempty,max=200"`
	Vehicle  string            `json:"vehicle" validate:"omitempty,max=200"`
	VIN      string            `json:"vin" validate:"omitempty,max=20"`
	Due      string            `json:"due" validate:"omitempty,datetime=2006-01-02"`
	TaxRate  decimal.Decimal   `json:"tax_rate"`
	Discount decimal.Decimal   `json:"discount"`
	Items    []LineItemPayload `json:"items" validate:"dive"`
}

// AddLineItemRequest body for POST /api/invoices/:id/items. AttachedLabor,
// when present, is inserted right after the part and the pair is flagged.
type AddLineItemRequest struct {
	Item          LineItemPayload  `json:"item" validate:"required"`
	AttachedLabor *LineItemPayload `json:"attached_labor,omitempty"`
}

// RemoveLineItemRequest body for DELETE /api/invoices/:id/items/:index.
// Mode selects how an attached part/labor pair is taken apart:
// "single", "part_and_labor" or "labor_only".
type RemoveLineItemRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=single part_and_labor labor_only"`
}

// InvoiceResponse is the invoice in API responses, totals included.
type InvoiceResponse struct {
	ID            string            `json:"id"`
	Number        string            `json:"number"`
	AppointmentID string            `json:"appointment_id,omitempty"`
	JobID         string            `json:"job_id,omitempty"`
	Customer      string            `json:"customer"`
	CustomerFirst string            `json:"customer_first,omitempty"`
	CustomerLast  string            `json:"customer_last,omitempty"`
	Vehicle       string            `json:"vehicle,omitempty"`
	VIN           string            `json:"vin,omitempty"`
	Status        string            `json:"status"`
	Due           string            `json:"due,omitempty"`
	PaidDate      *time.Time        `json:"paid_date,omitempty"`
	TaxRate       decimal.Decimal   `json:"tax_rate"`
	Discount      decimal.Decimal   `json:"discount"`
	Items         []LineItemPayload `json:"items"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Tax           decimal.Decimal   `json:"tax"`
	Total         decimal.Decimal   `json:"total"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ToLineItem converts the payload into the domain line item, normalizing the
// type the same way stored documents are normalized.
func (p LineItemPayload) ToLineItem() entity.LineItem {
	return entity.LineItem{
		Name:             p.Name,
		Qty:              p.Qty,
		Price:            p.Price,
		Type:             entity.NormalizeItemType(entity.ItemType(p.Type)),
		Attached:         p.Attached,
		HasAttachedLabor: p.HasAttachedLabor,
	}
}

// ToLineItems converts a payload slice.
func ToLineItems(payloads []LineItemPayload) []entity.LineItem {
	items := make([]entity.LineItem, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, p.ToLineItem())
	}
	return items
}

func fromLineItem(it entity.LineItem) LineItemPayload {
	return LineItemPayload{
		Name:             it.Name,
		Qty:              it.Qty,
		Price:            it.Price,
		Type:             string(it.Type),
		Attached:         it.Attached,
		HasAttachedLabor: it.HasAttachedLabor,
	}
}

// NewInvoiceResponse maps a domain invoice to the API shape with its
// computed totals.
func NewInvoiceResponse(inv *entity.Invoice, subtotal, tax, total decimal.Decimal) InvoiceResponse {
	items := make([]LineItemPayload, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, fromLineItem(it))
	}
	return InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		AppointmentID: inv.AppointmentID,
		JobID:         inv.JobID,
		Customer:      inv.Customer,
		CustomerFirst: inv.CustomerFirst,
		CustomerLast:  inv.CustomerLast,
		Vehicle:       inv.Vehicle,
		VIN:           inv.VIN,
		Status:        inv.Status,
		Due:           inv.Due,
		PaidDate:      inv.PaidDate,
		TaxRate:       inv.TaxRate,
		Discount:      inv.Discount,
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}
