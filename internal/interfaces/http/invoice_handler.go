package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/xm-shop/crm-api/internal/application/dto"
	"github.com/xm-shop/crm-api/internal/application/ledger"
	"github.com/xm-shop/crm-api/internal/application/ports"
	"github.com/xm-shop/crm-api/internal/domain"
	"github.com/xm-shop/crm-api/internal/domain/entity"
)

// InvoiceHandler serves the invoice ledger endpoints (protected).
type InvoiceHandler struct {
	ledger   *ledger.Ledger
	pdf      ports.InvoicePDFGenerator
	shopName string
}

func NewInvoiceHandler(l *ledger.Ledger, pdf ports.InvoicePDFGenerator, shopName string) *InvoiceHandler {
	return &InvoiceHandler{ledger: l, pdf: pdf, shopName: shopName}
}

func invoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	return dto.NewInvoiceResponse(inv, ledger.Subtotal(inv.Items), ledger.Tax(inv), ledger.CalcTotal(inv))
}

func (h *InvoiceHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "invoice not found"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "document changed concurrently, retry"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// List returns every invoice of the shop.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	invoices, err := h.ledger.ListInvoices(c.Context(), GetShopID(c))
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for n := range invoices {
		out = append(out, invoiceResponse(&invoices[n]))
	}
	return c.JSON(out)
}

// Get returns one invoice.
// GET /api/invoices/:id
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	inv, err := h.ledger.GetInvoice(c.Context(), GetShopID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(invoiceResponse(inv))
}

// GetPDF renders the printable invoice.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) GetPDF(c *fiber.Ctx) error {
	inv, err := h.ledger.GetInvoice(c.Context(), GetShopID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	raw, err := h.pdf.GenerateInvoicePDF(c.Context(), h.shopName, inv)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="invoice-%s.pdf"`, inv.Number))
	return c.Send(raw)
}

// Create allocates a new invoice for an appointment.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	inv, err := h.ledger.CreateInvoice(c.Context(), GetShopID(c), in.AppointmentID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoiceResponse(inv))
}

// GetOrCreateForAppointment returns the appointment's open invoice, creating
// one when needed. Paid invoices stay closed; a new number is handed out.
// POST /api/appointments/:id/invoice
func (h *InvoiceHandler) GetOrCreateForAppointment(c *fiber.Ctx) error {
	inv, err := h.ledger.GetOrCreateOpenInvoice(c.Context(), GetShopID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(invoiceResponse(inv))
}

// Save applies an edited invoice.
// PUT /api/invoices/:id
func (h *InvoiceHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	shopID := GetShopID(c)
	current, err := h.ledger.GetInvoice(c.Context(), shopID, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	current.Customer = in.Customer
	current.Vehicle = in.Vehicle
	current.VIN = in.VIN
	current.Due = in.Due
	current.TaxRate = in.TaxRate
	current.Discount = in.Discount
	current.Items = dto.ToLineItems(in.Items)

	saved, err := h.ledger.SaveInvoice(c.Context(), shopID, current)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(invoiceResponse(saved))
}

// AddItem appends a line item, optionally with attached labor.
// POST /api/invoices/:id/items
func (h *InvoiceHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddLineItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	var attached *entity.LineItem
	if in.AttachedLabor != nil {
		it := in.AttachedLabor.ToLineItem()
		attached = &it
	}
	inv, err := h.ledger.AddItem(c.Context(), GetShopID(c), c.Params("id"), in.Item.ToLineItem(), attached)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoiceResponse(inv))
}

// RemoveItem deletes the line item at :index, honoring the pair mode.
// DELETE /api/invoices/:id/items/:index
func (h *InvoiceHandler) RemoveItem(c *fiber.Ctx) error {
	idx, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item index must be a number"})
	}
	var in dto.RemoveLineItemRequest
	// Body is optional; default mode is single.
	_ = c.BodyParser(&in)
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	mode := ledger.RemoveMode(in.Mode)
	if mode == "" {
		mode = ledger.RemoveSingle
	}
	inv, err := h.ledger.RemoveItem(c.Context(), GetShopID(c), c.Params("id"), idx, mode)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(invoiceResponse(inv))
}

// MarkPaid stamps the invoice paid.
// POST /api/invoices/:id/pay
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	inv, err := h.ledger.MarkPaid(c.Context(), GetShopID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(invoiceResponse(inv))
}

// MarkUnpaid reverts a paid invoice to open.
// POST /api/invoices/:id/unpay
func (h *InvoiceHandler) MarkUnpaid(c *fiber.Ctx) error {
	inv, err := h.ledger.MarkUnpaid(c.Context(), GetShopID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(invoiceResponse(inv))
}

// Remove deletes an invoice. cascade=true removes the linked appointment as
// well; the job record stays either way.
// DELETE /api/invoices/:id?cascade=true
func (h *InvoiceHandler) Remove(c *fiber.Ctx) error {
	cascade := c.QueryBool("cascade", false)
	if err := h.ledger.RemoveInvoice(c.Context(), GetShopID(c), c.Params("id"), cascade); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
