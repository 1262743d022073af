package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xm-shop/crm-api/internal/domain"
	"github.com/xm-shop/crm-api/internal/domain/entity"
	"github.com/xm-shop/crm-api/internal/domain/repository"
)

// Ledger owns the invoice collection of a shop: creation, totals, status
// transitions and the customer-name sync onto linked appointments and jobs.
// Every mutation is a read-modify-write of the whole shop document plus a
// best-effort upsert into the invoice row mirror.
type Ledger struct {
	documents repository.DocumentStore
	rows      repository.InvoiceRowStore
	log       zerolog.Logger
}

// New builds the ledger service.
func New(documents repository.DocumentStore, rows repository.InvoiceRowStore, log zerolog.Logger) *Ledger {
	return &Ledger{documents: documents, rows: rows, log: log}
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// load fetches the shop document, starting an empty one for shops that have
// never persisted anything.
func (l *Ledger) load(ctx context.Context, shopID string) (*entity.ShopDocument, error) {
	doc, err := l.documents.Fetch(ctx, shopID)
	if errors.Is(err, domain.ErrNotFound) {
		return entity.NewShopDocument(shopID), nil
	}
	if err != nil {
		return nil, err
	}
	doc.Normalize()
	return doc, nil
}

// persist writes the document (aborting the operation on failure) and then
// mirrors the given invoices into the row store, logging and skipping
// individual mirror failures.
func (l *Ledger) persist(ctx context.Context, doc *entity.ShopDocument, mirror []entity.Invoice) error {
	doc.UpdatedAt = time.Now()
	if err := l.documents.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("upsert shop document: %w", err)
	}
	for n := range mirror {
		if err := l.rows.Upsert(ctx, doc.ShopID, &mirror[n]); err != nil {
			l.log.Warn().Err(err).
				Str("shop_id", doc.ShopID).
				Str("invoice_id", mirror[n].ID).
				Msg("invoice row mirror upsert failed, skipping")
		}
	}
	return nil
}

// newInvoice builds an invoice for an appointment (which may be nil) with
// the next sequential number. seedService controls whether the appointment's
// service becomes the first line item.
func (l *Ledger) newInvoice(doc *entity.ShopDocument, appt *entity.Appointment, seedService bool) entity.Invoice {
	now := time.Now()
	inv := entity.Invoice{
		ID:        uuid.New().String(),
		ShopID:    doc.ShopID,
		Number:    doc.NextInvoiceNumber(),
		Customer:  entity.WalkInCustomer,
		Status:    entity.InvoiceStatusOpen,
		Due:       today(),
		TaxRate:   doc.Settings.TaxRateOrDefault(),
		Discount:  doc.Settings.DefaultDiscount,
		Items:     []entity.LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if appt != nil {
		inv.AppointmentID = appt.ID
		inv.Customer = appt.DisplayName()
		inv.Vehicle = appt.Vehicle
		inv.VIN = appt.VIN
		if seedService && appt.Service != "" {
			item := entity.LineItem{
				Name:  appt.Service,
				Qty:   qtyOne,
				Type:  entity.ItemTypePart,
				Price: servicePrice(&doc.Settings, appt.Service),
			}
			inv.Items = append(inv.Items, item)
		}
	}
	inv.DeriveNameParts()
	return inv
}

// CreateInvoice allocates a new sequentially numbered invoice for an
// appointment and persists it. It does not deduplicate: callers that want at
// most one invoice per appointment check first (or use
// GetOrCreateOpenInvoice).
func (l *Ledger) CreateInvoice(ctx context.Context, shopID, appointmentID string) (*entity.Invoice, error) {
	doc, err := l.load(ctx, shopID)
	if err != nil {
		return nil, err
	}
	inv := l.newInvoice(doc, doc.FindAppointment(appointmentID), true)
	doc.Invoices = append(doc.Invoices, inv)
	if err := l.persist(ctx, doc, []entity.Invoice{inv}); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetOrCreateOpenInvoice returns the open invoice linked to an appointment,
// creating one when none exists. A paid invoice is never reopened: if the
// only invoices for the appointment are paid, a fresh empty invoice with a
// new number is allocated instead.
func (l *Ledger) GetOrCreateOpenInvoice(ctx context.Context, shopID, appointmentID string) (*entity.Invoice, error) {
	if appointmentID == "" {
		return nil, domain.ErrInvalidInput
	}
	doc, err := l.load(ctx, shopID)
	if err != nil {
		return nil, err
	}

	var paidExists bool
	for n := range doc.Invoices {
		if doc.Invoices[n].AppointmentID != appointmentID {
			continue
		}
		if doc.Invoices[n].Status != entity.InvoiceStatusPaid {
			inv := doc.Invoices[n]
			return &inv, nil
		}
		paidExists = true
	}

	// Paid invoices stay closed: start over with an empty one. A brand-new
	// appointment gets its service seeded as the first line.
	inv := l.newInvoice(doc, doc.FindAppointment(appointmentID), !paidExists)
	doc.Invoices = append(doc.Invoices, inv)
	if err := l.persist(ctx, doc, []entity.Invoice{inv}); err != nil {
		return nil, err
	}
	return &inv, nil
}

// SaveInvoice applies an edited invoice (last edited wins for the item list),
// re-derives the customer name halves, keeps the linked job's items in sync
// and propagates the customer name onto the linked appointment and job unless
// it is the Walk-in placeholder. The whole document is rewritten and every
// invoice is re-mirrored.
func (l *Ledger) SaveInvoice(ctx context.Context, shopID string, in *entity.Invoice) (*entity.Invoice, error) {
	if in == nil || in.ID == "" {
		return nil, domain.ErrInvalidInput
	}
	doc, err := l.load(ctx, shopID)
	if err != nil {
		return nil, err
	}

	inv, idx := doc.FindInvoice(in.ID)
	if idx < 0 {
		// A just-created invoice being saved for the first time.
		doc.Invoices = append(doc.Invoices, *in)
		inv = &doc.Invoices[len(doc.Invoices)-1]
		if inv.Number == "" {
			inv.Number = doc.NextInvoiceNumber()
		}
		if inv.CreatedAt.IsZero() {
			inv.CreatedAt = time.Now()
		}
	}

	inv.Customer = in.Customer
	inv.AppointmentID = in.AppointmentID
	inv.JobID = in.JobID
	inv.Vehicle = in.Vehicle
	inv.VIN = in.VIN
	inv.Status = entity.NormalizeInvoiceStatus(in.Status)
	inv.TaxRate = in.TaxRate
	if inv.TaxRate.IsZero() {
		inv.TaxRate = doc.Settings.TaxRateOrDefault()
	}
	inv.Discount = in.Discount
	if inv.Discount.IsZero() {
		inv.Discount = doc.Settings.DefaultDiscount
	}
	inv.Due = in.Due
	if inv.Due == "" {
		inv.Due = today()
	}
	inv.UpdatedAt = time.Now()

	job := doc.FindJobByAppointment(inv.AppointmentID)
	if job != nil && len(in.Items) == 0 {
		// Empty invoice inherits the job's items.
		inv.Items = entity.CloneItems(job.Items)
	} else {
		inv.Items = normalizeItems(in.Items)
		if job != nil {
			job.Items = entity.CloneItems(inv.Items)
		}
	}

	inv.DeriveNameParts()

	if inv.AppointmentID != "" && inv.Customer != "" && inv.Customer != entity.WalkInCustomer {
		if appt := doc.FindAppointment(inv.AppointmentID); appt != nil {
			appt.Customer = inv.Customer
			appt.CustomerFirst = inv.CustomerFirst
			appt.CustomerLast = inv.CustomerLast
		}
		if job != nil {
			job.Customer = inv.Customer
			job.CustomerFirst = inv.CustomerFirst
			job.CustomerLast = inv.CustomerLast
		}
	}

	// Pairing flags never reach storage.
	for n := range doc.Invoices {
		doc.Invoices[n].Items = entity.SanitizeItems(doc.Invoices[n].Items)
	}

	if err := l.persist(ctx, doc, doc.Invoices); err != nil {
		return nil, err
	}
	saved := *inv
	return &saved, nil
}

// MarkPaid transitions an open invoice to paid, stamping paid_date. Items are
// not re-read; the stored invoice is used as-is.
func (l *Ledger) MarkPaid(ctx context.Context, shopID, invoiceID string) (*entity.Invoice, error) {
	now := time.Now()
	return l.transition(ctx, shopID, invoiceID, entity.InvoiceStatusPaid, &now)
}

// MarkUnpaid reverts a paid invoice to open and clears paid_date.
func (l *Ledger) MarkUnpaid(ctx context.Context, shopID, invoiceID string) (*entity.Invoice, error) {
	return l.transition(ctx, shopID, invoiceID, entity.InvoiceStatusOpen, nil)
}

func (l *Ledger) transition(ctx context.Context, shopID, invoiceID, status string, paidDate *time.Time) (*entity.Invoice, error) {
	doc, err := l.load(ctx, shopID)
	if err != nil {
		return nil, err
	}
	inv, idx := doc.FindInvoice(invoiceID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	inv.Status = status
	inv.PaidDate = paidDate
	inv.UpdatedAt = time.Now()
	inv.DeriveNameParts()

	if err := l.persist(ctx, doc, []entity.Invoice{*inv}); err != nil {
		return nil, err
	}
	saved := *inv
	return &saved, nil
}

// RemoveInvoice deletes an invoice from the document and the row mirror.
// With cascadeAppointment the linked appointment goes too; the linked job is
// left alone; work history outlives its invoice.
func (l *Ledger) RemoveInvoice(ctx context.Context, shopID, invoiceID string, cascadeAppointment bool) error {
	doc, err := l.load(ctx, shopID)
	if err != nil {
		return err
	}
	inv, idx := doc.FindInvoice(invoiceID)
	if idx < 0 {
		return domain.ErrNotFound
	}
	appointmentID := inv.AppointmentID

	doc.Invoices = append(doc.Invoices[:idx], doc.Invoices[idx+1:]...)
	if cascadeAppointment && appointmentID != "" {
		kept := doc.Appointments[:0]
		for _, a := range doc.Appointments {
			if a.ID != appointmentID {
				kept = append(kept, a)
			}
		}
		doc.Appointments = kept
	}

	if err := l.persist(ctx, doc, nil); err != nil {
		return err
	}
	if err := l.rows.Delete(ctx, invoiceID); err != nil {
		l.log.Warn().Err(err).
			Str("shop_id", shopID).
			Str("invoice_id", invoiceID).
			Msg("invoice row mirror delete failed")
	}
	return nil
}

// AddItem appends a line item (optionally with attached labor) to a stored
// invoice and persists. The pairing flags stay on the stored items until the
// next full save so a later RemoveItem can still see the pair.
func (l *Ledger) AddItem(ctx context.Context, shopID, invoiceID string, item entity.LineItem, attachedLabor *entity.LineItem) (*entity.Invoice, error) {
	doc, err := l.load(ctx, shopID)
	if err != nil {
		return nil, err
	}
	inv, idx := doc.FindInvoice(invoiceID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	AddLineItem(inv, item, attachedLabor)
	inv.UpdatedAt = time.Now()
	if err := l.persist(ctx, doc, []entity.Invoice{*inv}); err != nil {
		return nil, err
	}
	saved := *inv
	return &saved, nil
}

// RemoveItem removes the line item at itemIdx according to mode and persists.
func (l *Ledger) RemoveItem(ctx context.Context, shopID, invoiceID string, itemIdx int, mode RemoveMode) (*entity.Invoice, error) {
	doc, err := l.load(ctx, shopID)
	if err != nil {
		return nil, err
	}
	inv, idx := doc.FindInvoice(invoiceID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	if err := RemoveLineItem(inv, itemIdx, mode); err != nil {
		return nil, err
	}
	inv.UpdatedAt = time.Now()
	if err := l.persist(ctx, doc, []entity.Invoice{*inv}); err != nil {
		return nil, err
	}
	saved := *inv
	return &saved, nil
}

// GetInvoice returns one invoice by id.
func (l *Ledger) GetInvoice(ctx context.Context, shopID, invoiceID string) (*entity.Invoice, error) {
	doc, err := l.load(ctx, shopID)
	if err != nil {
		return nil, err
	}
	inv, idx := doc.FindInvoice(invoiceID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	out := *inv
	return &out, nil
}

// ListInvoices returns every invoice of the shop in document order.
func (l *Ledger) ListInvoices(ctx context.Context, shopID string) ([]entity.Invoice, error) {
	doc, err := l.load(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return doc.Invoices, nil
}

func normalizeItems(items []entity.LineItem) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(items))
	for _, it := range items {
		it.Type = entity.NormalizeItemType(it.Type)
		out = append(out, it)
	}
	return out
}
