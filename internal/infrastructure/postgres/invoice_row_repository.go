package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/xm-shop/crm-api/internal/domain/entity"
	"github.com/xm-shop/crm-api/internal/domain/repository"
)

var _ repository.InvoiceRowStore = (*InvoiceRowRepo)(nil)

// InvoiceRowRepo keeps the invoices table in sync with the shop document:
// one row per invoice, keyed by id, as a queryable secondary index.
type InvoiceRowRepo struct {
	q Querier
}

// NewInvoiceRowRepository builds the adapter. Pass a pool or tx (Querier).
func NewInvoiceRowRepository(q Querier) *InvoiceRowRepo {
	return &InvoiceRowRepo{q: q}
}

// Upsert writes one invoice row, replacing any previous version.
func (r *InvoiceRowRepo) Upsert(ctx context.Context, shopID string, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, shop_id, number, customer, customer_first, customer_last,
			vehicle, vin, appointment_id, job_id, status, due, tax_rate, discount, items,
			paid_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			number = EXCLUDED.number,
			customer = EXCLUDED.customer,
			customer_first = EXCLUDED.customer_first,
			customer_last = EXCLUDED.customer_last,
			vehicle = EXCLUDED.vehicle,
			vin = EXCLUDED.vin,
			appointment_id = EXCLUDED.appointment_id,
			job_id = EXCLUDED.job_id,
			status = EXCLUDED.status,
			due = EXCLUDED.due,
			tax_rate = EXCLUDED.tax_rate,
			discount = EXCLUDED.discount,
			items = EXCLUDED.items,
			paid_date = EXCLUDED.paid_date,
			updated_at = EXCLUDED.updated_at`
	createdAt := inv.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.q.Exec(ctx, query,
		inv.ID, shopID, inv.Number, inv.Customer, inv.CustomerFirst, inv.CustomerLast,
		nullIfEmpty(inv.Vehicle), nullIfEmpty(inv.VIN),
		nullIfEmpty(inv.AppointmentID), nullIfEmpty(inv.JobID),
		entity.NormalizeInvoiceStatus(inv.Status), nullIfEmpty(inv.Due),
		inv.TaxRate, inv.Discount, entity.SanitizeItems(inv.Items),
		inv.PaidDate, createdAt, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert invoice row: %w", err)
	}
	return nil
}

// Delete removes one invoice row by id.
func (r *InvoiceRowRepo) Delete(ctx context.Context, invoiceID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice row: %w", err)
	}
	return nil
}
