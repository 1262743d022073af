package repository

import (
	"context"

	"github.com/xm-shop/crm-api/internal/domain/entity"
)

// InvoiceRowStore is the row-mirror port: a per-invoice table keyed by
// record id, kept as a queryable secondary index beside the shop document.
// Mirror writes are best-effort; the ledger logs and skips failures.
type InvoiceRowStore interface {
	Upsert(ctx context.Context, shopID string, inv *entity.Invoice) error
	Delete(ctx context.Context, invoiceID string) error
}
