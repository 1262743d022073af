package localstore

import (
	"context"

	"github.com/xm-shop/crm-api/internal/domain/entity"
	"github.com/xm-shop/crm-api/internal/domain/repository"
)

var _ repository.InvoiceRowStore = NoopRowStore{}

// NoopRowStore discards row-mirror writes. Used in local-file mode, where
// there is no invoices table to mirror into.
type NoopRowStore struct{}

func (NoopRowStore) Upsert(ctx context.Context, shopID string, inv *entity.Invoice) error {
	return nil
}

func (NoopRowStore) Delete(ctx context.Context, invoiceID string) error {
	return nil
}
