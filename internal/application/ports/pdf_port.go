package ports

import (
	"context"

	"github.com/xm-shop/crm-api/internal/domain/entity"
)

// InvoicePDFGenerator is the outbound port for rendering a printable
// invoice. ShopName comes from configuration; everything else is on the
// invoice itself.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, shopName string, inv *entity.Invoice) ([]byte, error)
}
