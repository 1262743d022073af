// Package pdf renders the printable invoice customers get at pickup.
//
// A4 layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Shop name            │  Invoice # + Due date        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILL TO: Customer + Vehicle + VIN                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Qty | Description | Type | Unit price | Amount       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALS: Subtotal / Tax / Discount / TOTAL DUE               │
//	│  FOOTER: paid stamp or payment terms                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/xm-shop/crm-api/internal/application/ledger"
	"github.com/xm-shop/crm-api/internal/application/ports"
	"github.com/xm-shop/crm-api/internal/domain/entity"
)

var _ ports.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 20, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 30, Green: 130, Blue: 60}
)

// MarotoPDFGenerator renders invoices with Maroto v2.
type MarotoPDFGenerator struct{}

func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF renders the invoice and returns its bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	shopName string,
	inv *entity.Invoice,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.Number, true).
		WithAuthor(shopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(shopName, inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billToRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(inv.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(inv))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: shop name (left), invoice number and due date (right).
func headerRow(shopName string, inv *entity.Invoice) core.Row {
	right := []core.Component{
		text.New("INVOICE", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right,
			Color: colorPrimary, Top: 1,
		}),
		text.New("#"+inv.Number, props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
		}),
	}
	if inv.Due != "" {
		right = append(right, text.New("Due: "+inv.Due, props.Text{
			Size: 8, Align: align.Right, Top: 14, Color: colorGray,
		}))
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(shopName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Auto service and repair", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(right...),
	)
}

// billToRow: customer and vehicle.
func billToRow(inv *entity.Invoice) core.Row {
	vehicle := inv.Vehicle
	if inv.VIN != "" {
		vehicle = strings.TrimSpace(vehicle + "   VIN: " + inv.VIN)
	}
	if vehicle == "" {
		vehicle = "-"
	}
	customer := inv.Customer
	if customer == "" {
		customer = entity.WalkInCustomer
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(vehicle, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("Description", 5, align.Left),
		h("Type", 2, align.Center),
		h("Unit price", 2, align.Right),
		h("Amount", 2, align.Right),
	)
}

func tableItemRows(items []entity.LineItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Qty.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.Name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				string(it.Type),
				props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray},
			)),
			col.New(2).Add(text.New(
				"$"+it.Price.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+it.Amount().StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: subtotal, tax, discount and total due, right-aligned.
func totalsRow(inv *entity.Invoice) core.Row {
	subtotal := ledger.Subtotal(inv.Items)
	tax := ledger.Tax(inv)
	total := ledger.CalcTotal(inv)

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	labels := []core.Component{label("Subtotal:"), label(fmt.Sprintf("Tax (%s%%):", inv.TaxRate.StringFixed(1)))}
	values := []core.Component{value("$" + subtotal.StringFixed(2)), value("$" + tax.StringFixed(2))}
	if inv.Discount.GreaterThan(decimal.Zero) {
		labels = append(labels, label("Discount:"))
		values = append(values, value("-$"+inv.Discount.StringFixed(2)))
	}
	labels = append(labels, text.New("TOTAL DUE:", props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2,
	}))
	values = append(values, text.New("$"+total.StringFixed(2), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
	}))

	return row.New(30).Add(
		col.New(4),
		col.New(4).Add(labels...),
		col.New(4).Add(values...),
	)
}

func footerRow(inv *entity.Invoice) core.Row {
	if inv.Status == entity.InvoiceStatusPaid {
		stamp := "PAID"
		if inv.PaidDate != nil {
			stamp = "PAID " + inv.PaidDate.Format("01/02/2006")
		}
		return row.New(10).Add(col.New(12).Add(
			text.New(stamp, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Color: colorGreen, Top: 2,
			}),
		))
	}
	return row.New(10).Add(col.New(12).Add(
		text.New("Payment due on receipt. Thank you for your business.", props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 2,
		}),
	))
}
