// Package pdf renders invoices as PDF documents for sharing.
package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/shopspring/decimal"

	"github.com/handsfree8/invoicemaker/pkg/models"
)

var hundred = decimal.NewFromInt(100)

// Renderer builds PDF documents from invoices.
type Renderer struct {
	// BusinessName appears in the document header.
	BusinessName string
}

// NewRenderer creates a renderer with the given header name.
func NewRenderer(businessName string) *Renderer {
	return &Renderer{BusinessName: businessName}
}

// Render produces the PDF bytes for a single invoice.
func (r *Renderer) Render(inv models.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	if r.BusinessName != "" {
		m.AddRow(12,
			text.NewCol(12, r.BusinessName, props.Text{
				Size:  12,
				Style: fontstyle.Bold,
			}),
		)
	}

	m.AddRow(10,
		text.NewCol(12, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	// Invoice meta
	m.AddRow(16,
		col.New(6).Add(
			text.New("Invoice number: "+inv.Number, props.Text{Top: 0}),
			text.New("Date: "+inv.Date.Format("January 2, 2006"), props.Text{Top: 4}),
			text.New("Bill to: "+inv.ClientName, props.Text{Top: 8}),
		),
		col.New(6),
	)

	// Table header
	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range inv.Items {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, item.Quantity.String(), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(item.UnitPrice.StringFixed(2)), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(item.LineTotal().StringFixed(2)), props.Text{Size: 9, Align: align.Right}),
		)
	}

	// Totals
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, money(inv.SubTotal().StringFixed(2)), props.Text{Size: 9, Align: align.Right}),
	)
	if inv.HasDiscount() {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, "Discount", props.Text{Size: 9}),
			text.NewCol(2, "-"+money(inv.Discount.StringFixed(2)), props.Text{Size: 9, Align: align.Right}),
		)
	}
	if inv.HasTax() {
		label := fmt.Sprintf("Tax (%s%%)", inv.TaxRate.Mul(hundred).String())
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, label, props.Text{Size: 9}),
			text.NewCol(2, money(inv.Tax().StringFixed(2)), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, money(inv.Total().StringFixed(2)), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	// Footer
	if inv.PaymentMethod != nil {
		m.AddRow(8,
			text.NewCol(12, "Payment method: "+string(*inv.PaymentMethod), props.Text{Size: 9, Top: 4}),
		)
	}
	if inv.Terms != nil && *inv.Terms != "" {
		m.AddRow(10,
			text.NewCol(12, "Terms: "+*inv.Terms, props.Text{Size: 9}),
		)
	}
	if inv.Notes != "" {
		m.AddRow(10,
			text.NewCol(12, inv.Notes, props.Text{Size: 9}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func money(fixed string) string { return "$" + fixed }
