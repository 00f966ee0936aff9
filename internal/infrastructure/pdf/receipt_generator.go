// Package pdf genera el recibo de venta POS.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────┐
//	│  HEADER: Dealer + NIT  │  N° Venta + Fecha │
//	│  CLIENTE / CAJA                             │
//	│  TABLA: Cant | Descripción | P.Unit | Total │
//	│  TOTALES: Subtotal / Desc. / IVA / TOTAL    │
//	│  PAGO: medio, recibido, cambio              │
//	│  FOOTER: QR de verificación + leyenda       │
//	└───────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/dealerhub-api/internal/application/pos"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

var _ pos.ReceiptGenerator = (*ReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorVoided  = &props.Color{Red: 180, Green: 20, Blue: 20}
)

var paymentLabels = map[string]string{
	entity.PaymentCash:     "Efectivo",
	entity.PaymentCard:     "Tarjeta",
	entity.PaymentTransfer: "Transferencia",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa pos.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	money *message.Printer
}

// NewReceiptGenerator construye el generador. Montos con separador de miles en español.
func NewReceiptGenerator() *ReceiptGenerator {
	return &ReceiptGenerator{money: message.NewPrinter(language.Spanish)}
}

// Generate genera el PDF del recibo y devuelve sus bytes.
func (g *ReceiptGenerator) Generate(dealer *entity.Dealer, sale *entity.Sale, items []*entity.SaleItem) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Recibo "+sale.Number, true).
		WithAuthor(dealer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(dealer, sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(sale))
	if sale.Status == entity.SaleStatusVoided {
		m.AddRows(voidedRow(sale))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.itemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(dealer, sale))
	m.AddRows(g.paymentRow(sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(dealer, sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ReceiptGenerator) headerRow(dealer *entity.Dealer, sale *entity.Sale) core.Row {
	legal := nonEmpty(dealer.LegalName, dealer.Name)
	return row.New(16).Add(
		col.New(7).Add(
			text.New(dealer.Name, props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1,
			}),
			text.New(legal+"  NIT: "+nonEmpty(dealer.TaxID, "—"), props.Text{
				Size: 7, Top: 7, Color: colorGray,
			}),
			text.New(nonEmpty(dealer.Address, "")+" "+nonEmpty(dealer.City, ""), props.Text{
				Size: 7, Top: 11, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(sale.Number, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 5,
			}),
			text.New(sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 7, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

func customerRow(sale *entity.Sale) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s   |   Tel: %s",
				nonEmpty(sale.CustomerName, "Consumidor final"),
				nonEmpty(sale.CustomerPhone, "—"),
			), props.Text{Size: 8, Top: 5}),
		),
	)
}

func voidedRow(sale *entity.Sale) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("ANULADA: "+sale.VoidReason, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: colorVoided, Top: 2,
		}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a,
			Color: colorWhite, Top: 1.5, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	}
	return row.New(6).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func (g *ReceiptGenerator) itemRows(items []*entity.SaleItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		out = append(out, row.New(6).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(it.Description, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.formatMoney(it.UnitPrice), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(g.formatMoney(it.LineTotal), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func (g *ReceiptGenerator) totalsRow(dealer *entity.Dealer, sale *entity.Sale) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 8, Align: align.Right, Right: 1})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 15})
	}
	taxLabel := "IVA " + dealer.TaxRate.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%:"
	return row.New(24).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:"),
			text.New("Descuento:", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2, Top: 5}),
			text.New(taxLabel, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2, Top: 10}),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 15}),
		),
		col.New(4).Add(
			value(g.formatMoney(sale.Subtotal)),
			text.New("-"+g.formatMoney(sale.Discount), props.Text{Size: 8, Align: align.Right, Right: 1, Top: 5}),
			text.New(g.formatMoney(sale.TaxTotal), props.Text{Size: 8, Align: align.Right, Right: 1, Top: 10}),
			grand(g.formatMoney(sale.Total)),
		),
	)
}

func (g *ReceiptGenerator) paymentRow(sale *entity.Sale) core.Row {
	detail := "Medio de pago: " + nonEmpty(paymentLabels[sale.PaymentMethod], sale.PaymentMethod)
	if sale.PaymentMethod == entity.PaymentCash {
		detail += fmt.Sprintf("   |   Recibido: %s   |   Cambio: %s",
			g.formatMoney(sale.AmountPaid), g.formatMoney(sale.ChangeDue))
	}
	return row.New(7).Add(col.New(12).Add(text.New(detail, props.Text{Size: 7, Top: 2, Color: colorGray})))
}

func footerRow(dealer *entity.Dealer, sale *entity.Sale) core.Row {
	return row.New(28).Add(
		col.New(4).Add(code.NewQr(dealer.Slug+"|"+sale.Number+"|"+sale.Total.StringFixed(2), props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Gracias por su compra.", props.Text{Style: fontstyle.Bold, Size: 9, Top: 4, Left: 3, Color: colorPrimary}),
			text.New("Conserve este recibo para cambios y garantías.", props.Text{Size: 7, Top: 11, Left: 3, Color: colorGray}),
			text.New(nonEmpty(dealer.Phone, "")+"  "+nonEmpty(dealer.Email, ""), props.Text{Size: 7, Top: 16, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney redondea a pesos y agrega separador de miles: 1234567 → "$1.234.567".
func (g *ReceiptGenerator) formatMoney(d decimal.Decimal) string {
	return g.money.Sprintf("$%d", d.Round(0).IntPart())
}
