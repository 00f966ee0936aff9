package pos

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// Line línea valorizada del carrito.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals resultado del cálculo del carrito.
type Totals struct {
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	TaxTotal   decimal.Decimal
	Total      decimal.Decimal
	AmountPaid decimal.Decimal
	ChangeDue  decimal.Decimal
}

// ComputeTotals subtotal = Σ qty × precio; impuesto = (subtotal − descuento) × taxRate.
// El efectivo exige amountPaid >= total; otros medios cobran exactamente el total.
func ComputeTotals(lines []Line, discount, taxRate decimal.Decimal, method string, amountPaid *decimal.Decimal) (Totals, error) {
	if len(lines) == 0 || discount.IsNegative() || taxRate.IsNegative() {
		return Totals{}, domain.ErrInvalidInput
	}
	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 || l.UnitPrice.IsNegative() {
			return Totals{}, domain.ErrInvalidInput
		}
		subtotal = subtotal.Add(LineTotal(l.Quantity, l.UnitPrice))
	}
	if discount.GreaterThan(subtotal) {
		return Totals{}, domain.ErrInvalidInput
	}
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(taxRate).Round(2)
	total := taxable.Add(tax)

	t := Totals{Subtotal: subtotal, Discount: discount, TaxTotal: tax, Total: total, AmountPaid: total, ChangeDue: decimal.Zero}
	if method == entity.PaymentCash {
		if amountPaid == nil || amountPaid.LessThan(total) {
			return Totals{}, domain.ErrInvalidInput
		}
		t.AmountPaid = *amountPaid
		t.ChangeDue = amountPaid.Sub(total)
	}
	return t, nil
}

// LineTotal qty × precio redondeado a centavos.
func LineTotal(qty int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}
