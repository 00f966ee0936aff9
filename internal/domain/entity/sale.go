package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago del POS.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// Estados de una venta.
const (
	SaleStatusCompleted = "completed"
	SaleStatusVoided    = "voided"
)

// ValidPaymentMethod informa si m es un medio de pago soportado.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentTransfer
}

// Sale cabecera de una venta de mostrador (POS).
type Sale struct {
	ID            string
	DealerID      string
	CashierID     string
	Number        string
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	TaxTotal      decimal.Decimal
	Total         decimal.Decimal
	AmountPaid    decimal.Decimal
	ChangeDue     decimal.Decimal
	Status        string
	Notes         string
	VoidReason    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleItem línea de una venta. UnitCost es el costo FIFO de los lotes consumidos.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	VariantID   string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
	LineTotal   decimal.Decimal
}
