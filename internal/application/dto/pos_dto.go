package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItemRequest línea del carrito del POS.
type CartItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	VariantID string           `json:"variant_id" validate:"omitempty,uuid"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"` // sobrescribe el precio de lista
}

// CheckoutRequest cobro del carrito.
type CheckoutRequest struct {
	Items         []CartItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount      decimal.Decimal   `json:"discount"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card transfer"`
	AmountPaid    *decimal.Decimal  `json:"amount_paid"`
	CustomerName  string            `json:"customer_name" validate:"omitempty,max=200"`
	CustomerPhone string            `json:"customer_phone" validate:"omitempty,max=40"`
	Notes         string            `json:"notes" validate:"omitempty,max=500"`
}

// VoidSaleRequest anulación de una venta.
type VoidSaleRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// SaleItemResponse línea de la venta.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	CashierID     string             `json:"cashier_id"`
	CustomerName  string             `json:"customer_name,omitempty"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	Total         decimal.Decimal    `json:"total"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	ChangeDue     decimal.Decimal    `json:"change_due"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes,omitempty"`
	VoidReason    string             `json:"void_reason,omitempty"`
	Items         []SaleItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SaleListRequest filtros del historial de ventas.
type SaleListRequest struct {
	PageRequest
	From          string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To            string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod string `query:"payment_method" validate:"omitempty,oneof=cash card transfer"`
	Status        string `query:"status" validate:"omitempty,oneof=completed voided"`
	CashierID     string `query:"cashier_id" validate:"omitempty,uuid"`
	Search        string `query:"search"`
}

// SaleSummaryResponse totales del historial filtrado (solo ventas completadas).
type SaleSummaryResponse struct {
	Count         int                        `json:"count"`
	Gross         decimal.Decimal            `json:"gross"`
	Tax           decimal.Decimal            `json:"tax"`
	AverageTicket decimal.Decimal            `json:"average_ticket"`
	ByPayment     map[string]decimal.Decimal `json:"by_payment"`
}

// SaleListResponse historial paginado.
type SaleListResponse struct {
	Items   []SaleResponse      `json:"items"`
	Summary SaleSummaryResponse `json:"summary"`
	Page    PageResponse        `json:"page"`
}
