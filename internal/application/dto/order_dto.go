package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de un pedido del marketplace.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	VariantID string `json:"variant_id" validate:"omitempty,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrderRequest pedido del cliente; se reparte por dealer.
type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string             `json:"shipping_address" validate:"required,min=5,max=500"`
}

// AdvanceSubOrderRequest avance del despacho; tracking obligatorio para pasar a shipped.
type AdvanceSubOrderRequest struct {
	Version        int    `json:"version" validate:"min=1"`
	TrackingNumber string `json:"tracking_number" validate:"omitempty,max=120"`
	Carrier        string `json:"carrier" validate:"omitempty,max=120"`
}

// OrderItemResponse línea del sub-pedido.
type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SubOrderResponse parte del pedido de un dealer.
type SubOrderResponse struct {
	ID             string              `json:"id"`
	OrderID        string              `json:"order_id"`
	DealerID       string              `json:"dealer_id"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	Status         string              `json:"status"`
	NextStatus     string              `json:"next_status,omitempty"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	Carrier        string              `json:"carrier,omitempty"`
	Version        int                 `json:"version"`
	Items          []OrderItemResponse `json:"items,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// OrderResponse pedido con sus sub-pedidos.
type OrderResponse struct {
	ID              string             `json:"id"`
	Number          string             `json:"number"`
	Total           decimal.Decimal    `json:"total"`
	ShippingAddress string             `json:"shipping_address"`
	Status          string             `json:"status"`
	SubOrders       []SubOrderResponse `json:"sub_orders,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// SubOrderListResponse sub-pedidos del dealer.
type SubOrderListResponse struct {
	Items []SubOrderResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
