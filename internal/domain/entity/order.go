package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Etapas de despacho de un sub-pedido, en orden.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
)

// FulfillmentStages flujo lineal de un sub-pedido.
var FulfillmentStages = []string{
	OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
	OrderStatusShipped, OrderStatusDelivered,
}

// Order pedido de un cliente del marketplace; se parte en un SubOrder por dealer.
type Order struct {
	ID              string
	CustomerID      string
	Number          string
	Total           decimal.Decimal
	ShippingAddress string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SubOrder partición del pedido que despacha un único dealer.
type SubOrder struct {
	ID             string
	OrderID        string
	DealerID       string
	Subtotal       decimal.Decimal
	Status         string
	TrackingNumber string
	Carrier        string
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem línea de un sub-pedido.
type OrderItem struct {
	ID         string
	SubOrderID string
	ProductID  string
	VariantID  string
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
	UnitCost   decimal.Decimal
	LineTotal  decimal.Decimal
}
