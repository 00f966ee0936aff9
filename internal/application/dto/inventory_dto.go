package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveBatchRequest entrada de mercancía (nuevo lote).
type ReceiveBatchRequest struct {
	ProductID   string          `json:"product_id" validate:"required,uuid"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	BatchNumber string          `json:"batch_number" validate:"omitempty,max=80"`
	ExpiresAt   *time.Time      `json:"expires_at"`
}

// AdjustStockRequest ajuste manual: delta positivo crea lote, negativo consume FIFO.
type AdjustStockRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Delta     int    `json:"delta" validate:"required,ne=0"`
	Notes     string `json:"notes" validate:"required,min=3,max=500"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	BatchNumber       string          `json:"batch_number"`
	QuantityReceived  int             `json:"quantity_received"`
	QuantityRemaining int             `json:"quantity_remaining"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	ReceivedAt        time.Time       `json:"received_at"`
	ExpiresAt         *time.Time      `json:"expires_at,omitempty"`
}

// MovementResponse salida de un movimiento del kardex.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	BatchID   string          `json:"batch_id,omitempty"`
	Type      string          `json:"type"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedBy string          `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// MovementListResponse kardex paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockOverviewItem fila del resumen de stock.
type StockOverviewItem struct {
	ProductID  string          `json:"product_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Stock      int             `json:"stock"`
	MinStock   int             `json:"min_stock"`
	Status     string          `json:"status"`
	Cost       decimal.Decimal `json:"cost"`
	Value      decimal.Decimal `json:"value"`
	BatchCount int             `json:"batch_count"`
}

// StockOverviewResponse resumen de stock del dealer.
type StockOverviewResponse struct {
	Items      []StockOverviewItem `json:"items"`
	TotalValue decimal.Decimal     `json:"total_value"`
	LowStock   int                 `json:"low_stock"`
	OutOfStock int                 `json:"out_of_stock"`
}
