package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBatch lote de inventario recibido; se consume FIFO por fecha de recepción.
type InventoryBatch struct {
	ID                string
	DealerID          string
	ProductID         string
	BatchNumber       string
	QuantityReceived  int
	QuantityRemaining int
	UnitCost          decimal.Decimal
	ReceivedAt        time.Time
	ExpiresAt         *time.Time
	CreatedAt         time.Time
}
