package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // recepción de lote
	MovementTypeOUT        = "OUT"        // venta POS o pedido del marketplace
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste manual (+/-)
	MovementTypeRETURN     = "RETURN"     // devolución por anulación de venta
)

// StockMovement registro inmutable de cada cambio de stock por lote.
type StockMovement struct {
	ID        string
	DealerID  string
	ProductID string
	BatchID   string
	Type      string
	Quantity  int // positivo entrada, negativo salida
	UnitCost  decimal.Decimal
	Reference string // venta, pedido, nota de ajuste
	Notes     string
	CreatedBy string
	CreatedAt time.Time
}
