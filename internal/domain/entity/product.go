package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estado de stock calculado.
const (
	StockStatusInStock    = "in_stock"
	StockStatusLowStock   = "low_stock"
	StockStatusOutOfStock = "out_of_stock"
)

// Product representa un producto publicado por un dealer.
// Cost es promedio ponderado de los lotes recibidos; Stock se deriva de inventory_batches.
type Product struct {
	ID          string
	DealerID    string
	CategoryID  string // vacío si no está clasificado
	SKU         string // único por dealer
	Name        string
	Description string
	Brand       string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	MinStock    int
	ImageURL    string
	IsActive    bool
	Attributes  json.RawMessage
	Stock       int // solo lectura: Σ quantity_remaining de los lotes
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StockStatus clasifica el stock: agotado si stock <= 0, bajo si 0 < stock <= minStock, si no disponible.
func StockStatus(stock, minStock int) string {
	switch {
	case stock <= 0:
		return StockStatusOutOfStock
	case stock <= minStock:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// StockStatus estado de stock del producto.
func (p *Product) StockStatus() string { return StockStatus(p.Stock, p.MinStock) }

// ValidStockStatus informa si s es un estado de stock conocido.
func ValidStockStatus(s string) bool {
	return s == StockStatusInStock || s == StockStatusLowStock || s == StockStatusOutOfStock
}

// ProductVariant variante vendible de un producto (talla, color, etc.).
type ProductVariant struct {
	ID         string
	ProductID  string
	SKU        string
	Name       string
	Price      decimal.Decimal // precio propio de la variante
	Attributes json.RawMessage
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
