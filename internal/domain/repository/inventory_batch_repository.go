package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// StockOverviewRow fila del resumen de stock por producto.
type StockOverviewRow struct {
	ProductID  string
	SKU        string
	Name       string
	CategoryID string
	Stock      int
	MinStock   int
	Cost       decimal.Decimal
	Price      decimal.Decimal
	BatchCount int // lotes con saldo
}

// InventoryBatchRepository define el puerto de persistencia para lotes de inventario (DIP).
type InventoryBatchRepository interface {
	Create(ctx context.Context, batch *entity.InventoryBatch) error
	// ListRemainingForUpdate bloquea (SELECT FOR UPDATE) los lotes con saldo del producto,
	// del más antiguo al más nuevo. Debe usarse dentro de una transacción.
	ListRemainingForUpdate(ctx context.Context, productID string) ([]*entity.InventoryBatch, error)
	DecrementRemaining(ctx context.Context, batchID string, qty int) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryBatch, error)
	StockOf(ctx context.Context, productID string) (int, error)
	StockOverview(ctx context.Context, f ProductFilter) ([]StockOverviewRow, error)
}
