package inventory

import (
	"context"
	"io"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.InventoryBatchRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// OverviewExporter serializa el resumen de stock a una hoja de cálculo.
type OverviewExporter interface {
	WriteOverview(w io.Writer, dealerName string, rows []dto.StockOverviewItem) error
}
