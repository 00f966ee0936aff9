package pos

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/application/inventory"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

// SaleTxRunner ejecuta una función dentro de una transacción que incluye repos de ventas e inventario.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		batchRepo repository.InventoryBatchRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// StockConsumer interfaz para integrar el POS con el motor de inventario.
// Ambos métodos usan los repositorios del caller (misma transacción); si retornan error el caller hace rollback.
type StockConsumer interface {
	ConsumeInTx(ctx context.Context, batchRepo repository.InventoryBatchRepository, movRepo repository.StockMovementRepository, in inventory.ConsumeInput) (decimal.Decimal, error)
	RestoreInTx(ctx context.Context, batchRepo repository.InventoryBatchRepository, movRepo repository.StockMovementRepository, in inventory.RestoreInput) error
}

// ReceiptGenerator genera la tirilla/recibo de una venta en PDF.
type ReceiptGenerator interface {
	Generate(dealer *entity.Dealer, sale *entity.Sale, items []*entity.SaleItem) ([]byte, error)
}
