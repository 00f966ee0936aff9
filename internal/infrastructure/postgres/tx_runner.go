package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/dealerhub-api/internal/application/fulfillment"
	"github.com/jhoicas/dealerhub-api/internal/application/inventory"
	"github.com/jhoicas/dealerhub-api/internal/application/pos"
	"github.com/jhoicas/dealerhub-api/internal/application/usecase"
	"github.com/jhoicas/dealerhub-api/internal/application/workshop"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner        = (*TxRunner)(nil)
	_ pos.SaleTxRunner          = (*TxRunner)(nil)
	_ workshop.JobCardTxRunner  = (*TxRunner)(nil)
	_ fulfillment.OrderTxRunner = (*TxRunner)(nil)
	_ usecase.DealerTxRunner    = (*TxRunner)(nil)
	_ usecase.TeamTxRunner      = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run recepción de lotes y ajustes de inventario.
func (r *TxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.InventoryBatchRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewInventoryBatchRepository(tx), NewStockMovementRepository(tx), NewProductRepository(tx))
	})
}

// RunSale venta o anulación POS: cabecera, líneas, consumo FIFO y kardex en una sola tx.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	batchRepo repository.InventoryBatchRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewSaleRepository(tx), NewInventoryBatchRepository(tx), NewStockMovementRepository(tx))
	})
}

// RunJobCard cambio de estado de la orden de taller junto con su evento.
func (r *TxRunner) RunJobCard(ctx context.Context, fn func(jobRepo repository.JobCardRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewJobCardRepository(tx))
	})
}

// RunOrder checkout del marketplace y avance de sub-pedidos.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	batchRepo repository.InventoryBatchRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewInventoryBatchRepository(tx), NewStockMovementRepository(tx))
	})
}

// RunDealer registro de dealer con su usuario owner.
func (r *TxRunner) RunDealer(ctx context.Context, fn func(
	dealerRepo repository.DealerRepository,
	userRepo repository.UserRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewDealerRepository(tx), NewUserRepository(tx))
	})
}

// RunTeam alta de miembros y cambios de permisos.
func (r *TxRunner) RunTeam(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	permRepo repository.PermissionRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewPermissionRepository(tx))
	})
}
