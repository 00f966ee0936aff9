package apptest

import (
	"context"

	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

// TxRunner ejecuta los callbacks contra el Store; si el callback devuelve error se restaura
// el estado previo (equivalente al Rollback).
type TxRunner struct {
	S *Store
}

func (t TxRunner) run(fn func() error) error {
	snap := t.S.snapshot()
	if err := fn(); err != nil {
		t.S.restore(snap)
		return err
	}
	return nil
}

func (t TxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.InventoryBatchRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return t.run(func() error { return fn(t.S.Batches(), t.S.MovementsRepo(), t.S.Products()) })
}

func (t TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	batchRepo repository.InventoryBatchRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return t.run(func() error { return fn(t.S.Sales(), t.S.Batches(), t.S.MovementsRepo()) })
}

func (t TxRunner) RunJobCard(ctx context.Context, fn func(jobRepo repository.JobCardRepository) error) error {
	return t.run(func() error { return fn(t.S.JobCards()) })
}

func (t TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	batchRepo repository.InventoryBatchRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return t.run(func() error { return fn(t.S.Orders(), t.S.Batches(), t.S.MovementsRepo()) })
}

func (t TxRunner) RunDealer(ctx context.Context, fn func(
	dealerRepo repository.DealerRepository,
	userRepo repository.UserRepository,
) error) error {
	return t.run(func() error { return fn(t.S.Dealers(), t.S.Users()) })
}

func (t TxRunner) RunTeam(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	permRepo repository.PermissionRepository,
) error) error {
	return t.run(func() error { return fn(t.S.Users(), t.S.Permissions()) })
}
