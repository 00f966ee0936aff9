package repository

import (
	"context"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el kardex de movimientos (DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, int, error)
}
