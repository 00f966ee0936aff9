package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// ProductFilter criterios de listado de productos. CategoryID y Search se combinan con AND.
type ProductFilter struct {
	DealerID   string
	CategoryID string
	Search     string // nombre, SKU o marca (sin distinguir mayúsculas)
	Status     string // estado de stock calculado
	Active     *bool
	SortBy     string // name | price | stock | created_at
	SortDesc   bool
	Limit      int
	Offset     int
}

// ProductSummary agregados sobre el conjunto filtrado (sin paginar).
type ProductSummary struct {
	TotalProducts  int
	TotalUnits     int
	InventoryValue decimal.Decimal // Σ stock × cost
	LowStock       int
	OutOfStock     int
}

// ProductRepository define el puerto de persistencia para Product y sus variantes (DIP).
// Product.Stock se calcula siempre desde inventory_batches.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la tx (solo dentro de TxRunner).
	GetForUpdate(ctx context.Context, dealerID, id string) (*entity.Product, error)
	GetByDealerAndSKU(ctx context.Context, dealerID, sku string) (*entity.Product, error)
	// Update no modifica Cost ni Stock (se manejan vía lotes).
	Update(ctx context.Context, product *entity.Product) error
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	SetActive(ctx context.Context, productID string, active bool) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	Summary(ctx context.Context, f ProductFilter) (ProductSummary, error)

	CreateVariant(ctx context.Context, v *entity.ProductVariant) error
	GetVariant(ctx context.Context, id string) (*entity.ProductVariant, error)
	UpdateVariant(ctx context.Context, v *entity.ProductVariant) error
	DeleteVariant(ctx context.Context, id string) error
	ListVariants(ctx context.Context, productID string) ([]*entity.ProductVariant, error)
}
